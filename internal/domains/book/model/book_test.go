package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	author "library-backend/internal/domains/author/model"
	"library-backend/internal/shared/audit"
	"library-backend/internal/shared/domainerr"
)

func mustTitle(t *testing.T, raw string) BookTitle {
	t.Helper()
	title, err := NewBookTitle(raw)
	require.NoError(t, err)
	return title
}

func singleAuthor(t *testing.T, name string) AuthorList {
	t.Helper()
	list, err := NewAuthorList(
		[]author.AuthorName{mustName(t, name)},
		[]author.AuthorReference{refFor(t, name)},
	)
	require.NoError(t, err)
	return list
}

func newBook(t *testing.T, owner audit.Actor) *Book {
	t.Helper()
	book, err := CreateNew(
		ctxAt(owner, baseTime),
		mustTitle(t, "The Dispossessed"),
		singleAuthor(t, "Ursula K. Le Guin"),
		BookISBN{},
		BookDescription{},
		NewBookOwner(owner.User()),
	)
	require.NoError(t, err)
	return book
}

func TestBookCreateNew_OwnerCreatesOwnBook(t *testing.T) {
	owner := actorAt(audit.RoleRegular)

	book := newBook(t, owner)

	assert.Equal(t, "The Dispossessed", book.Title())
	assert.Equal(t, owner.User(), book.Owner())
	assert.Equal(t, owner.User(), book.Audit().CreatedBy())
	assert.True(t, book.Audit().IsNew())
	assert.False(t, book.IsCheckedOut())
}

func TestBookCreateNew_RegularCannotCreateForOthers(t *testing.T) {
	someoneElse := audit.NewUserReference(uuid.New(), "someone else")

	_, err := CreateNew(
		ctxAt(actorAt(audit.RoleRegular), baseTime),
		mustTitle(t, "The Dispossessed"),
		singleAuthor(t, "Ursula K. Le Guin"),
		BookISBN{},
		BookDescription{},
		NewBookOwner(someoneElse),
	)
	assert.ErrorIs(t, err, domainerr.ErrForbidden)
}

func TestBookCreateNew_AdminCreatesForAnyone(t *testing.T) {
	someoneElse := audit.NewUserReference(uuid.New(), "someone else")

	book, err := CreateNew(
		ctxAt(actorAt(audit.RoleAdmin), baseTime),
		mustTitle(t, "The Dispossessed"),
		singleAuthor(t, "Ursula K. Le Guin"),
		BookISBN{},
		BookDescription{},
		NewBookOwner(someoneElse),
	)
	require.NoError(t, err)
	assert.Equal(t, someoneElse, book.Owner())
}

func TestBookUpdate_ByCreator(t *testing.T) {
	owner := actorAt(audit.RoleRegular)
	book := newBook(t, owner)

	updateAt := baseTime.Add(time.Hour)
	isbn, err := NewBookISBN(strPtr("9780061054884"))
	require.NoError(t, err)

	require.NoError(t, book.Update(
		ctxAt(owner, updateAt),
		mustTitle(t, "The Dispossessed: A Novel"),
		singleAuthor(t, "Ursula K. Le Guin"),
		isbn,
		BookDescription{},
	))

	assert.Equal(t, "The Dispossessed: A Novel", book.Title())
	require.NotNil(t, book.ISBN())
	assert.Equal(t, "9780061054884", *book.ISBN())
	require.NotNil(t, book.Audit().UpdatedAt())
	assert.Equal(t, updateAt, *book.Audit().UpdatedAt())
}

func TestBookUpdate_ByStrangerDenied(t *testing.T) {
	book := newBook(t, actorAt(audit.RoleRegular))

	err := book.Update(
		ctxAt(actorAt(audit.RoleRegular), baseTime.Add(time.Hour)),
		mustTitle(t, "Hijacked"),
		singleAuthor(t, "Nobody"),
		BookISBN{},
		BookDescription{},
	)
	assert.ErrorIs(t, err, domainerr.ErrForbidden)
	assert.Equal(t, "The Dispossessed", book.Title())
}

func TestBookValidateDeletion(t *testing.T) {
	owner := actorAt(audit.RoleRegular)
	book := newBook(t, owner)

	assert.NoError(t, book.ValidateDeletion(ctxAt(owner, baseTime)))
	assert.NoError(t, book.ValidateDeletion(ctxAt(actorAt(audit.RoleAdmin), baseTime)))
	assert.ErrorIs(t,
		book.ValidateDeletion(ctxAt(actorAt(audit.RoleRegular), baseTime)),
		domainerr.ErrForbidden)
}

func TestBookChangeOwner_AdminOnly(t *testing.T) {
	owner := actorAt(audit.RoleRegular)
	book := newBook(t, owner)
	newOwner := audit.NewUserReference(uuid.New(), "new owner")

	err := book.ChangeOwner(ctxAt(owner, baseTime.Add(time.Hour)), newOwner)
	assert.ErrorIs(t, err, domainerr.ErrForbidden)
	assert.Equal(t, owner.User(), book.Owner())

	require.NoError(t, book.ChangeOwner(ctxAt(actorAt(audit.RoleAdmin), baseTime.Add(time.Hour)), newOwner))
	assert.Equal(t, newOwner, book.Owner())
}

func TestBookChangeOwner_SameOwnerRejected(t *testing.T) {
	owner := actorAt(audit.RoleRegular)
	book := newBook(t, owner)

	// The permission gate runs first: a non-admin gets forbidden even
	// for a no-op transfer, an admin gets the validation error.
	err := book.ChangeOwner(ctxAt(owner, baseTime.Add(time.Hour)), owner.User())
	assert.ErrorIs(t, err, domainerr.ErrForbidden)

	err = book.ChangeOwner(ctxAt(actorAt(audit.RoleAdmin), baseTime.Add(time.Hour)), owner.User())
	assert.True(t, domainerr.IsValidation(err))
}

func TestBookCheckoutLifecycle(t *testing.T) {
	owner := actorAt(audit.RoleRegular)
	borrower := actorAt(audit.RoleRegular)
	book := newBook(t, owner)

	require.NoError(t, book.DoCheckout(ctxAt(borrower, baseTime.Add(time.Hour))))
	assert.True(t, book.IsCheckedOut())

	require.NoError(t, book.DoReturn(ctxAt(borrower, baseTime.Add(2*time.Hour))))
	assert.False(t, book.IsCheckedOut())
}

func TestNewBookISBN(t *testing.T) {
	_, err := NewBookISBN(strPtr("123"))
	assert.True(t, domainerr.IsValidation(err))

	isbn, err := NewBookISBN(nil)
	require.NoError(t, err)
	assert.Nil(t, isbn.Raw())

	isbn, err = NewBookISBN(strPtr("9780061054884"))
	require.NoError(t, err)
	require.NotNil(t, isbn.Raw())
}

func strPtr(s string) *string {
	return &s
}
