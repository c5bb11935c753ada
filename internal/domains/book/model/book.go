package model

import (
	"library-backend/internal/shared/audit"
	"library-backend/internal/shared/domainerr"
)

// Book is the lending aggregate. It owns the author-list and checkout
// invariants; the repository owns the rows the aggregate is saved to.
type Book struct {
	audit       audit.EntityAudit[BookID]
	title       BookTitle
	authors     AuthorList
	isbn        BookISBN
	description BookDescription
	owner       BookOwner
	checkouts   CheckoutHistory
}

func (b *Book) Audit() audit.EntityAudit[BookID] {
	return b.audit
}

func (b *Book) Title() string {
	return b.title.String()
}

func (b *Book) Authors() AuthorList {
	return b.authors
}

func (b *Book) ISBN() *string {
	return b.isbn.Raw()
}

func (b *Book) Description() *string {
	return b.description.Raw()
}

func (b *Book) Owner() audit.UserReference {
	return b.owner.Raw()
}

func (b *Book) Checkouts() CheckoutHistory {
	return b.checkouts
}

func (b *Book) IsCheckedOut() bool {
	return b.checkouts.IsCheckedOut()
}

// Hydrate rebuilds a persisted aggregate.
func Hydrate(
	entityAudit audit.EntityAudit[BookID],
	title BookTitle,
	authors AuthorList,
	isbn BookISBN,
	description BookDescription,
	owner BookOwner,
	checkouts CheckoutHistory,
) *Book {
	return &Book{
		audit:       entityAudit,
		title:       title,
		authors:     authors,
		isbn:        isbn,
		description: description,
		owner:       owner,
		checkouts:   checkouts,
	}
}

// CreateNew registers a book. You may create a book you own, or an
// admin may create one on anyone's behalf.
func CreateNew(
	ctx audit.Context,
	title BookTitle,
	authors AuthorList,
	isbn BookISBN,
	description BookDescription,
	owner BookOwner,
) (*Book, error) {
	permission := audit.NewEntityPermission(ctx.Actor(), owner.ID())

	a, err := audit.CreateNew[BookID](ctx, permission)
	if err != nil {
		return nil, err
	}

	return &Book{
		audit:       a,
		title:       title,
		authors:     authors,
		isbn:        isbn,
		description: description,
		owner:       owner,
	}, nil
}

// Update replaces the editable fields. The owner is untouched; owner
// changes go through ChangeOwner.
func (b *Book) Update(
	ctx audit.Context,
	title BookTitle,
	authors AuthorList,
	isbn BookISBN,
	description BookDescription,
) error {
	if err := b.audit.MarkUpdated(ctx, b.updatePermission(ctx.Actor())); err != nil {
		return err
	}

	b.title = title
	b.authors = authors
	b.isbn = isbn
	b.description = description

	return nil
}

// ValidateDeletion gates the repository delete that follows it.
func (b *Book) ValidateDeletion(ctx audit.Context) error {
	if !b.updatePermission(ctx.Actor()).CanDelete() {
		return domainerr.ErrForbidden
	}
	return nil
}

// ChangeOwner transfers the book to another user. Admin only; handing
// the book to its current owner is rejected as a no-op.
func (b *Book) ChangeOwner(ctx audit.Context, newOwner audit.UserReference) error {
	permission := audit.NewAdminPermission(ctx.Actor())

	if err := b.audit.MarkUpdated(ctx, permission); err != nil {
		return err
	}

	owner, err := b.owner.ChangeTo(newOwner)
	if err != nil {
		return err
	}

	b.owner = owner
	return nil
}

// DoCheckout appends an active checkout for the acting user. There is
// no permission gate beyond being an authenticated actor.
func (b *Book) DoCheckout(ctx audit.Context) error {
	return b.checkouts.DoCheckout(ctx)
}

// DoReturn closes the active checkout.
func (b *Book) DoReturn(ctx audit.Context) error {
	return b.checkouts.DoReturn(ctx)
}

func (b *Book) updatePermission(actor audit.Actor) audit.EntityPermission {
	return audit.NewEntityPermission(actor, b.audit.CreatedBy().ID())
}
