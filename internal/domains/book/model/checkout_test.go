package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/shared/audit"
	"library-backend/internal/shared/domainerr"
)

var baseTime = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func actorAt(role audit.UserRole) audit.Actor {
	return audit.NewActor(audit.NewUserReference(uuid.New(), "someone"), role)
}

func ctxAt(actor audit.Actor, at time.Time) audit.Context {
	return audit.NewContext(actor, audit.FixedClock{Time: at})
}

func TestCheckoutHistory_CheckoutThenReturn(t *testing.T) {
	borrower := actorAt(audit.RoleRegular)
	var history CheckoutHistory

	require.NoError(t, history.DoCheckout(ctxAt(borrower, baseTime)))
	assert.True(t, history.IsCheckedOut())

	items := history.Items()
	require.Len(t, items, 1)
	assert.Equal(t, borrower.User(), items[0].CheckedOutTo())
	assert.Equal(t, baseTime, items[0].CheckedOutAt())
	assert.True(t, items[0].IsActive())

	returnedAt := baseTime.Add(48 * time.Hour)
	require.NoError(t, history.DoReturn(ctxAt(borrower, returnedAt)))

	assert.False(t, history.IsCheckedOut())
	items = history.Items()
	require.Len(t, items, 1)
	require.NotNil(t, items[0].ReturnedAt())
	assert.Equal(t, returnedAt, *items[0].ReturnedAt())
}

func TestCheckoutHistory_DoubleCheckoutRejected(t *testing.T) {
	var history CheckoutHistory
	require.NoError(t, history.DoCheckout(ctxAt(actorAt(audit.RoleRegular), baseTime)))

	err := history.DoCheckout(ctxAt(actorAt(audit.RoleRegular), baseTime.Add(time.Hour)))
	require.True(t, domainerr.IsValidation(err))
	assert.EqualError(t, err, "book is already checked out")
	assert.Len(t, history.Items(), 1)
}

func TestCheckoutHistory_ReturnWithoutCheckout(t *testing.T) {
	var history CheckoutHistory

	err := history.DoReturn(ctxAt(actorAt(audit.RoleRegular), baseTime))
	require.True(t, domainerr.IsValidation(err))
	assert.EqualError(t, err, "book is not currently checked out")
}

func TestCheckoutHistory_DoubleReturnRejected(t *testing.T) {
	borrower := actorAt(audit.RoleRegular)
	var history CheckoutHistory

	require.NoError(t, history.DoCheckout(ctxAt(borrower, baseTime)))
	require.NoError(t, history.DoReturn(ctxAt(borrower, baseTime.Add(time.Hour))))

	err := history.DoReturn(ctxAt(borrower, baseTime.Add(2*time.Hour)))
	require.True(t, domainerr.IsValidation(err))
	assert.EqualError(t, err, "book has already been returned")
}

func TestCheckoutHistory_ReturnByStranger(t *testing.T) {
	borrower := actorAt(audit.RoleRegular)
	var history CheckoutHistory
	require.NoError(t, history.DoCheckout(ctxAt(borrower, baseTime)))

	err := history.DoReturn(ctxAt(actorAt(audit.RoleRegular), baseTime.Add(time.Hour)))
	assert.ErrorIs(t, err, domainerr.ErrForbidden)
	assert.True(t, history.IsCheckedOut())
}

func TestCheckoutHistory_ReturnByAdmin(t *testing.T) {
	borrower := actorAt(audit.RoleRegular)
	var history CheckoutHistory
	require.NoError(t, history.DoCheckout(ctxAt(borrower, baseTime)))

	require.NoError(t, history.DoReturn(ctxAt(actorAt(audit.RoleAdmin), baseTime.Add(time.Hour))))
	assert.False(t, history.IsCheckedOut())
}

func TestCheckoutHistory_SecondLoanAfterReturn(t *testing.T) {
	first := actorAt(audit.RoleRegular)
	second := actorAt(audit.RoleRegular)
	var history CheckoutHistory

	require.NoError(t, history.DoCheckout(ctxAt(first, baseTime)))
	require.NoError(t, history.DoReturn(ctxAt(first, baseTime.Add(time.Hour))))
	require.NoError(t, history.DoCheckout(ctxAt(second, baseTime.Add(2*time.Hour))))

	assert.True(t, history.IsCheckedOut())
	require.Len(t, history.Items(), 2)

	// Returning the new loan must close the new record, not reopen the
	// old one.
	require.NoError(t, history.DoReturn(ctxAt(second, baseTime.Add(3*time.Hour))))
	items := history.Items()
	require.NotNil(t, items[1].ReturnedAt())
	assert.Equal(t, baseTime.Add(3*time.Hour), *items[1].ReturnedAt())
	assert.Equal(t, baseTime.Add(time.Hour), *items[0].ReturnedAt())
}

func TestHydrateCheckoutHistory_DerivesStateFromLatest(t *testing.T) {
	borrower := audit.NewUserReference(uuid.New(), "someone")
	closed := baseTime.Add(time.Hour)

	history := HydrateCheckoutHistory([]Checkout{
		HydrateCheckout(uuid.New(), borrower, baseTime, &closed),
		HydrateCheckout(uuid.New(), borrower, baseTime.Add(2*time.Hour), nil),
	})

	assert.True(t, history.IsCheckedOut())
}

func TestHydrateCheckoutHistory_TieGoesToLaterRecord(t *testing.T) {
	// Timestamp truncation on the database round-trip can leave a
	// returned loan and the following one at the same instant; storage
	// order then decides, and the later row is the live one.
	borrower := audit.NewUserReference(uuid.New(), "someone")

	history := HydrateCheckoutHistory([]Checkout{
		HydrateCheckout(uuid.New(), borrower, baseTime, &baseTime),
		HydrateCheckout(uuid.New(), borrower, baseTime, nil),
	})

	assert.True(t, history.IsCheckedOut())
}

func TestCheckoutHistory_SameTimestampLoansKeepSingleActive(t *testing.T) {
	// A coarse clock can stamp checkout, return, and the next checkout
	// with one instant; the later record must still decide availability.
	firstBorrower := actorAt(audit.RoleRegular)
	secondBorrower := actorAt(audit.RoleRegular)
	var history CheckoutHistory

	require.NoError(t, history.DoCheckout(ctxAt(firstBorrower, baseTime)))
	require.NoError(t, history.DoReturn(ctxAt(firstBorrower, baseTime)))
	require.NoError(t, history.DoCheckout(ctxAt(secondBorrower, baseTime)))

	assert.True(t, history.IsCheckedOut())

	err := history.DoCheckout(ctxAt(actorAt(audit.RoleRegular), baseTime))
	require.True(t, domainerr.IsValidation(err))
	assert.EqualError(t, err, "book is already checked out")

	active := 0
	for _, item := range history.Items() {
		if item.IsActive() {
			active++
		}
	}
	assert.Equal(t, 1, active)

	require.NoError(t, history.DoReturn(ctxAt(secondBorrower, baseTime)))
	assert.False(t, history.IsCheckedOut())
	require.NotNil(t, history.Items()[1].ReturnedAt())
}
