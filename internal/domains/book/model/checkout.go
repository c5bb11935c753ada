package model

import (
	"time"

	"github.com/google/uuid"

	"library-backend/internal/shared/audit"
	"library-backend/internal/shared/domainerr"
)

// Checkout is one entry in a book's checkout history: active while
// returnedAt is nil, terminal once it is set.
type Checkout struct {
	id           uuid.UUID
	checkedOutTo audit.UserReference
	checkedOutAt time.Time
	returnedAt   *time.Time
}

func HydrateCheckout(id uuid.UUID, checkedOutTo audit.UserReference, checkedOutAt time.Time, returnedAt *time.Time) Checkout {
	return Checkout{
		id:           id,
		checkedOutTo: checkedOutTo,
		checkedOutAt: checkedOutAt,
		returnedAt:   returnedAt,
	}
}

func (c Checkout) ID() uuid.UUID {
	return c.id
}

func (c Checkout) CheckedOutTo() audit.UserReference {
	return c.checkedOutTo
}

func (c Checkout) CheckedOutAt() time.Time {
	return c.checkedOutAt
}

func (c Checkout) ReturnedAt() *time.Time {
	return c.returnedAt
}

func (c Checkout) IsActive() bool {
	return c.returnedAt == nil
}

// CheckoutHistory is the append-style log backing both the "is it
// checked out" state and the audit trail. Availability is derived from
// the most recent record, never stored separately.
type CheckoutHistory struct {
	items []Checkout
}

func HydrateCheckoutHistory(items []Checkout) CheckoutHistory {
	return CheckoutHistory{items: items}
}

func (h CheckoutHistory) Items() []Checkout {
	return h.items
}

// IsCheckedOut reports whether the most recent record is still active.
func (h CheckoutHistory) IsCheckedOut() bool {
	latest := h.latest()
	return latest != nil && latest.IsActive()
}

func (h CheckoutHistory) isReturned() bool {
	latest := h.latest()
	return latest != nil && !latest.IsActive()
}

// DoCheckout appends an active record for the acting user. Any
// authenticated actor may check out an available book.
func (h *CheckoutHistory) DoCheckout(ctx audit.Context) error {
	if h.IsCheckedOut() {
		return domainerr.Validation("book is already checked out")
	}

	h.items = append(h.items, Checkout{
		id:           uuid.New(),
		checkedOutTo: ctx.ActorUser(),
		checkedOutAt: ctx.Timestamp(),
	})

	return nil
}

// DoReturn closes the active record in place. Only the user who checked
// the book out, or an admin, may return it.
func (h *CheckoutHistory) DoReturn(ctx audit.Context) error {
	idx := h.latestActiveIndex()
	if idx < 0 {
		if h.isReturned() {
			return domainerr.Validation("book has already been returned")
		}
		return domainerr.Validation("book is not currently checked out")
	}

	actor := ctx.Actor()
	if h.items[idx].checkedOutTo.ID() != actor.ID() && !actor.IsAdmin() {
		return domainerr.ErrForbidden
	}

	returnedAt := ctx.Timestamp()
	h.items[idx].returnedAt = &returnedAt

	return nil
}

// latest picks the record with the greatest checkout timestamp. On a
// timestamp tie the later record wins; a coarse clock (or microsecond
// truncation on the database round-trip) can stamp a return and the
// next checkout with the same instant, and the append order is then the
// only thing that tells them apart.
func (h CheckoutHistory) latest() *Checkout {
	var latest *Checkout
	for i := range h.items {
		if latest == nil || !h.items[i].checkedOutAt.Before(latest.checkedOutAt) {
			latest = &h.items[i]
		}
	}
	return latest
}

func (h CheckoutHistory) latestActiveIndex() int {
	idx := -1
	for i := range h.items {
		if !h.items[i].IsActive() {
			continue
		}
		if idx < 0 || !h.items[i].checkedOutAt.Before(h.items[idx].checkedOutAt) {
			idx = i
		}
	}
	return idx
}
