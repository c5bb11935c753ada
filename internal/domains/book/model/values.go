package model

import (
	"github.com/google/uuid"

	"library-backend/internal/shared/audit"
	"library-backend/internal/shared/domainerr"
)

// BookID is the book identifier newtype.
type BookID uuid.UUID

func (id BookID) UUID() uuid.UUID {
	return uuid.UUID(id)
}

func (id BookID) String() string {
	return uuid.UUID(id).String()
}

// BookTitle is a validated title, non-empty and at most 255 characters.
type BookTitle struct {
	value string
}

func NewBookTitle(raw string) (BookTitle, error) {
	if raw == "" {
		return BookTitle{}, domainerr.Validation("book title cannot be empty")
	}
	if len(raw) > 255 {
		return BookTitle{}, domainerr.Validation("book title cannot exceed 255 characters")
	}
	return BookTitle{value: raw}, nil
}

func HydrateBookTitle(raw string) BookTitle {
	return BookTitle{value: raw}
}

func (t BookTitle) String() string {
	return t.value
}

// BookISBN is optional; when present it must be exactly 13 characters.
type BookISBN struct {
	value *string
}

func NewBookISBN(raw *string) (BookISBN, error) {
	if raw != nil && len(*raw) != 13 {
		return BookISBN{}, domainerr.Validation("book ISBN must be 13 characters long")
	}
	return BookISBN{value: raw}, nil
}

func HydrateBookISBN(raw *string) BookISBN {
	return BookISBN{value: raw}
}

func (i BookISBN) Raw() *string {
	return i.value
}

// BookDescription is optional free text, at most 1000 characters.
type BookDescription struct {
	value *string
}

func NewBookDescription(raw *string) (BookDescription, error) {
	if raw != nil && len(*raw) > 1000 {
		return BookDescription{}, domainerr.Validation("book description cannot exceed 1000 characters")
	}
	return BookDescription{value: raw}, nil
}

func HydrateBookDescription(raw *string) BookDescription {
	return BookDescription{value: raw}
}

func (d BookDescription) Raw() *string {
	return d.value
}

// BookOwner wraps the owning user's snapshot. Owner changes go through
// ChangeTo so a no-op change is rejected rather than silently accepted.
type BookOwner struct {
	owner audit.UserReference
}

func NewBookOwner(owner audit.UserReference) BookOwner {
	return BookOwner{owner: owner}
}

func (o BookOwner) Raw() audit.UserReference {
	return o.owner
}

func (o BookOwner) ID() uuid.UUID {
	return o.owner.ID()
}

func (o BookOwner) ChangeTo(newOwner audit.UserReference) (BookOwner, error) {
	if o.owner.ID() == newOwner.ID() {
		return BookOwner{}, domainerr.Validation("book owner is the same as the current one")
	}
	return BookOwner{owner: newOwner}, nil
}
