package model

import (
	"strings"

	"github.com/google/uuid"

	"library-backend/internal/shared/domainerr"
)

// UserID is the user identifier newtype. It always mirrors the subject
// id of the external auth token.
type UserID uuid.UUID

func (id UserID) UUID() uuid.UUID {
	return uuid.UUID(id)
}

func (id UserID) String() string {
	return uuid.UUID(id).String()
}

// UserName is a validated display name.
type UserName struct {
	value string
}

func NewUserName(raw string) (UserName, error) {
	if raw == "" {
		return UserName{}, domainerr.Validation("user name cannot be empty")
	}
	if len(raw) > 255 {
		return UserName{}, domainerr.Validation("user name cannot exceed 255 characters")
	}
	return UserName{value: raw}, nil
}

func HydrateUserName(raw string) UserName {
	return UserName{value: raw}
}

func (n UserName) String() string {
	return n.value
}

// UserEmail is a lightly validated email address. Real verification is
// the identity provider's job; this only rejects obvious garbage.
type UserEmail struct {
	value string
}

func NewUserEmail(raw string) (UserEmail, error) {
	if raw == "" {
		return UserEmail{}, domainerr.Validation("user email cannot be empty")
	}
	if len(raw) > 255 {
		return UserEmail{}, domainerr.Validation("user email cannot exceed 255 characters")
	}
	if !strings.Contains(raw, "@") {
		return UserEmail{}, domainerr.Validation("user email is not a valid address")
	}
	return UserEmail{value: raw}, nil
}

func HydrateUserEmail(raw string) UserEmail {
	return UserEmail{value: raw}
}

func (e UserEmail) String() string {
	return e.value
}
