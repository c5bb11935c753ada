package audit

import (
	"github.com/google/uuid"
)

// UserRole determines which permission predicates pass for an actor.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleRegular UserRole = "regular"
	RoleSystem  UserRole = "system"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleRegular, RoleSystem:
		return true
	}
	return false
}

func (r UserRole) String() string {
	return string(r)
}

// ParseRole maps a raw role string to a UserRole, defaulting to regular.
func ParseRole(raw string) UserRole {
	role := UserRole(raw)
	if !role.IsValid() {
		return RoleRegular
	}
	return role
}

// UserReference is a denormalized snapshot of a user's identity. It is
// copied into audit fields so history survives display-name changes.
type UserReference struct {
	id   uuid.UUID
	name string
}

func NewUserReference(id uuid.UUID, name string) UserReference {
	return UserReference{id: id, name: name}
}

func (u UserReference) ID() uuid.UUID {
	return u.id
}

func (u UserReference) Name() string {
	return u.name
}

func (u UserReference) Equal(other UserReference) bool {
	return u.id == other.id && u.name == other.name
}

// Actor is the identity and role performing an operation.
type Actor struct {
	user UserReference
	role UserRole
}

func NewActor(user UserReference, role UserRole) Actor {
	return Actor{user: user, role: role}
}

// SystemActor is used for actions not attributable to an end user,
// e.g. auto-provisioning a user record from an auth token.
func SystemActor() Actor {
	return Actor{
		user: NewUserReference(uuid.Nil, "System"),
		role: RoleSystem,
	}
}

func (a Actor) ID() uuid.UUID {
	return a.user.id
}

func (a Actor) Username() string {
	return a.user.name
}

func (a Actor) Role() UserRole {
	return a.role
}

func (a Actor) User() UserReference {
	return a.user
}

func (a Actor) IsAdmin() bool {
	return a.role == RoleAdmin
}

func (a Actor) IsSystem() bool {
	return a.role == RoleSystem
}
