package model

import (
	"library-backend/internal/shared/audit"
)

// User is a library member. Its id always mirrors the subject of the
// external auth token, so creation goes through CreateNewWithID.
type User struct {
	audit audit.EntityAudit[UserID]
	name  UserName
	email UserEmail
	role  audit.UserRole
}

func (u *User) Audit() audit.EntityAudit[UserID] {
	return u.audit
}

func (u *User) Name() string {
	return u.name.String()
}

func (u *User) Email() string {
	return u.email.String()
}

func (u *User) Role() audit.UserRole {
	return u.role
}

// Hydrate rebuilds a persisted user.
func Hydrate(a audit.EntityAudit[UserID], name, email string, role audit.UserRole) *User {
	return &User{
		audit: a,
		name:  HydrateUserName(name),
		email: HydrateUserEmail(email),
		role:  role,
	}
}

// CreateNew provisions a user with the externally supplied id. Creation
// is self-service, hence the pass-through permission.
func CreateNew(ctx audit.Context, id UserID, name UserName, email UserEmail, role audit.UserRole) (*User, error) {
	a, err := audit.CreateNewWithID(ctx, audit.NewPassThroughPermission(), id)
	if err != nil {
		return nil, err
	}

	return &User{audit: a, name: name, email: email, role: role}, nil
}

// Update replaces the user's profile fields. System actors reconcile
// token drift freely; everyone else must be the user or an admin.
func (u *User) Update(ctx audit.Context, name UserName, email UserEmail, role audit.UserRole) error {
	var permission audit.Permission
	if ctx.Actor().IsSystem() {
		permission = audit.NewPassThroughPermission()
	} else {
		permission = audit.NewEntityPermission(ctx.Actor(), u.audit.ID().UUID())
	}

	if err := u.audit.MarkUpdated(ctx, permission); err != nil {
		return err
	}

	u.name = name
	u.email = email
	u.role = role

	return nil
}

// IntoActor derives the acting identity for this user's requests.
func (u *User) IntoActor() audit.Actor {
	return audit.NewActor(
		audit.NewUserReference(u.audit.ID().UUID(), u.name.String()),
		u.role,
	)
}

// Reference returns the denormalized snapshot embedded in audit fields
// and book ownership.
func (u *User) Reference() audit.UserReference {
	return audit.NewUserReference(u.audit.ID().UUID(), u.name.String())
}
