package audit

import "github.com/google/uuid"

// Permission answers whether the acting user may create, update or delete
// the resource at hand. Authorization lives here as a small closed set of
// predicates instead of role checks scattered through every command.
type Permission interface {
	CanCreate() bool
	CanUpdate() bool
	CanDelete() bool
}

// AdminPermission passes only for admin actors. Gates privileged
// operations such as changing a book's owner.
type AdminPermission struct {
	actor Actor
}

func NewAdminPermission(actor Actor) AdminPermission {
	return AdminPermission{actor: actor}
}

func (p AdminPermission) CanCreate() bool { return p.actor.role == RoleAdmin }
func (p AdminPermission) CanUpdate() bool { return p.actor.role == RoleAdmin }
func (p AdminPermission) CanDelete() bool { return p.actor.role == RoleAdmin }

// SystemPermission passes only for the system actor.
type SystemPermission struct {
	actor Actor
}

func NewSystemPermission(actor Actor) SystemPermission {
	return SystemPermission{actor: actor}
}

func (p SystemPermission) CanCreate() bool { return p.actor.role == RoleSystem }
func (p SystemPermission) CanUpdate() bool { return p.actor.role == RoleSystem }
func (p SystemPermission) CanDelete() bool { return p.actor.role == RoleSystem }

// EntityPermission is the default rule for owner-scoped resources: the
// actor must be an admin or the resource's owning user.
type EntityPermission struct {
	actor   Actor
	ownerID uuid.UUID
}

func NewEntityPermission(actor Actor, ownerID uuid.UUID) EntityPermission {
	return EntityPermission{actor: actor, ownerID: ownerID}
}

func (p EntityPermission) allowed() bool {
	return p.actor.role == RoleAdmin || p.actor.ID() == p.ownerID
}

func (p EntityPermission) CanCreate() bool { return p.allowed() }
func (p EntityPermission) CanUpdate() bool { return p.allowed() }
func (p EntityPermission) CanDelete() bool { return p.allowed() }

// PassThroughPermission always allows. It exists so self-service flows
// (user auto-provisioning, author creation) document "no restriction"
// explicitly instead of silently skipping the check.
type PassThroughPermission struct{}

func NewPassThroughPermission() PassThroughPermission {
	return PassThroughPermission{}
}

func (PassThroughPermission) CanCreate() bool { return true }
func (PassThroughPermission) CanUpdate() bool { return true }
func (PassThroughPermission) CanDelete() bool { return true }
