package audit

import (
	"time"

	"github.com/google/uuid"

	"library-backend/internal/shared/domainerr"
)

// EntityID constrains the per-entity identifier newtypes (BookID,
// AuthorID, UserID) that all wrap a UUID.
type EntityID interface {
	~[16]byte
}

// NewEntityID mints a fresh random id of the requested newtype.
func NewEntityID[ID EntityID]() ID {
	return ID(uuid.New())
}

// EntityAudit carries creation/modification bookkeeping shared by every
// aggregate. All mutation goes through CreateNew/MarkUpdated so the
// permission gate cannot be bypassed.
type EntityAudit[ID EntityID] struct {
	id        ID
	createdAt time.Time
	createdBy UserReference
	updatedAt *time.Time
	updatedBy *UserReference

	// isNew tells the persistence layer insert-vs-update. Transient:
	// true only for entities not yet saved, never persisted itself.
	isNew bool
}

// CreateNew mints an audit record with a fresh id, gated by CanCreate.
func CreateNew[ID EntityID](ctx Context, permission Permission) (EntityAudit[ID], error) {
	return CreateNewWithID(ctx, permission, NewEntityID[ID]())
}

// CreateNewWithID is CreateNew with a caller-supplied id, used when the
// id must match an external identity (e.g. an auth token subject).
func CreateNewWithID[ID EntityID](ctx Context, permission Permission, id ID) (EntityAudit[ID], error) {
	if !permission.CanCreate() {
		return EntityAudit[ID]{}, domainerr.ErrForbidden
	}

	return EntityAudit[ID]{
		id:        id,
		createdAt: ctx.Timestamp(),
		createdBy: ctx.ActorUser(),
		isNew:     true,
	}, nil
}

// Hydrate rebuilds an audit record from persisted state. updatedAt and
// updatedBy must be both set or both nil.
func Hydrate[ID EntityID](id ID, createdAt time.Time, createdBy UserReference, updatedAt *time.Time, updatedBy *UserReference) EntityAudit[ID] {
	return EntityAudit[ID]{
		id:        id,
		createdAt: createdAt,
		createdBy: createdBy,
		updatedAt: updatedAt,
		updatedBy: updatedBy,
	}
}

// MarkUpdated stamps the update fields from the context, gated by
// CanUpdate. Creation fields are left untouched.
func (a *EntityAudit[ID]) MarkUpdated(ctx Context, permission Permission) error {
	if !permission.CanUpdate() {
		return domainerr.ErrForbidden
	}

	ts := ctx.Timestamp()
	by := ctx.ActorUser()
	a.updatedAt = &ts
	a.updatedBy = &by
	a.isNew = false

	return nil
}

func (a EntityAudit[ID]) ID() ID {
	return a.id
}

func (a EntityAudit[ID]) CreatedAt() time.Time {
	return a.createdAt
}

func (a EntityAudit[ID]) CreatedBy() UserReference {
	return a.createdBy
}

func (a EntityAudit[ID]) UpdatedAt() *time.Time {
	return a.updatedAt
}

func (a EntityAudit[ID]) UpdatedBy() *UserReference {
	return a.updatedBy
}

func (a EntityAudit[ID]) IsNew() bool {
	return a.isNew
}
