package model

import (
	"github.com/google/uuid"

	"library-backend/internal/shared/audit"
	"library-backend/internal/shared/domainerr"
)

// AuthorID is the author identifier newtype.
type AuthorID uuid.UUID

func (id AuthorID) UUID() uuid.UUID {
	return uuid.UUID(id)
}

func (id AuthorID) String() string {
	return uuid.UUID(id).String()
}

// AuthorName is a validated, case-sensitive author display name.
type AuthorName struct {
	value string
}

func NewAuthorName(raw string) (AuthorName, error) {
	if raw == "" {
		return AuthorName{}, domainerr.Validation("author name cannot be empty")
	}
	if len(raw) > 255 {
		return AuthorName{}, domainerr.Validation("author name cannot exceed 255 characters")
	}
	return AuthorName{value: raw}, nil
}

func HydrateAuthorName(raw string) AuthorName {
	return AuthorName{value: raw}
}

func (n AuthorName) String() string {
	return n.value
}

func (n AuthorName) Equal(other AuthorName) bool {
	return n.value == other.value
}

// AuthorReference is the immutable id+name snapshot embedded in books.
type AuthorReference struct {
	id   AuthorID
	name AuthorName
}

func NewAuthorReference(id AuthorID, name AuthorName) AuthorReference {
	return AuthorReference{id: id, name: name}
}

func HydrateAuthorReference(id uuid.UUID, name string) AuthorReference {
	return AuthorReference{id: AuthorID(id), name: HydrateAuthorName(name)}
}

func (r AuthorReference) ID() AuthorID {
	return r.id
}

func (r AuthorReference) Name() AuthorName {
	return r.name
}

// Author is the stable record a free-text book author name resolves to.
type Author struct {
	audit audit.EntityAudit[AuthorID]
	name  AuthorName
}

func (a *Author) Audit() audit.EntityAudit[AuthorID] {
	return a.audit
}

func (a *Author) Name() string {
	return a.name.value
}

func (a *Author) Reference() AuthorReference {
	return NewAuthorReference(a.audit.ID(), a.name)
}

func Hydrate(entityAudit audit.EntityAudit[AuthorID], name string) *Author {
	return &Author{audit: entityAudit, name: HydrateAuthorName(name)}
}

// CreateNew registers an author. Authors are not owner-scoped: anyone
// adding a book may introduce the names it carries.
func CreateNew(ctx audit.Context, name AuthorName) (*Author, error) {
	a, err := audit.CreateNew[AuthorID](ctx, audit.NewPassThroughPermission())
	if err != nil {
		return nil, err
	}

	return &Author{audit: a, name: name}, nil
}

// Update renames the author; only its creator or an admin may do so.
func (a *Author) Update(ctx audit.Context, name AuthorName) error {
	permission := audit.NewEntityPermission(ctx.Actor(), a.audit.CreatedBy().ID())

	if err := a.audit.MarkUpdated(ctx, permission); err != nil {
		return err
	}

	a.name = name
	return nil
}

// ValidateDeletion gates the repository delete that follows it.
func (a *Author) ValidateDeletion(ctx audit.Context) error {
	permission := audit.NewEntityPermission(ctx.Actor(), a.audit.CreatedBy().ID())

	if !permission.CanDelete() {
		return domainerr.ErrForbidden
	}
	return nil
}
