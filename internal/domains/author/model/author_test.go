package model

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/shared/audit"
	"library-backend/internal/shared/domainerr"
)

func actorWith(role audit.UserRole) audit.Actor {
	return audit.NewActor(audit.NewUserReference(uuid.New(), "someone"), role)
}

func auditCtx(actor audit.Actor) audit.Context {
	return audit.NewContext(actor, audit.FixedClock{
		Time: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	})
}

func TestNewAuthorName(t *testing.T) {
	name, err := NewAuthorName("Octavia E. Butler")
	require.NoError(t, err)
	assert.Equal(t, "Octavia E. Butler", name.String())

	_, err = NewAuthorName("")
	assert.True(t, domainerr.IsValidation(err))

	_, err = NewAuthorName(strings.Repeat("x", 256))
	assert.True(t, domainerr.IsValidation(err))
}

func TestAuthorName_EqualIsCaseSensitive(t *testing.T) {
	a, err := NewAuthorName("Octavia E. Butler")
	require.NoError(t, err)
	b, err := NewAuthorName("octavia e. butler")
	require.NoError(t, err)

	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(HydrateAuthorName("Octavia E. Butler")))
}

func TestAuthorCreateNew_AnyActorMayCreate(t *testing.T) {
	creator := actorWith(audit.RoleRegular)
	name, err := NewAuthorName("Octavia E. Butler")
	require.NoError(t, err)

	author, err := CreateNew(auditCtx(creator), name)
	require.NoError(t, err)

	assert.Equal(t, "Octavia E. Butler", author.Name())
	assert.Equal(t, creator.User(), author.Audit().CreatedBy())
	assert.True(t, author.Audit().IsNew())

	ref := author.Reference()
	assert.Equal(t, author.Audit().ID(), ref.ID())
	assert.Equal(t, "Octavia E. Butler", ref.Name().String())
}

func TestAuthorUpdate_CreatorAndAdminOnly(t *testing.T) {
	creator := actorWith(audit.RoleRegular)
	name, err := NewAuthorName("Octavia Butler")
	require.NoError(t, err)
	author, err := CreateNew(auditCtx(creator), name)
	require.NoError(t, err)

	renamed, err := NewAuthorName("Octavia E. Butler")
	require.NoError(t, err)

	err = author.Update(auditCtx(actorWith(audit.RoleRegular)), renamed)
	assert.ErrorIs(t, err, domainerr.ErrForbidden)
	assert.Equal(t, "Octavia Butler", author.Name())

	require.NoError(t, author.Update(auditCtx(creator), renamed))
	assert.Equal(t, "Octavia E. Butler", author.Name())

	require.NoError(t, author.Update(auditCtx(actorWith(audit.RoleAdmin)), name))
	assert.Equal(t, "Octavia Butler", author.Name())
}

func TestAuthorValidateDeletion(t *testing.T) {
	creator := actorWith(audit.RoleRegular)
	name, err := NewAuthorName("Octavia E. Butler")
	require.NoError(t, err)
	author, err := CreateNew(auditCtx(creator), name)
	require.NoError(t, err)

	assert.NoError(t, author.ValidateDeletion(auditCtx(creator)))
	assert.NoError(t, author.ValidateDeletion(auditCtx(actorWith(audit.RoleAdmin))))
	assert.ErrorIs(t,
		author.ValidateDeletion(auditCtx(actorWith(audit.RoleRegular))),
		domainerr.ErrForbidden)
}
