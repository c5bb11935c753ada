package audit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAdminPermission(t *testing.T) {
	assert.True(t, NewAdminPermission(adminActor()).CanCreate())
	assert.True(t, NewAdminPermission(adminActor()).CanUpdate())
	assert.True(t, NewAdminPermission(adminActor()).CanDelete())

	assert.False(t, NewAdminPermission(regularActor()).CanUpdate())
	assert.False(t, NewAdminPermission(SystemActor()).CanUpdate())
}

func TestSystemPermission(t *testing.T) {
	assert.True(t, NewSystemPermission(SystemActor()).CanCreate())
	assert.False(t, NewSystemPermission(adminActor()).CanCreate())
	assert.False(t, NewSystemPermission(regularActor()).CanCreate())
}

func TestEntityPermission(t *testing.T) {
	owner := regularActor()

	t.Run("owner allowed", func(t *testing.T) {
		p := NewEntityPermission(owner, owner.ID())
		assert.True(t, p.CanCreate())
		assert.True(t, p.CanUpdate())
		assert.True(t, p.CanDelete())
	})

	t.Run("admin allowed on someone else's resource", func(t *testing.T) {
		p := NewEntityPermission(adminActor(), owner.ID())
		assert.True(t, p.CanUpdate())
	})

	t.Run("other regular user denied", func(t *testing.T) {
		p := NewEntityPermission(regularActor(), owner.ID())
		assert.False(t, p.CanCreate())
		assert.False(t, p.CanUpdate())
		assert.False(t, p.CanDelete())
	})
}

func TestPassThroughPermission(t *testing.T) {
	p := NewPassThroughPermission()
	assert.True(t, p.CanCreate())
	assert.True(t, p.CanUpdate())
	assert.True(t, p.CanDelete())
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleRegular, ParseRole("regular"))
	assert.Equal(t, RoleSystem, ParseRole("system"))
	assert.Equal(t, RoleRegular, ParseRole("superuser"))
	assert.Equal(t, RoleRegular, ParseRole(""))
}

func TestSystemActor(t *testing.T) {
	actor := SystemActor()
	assert.Equal(t, uuid.Nil, actor.ID())
	assert.Equal(t, "System", actor.Username())
	assert.True(t, actor.IsSystem())
	assert.False(t, actor.IsAdmin())
}
