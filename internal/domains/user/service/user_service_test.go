package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/user/model"
	"library-backend/internal/shared/audit"
	"library-backend/internal/shared/domainerr"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
	saves int

	// conflictOnce simulates two first requests racing to provision the
	// same subject: this save fails after storing the "winner".
	conflictOnce *model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*model.User{}}
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id model.UserID) (*model.User, error) {
	user, ok := f.users[id.UUID()]
	if !ok {
		return nil, domainerr.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) Save(ctx context.Context, user *model.User) error {
	f.saves++

	if f.conflictOnce != nil {
		winner := f.conflictOnce
		f.conflictOnce = nil
		f.users[winner.Audit().ID().UUID()] = winner
		return domainerr.ErrConflict
	}

	f.users[user.Audit().ID().UUID()] = user
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id model.UserID) error {
	delete(f.users, id.UUID())
	return nil
}

func fixedClock() audit.FixedClock {
	return audit.FixedClock{Time: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func subjectFor(id uuid.UUID) TokenSubject {
	return TokenSubject{
		ID:    id,
		Name:  "Alice",
		Email: "alice@example.com",
		Role:  audit.RoleRegular,
	}
}

func storedUser(t *testing.T, repo *fakeUserRepo, subject TokenSubject) *model.User {
	t.Helper()
	user, err := repo.FindByID(context.Background(), model.UserID(subject.ID))
	require.NoError(t, err)
	return user
}

func TestGetOrCreateActor_ProvisionsOnFirstSight(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(fixedClock(), repo)
	subject := subjectFor(uuid.New())

	actor, err := svc.GetOrCreateActor(context.Background(), subject)
	require.NoError(t, err)

	assert.Equal(t, subject.ID, actor.ID())
	assert.Equal(t, "Alice", actor.Username())
	assert.Equal(t, audit.RoleRegular, actor.Role())

	user := storedUser(t, repo, subject)
	assert.Equal(t, subject.ID, user.Audit().ID().UUID())
	assert.Equal(t, "alice@example.com", user.Email())
	// Provisioning is attributed to the system actor.
	assert.Equal(t, uuid.Nil, user.Audit().CreatedBy().ID())
}

func TestGetOrCreateActor_ReturnsExistingWithoutSaving(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(fixedClock(), repo)
	subject := subjectFor(uuid.New())

	_, err := svc.GetOrCreateActor(context.Background(), subject)
	require.NoError(t, err)
	require.Equal(t, 1, repo.saves)

	_, err = svc.GetOrCreateActor(context.Background(), subject)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.saves)
}

func TestGetOrCreateActor_ReconcilesTokenDrift(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(fixedClock(), repo)
	subject := subjectFor(uuid.New())

	_, err := svc.GetOrCreateActor(context.Background(), subject)
	require.NoError(t, err)

	subject.Name = "Alice Liddell"
	subject.Role = audit.RoleAdmin

	actor, err := svc.GetOrCreateActor(context.Background(), subject)
	require.NoError(t, err)

	assert.Equal(t, "Alice Liddell", actor.Username())
	assert.Equal(t, audit.RoleAdmin, actor.Role())

	user := storedUser(t, repo, subject)
	assert.Equal(t, "Alice Liddell", user.Name())
	assert.Equal(t, audit.RoleAdmin, user.Role())
	assert.NotNil(t, user.Audit().UpdatedAt())
}

func TestGetOrCreateActor_ProvisionRaceFallsBackToWinner(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(fixedClock(), repo)
	subject := subjectFor(uuid.New())

	winnerName, err := model.NewUserName("Alice")
	require.NoError(t, err)
	winnerEmail, err := model.NewUserEmail("alice@example.com")
	require.NoError(t, err)
	winner, err := model.CreateNew(
		audit.NewContext(audit.SystemActor(), fixedClock()),
		model.UserID(subject.ID), winnerName, winnerEmail, audit.RoleRegular)
	require.NoError(t, err)
	repo.conflictOnce = winner

	actor, err := svc.GetOrCreateActor(context.Background(), subject)
	require.NoError(t, err)
	assert.Equal(t, subject.ID, actor.ID())
}

func TestGetOrCreateActor_RejectsInvalidSubject(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(fixedClock(), repo)

	subject := subjectFor(uuid.New())
	subject.Email = "not-an-email"

	_, err := svc.GetOrCreateActor(context.Background(), subject)
	assert.True(t, domainerr.IsValidation(err))
}

func TestGetUserDetails(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(fixedClock(), repo)
	subject := subjectFor(uuid.New())

	_, err := svc.GetOrCreateActor(context.Background(), subject)
	require.NoError(t, err)

	details, err := svc.GetUserDetails(context.Background(), subject.ID)
	require.NoError(t, err)
	assert.Equal(t, subject.ID.String(), details.ID)
	assert.Equal(t, "Alice", details.Name)
	assert.Equal(t, "alice@example.com", details.Email)
	assert.Equal(t, "regular", details.Role)

	_, err = svc.GetUserDetails(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainerr.ErrNotFound)
}
