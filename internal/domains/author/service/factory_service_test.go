package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/author/model"
	"library-backend/internal/shared/audit"
	"library-backend/internal/shared/domainerr"
)

// fakeAuthorStore backs both the repository and the query service so a
// test can observe what the factory persisted.
type fakeAuthorStore struct {
	byName map[string]model.AuthorReference
	saves  int

	// conflictOn simulates losing the creation race: the first save of
	// this name fails with ErrConflict after registering the "winner".
	conflictOn string
}

func newFakeAuthorStore() *fakeAuthorStore {
	return &fakeAuthorStore{byName: map[string]model.AuthorReference{}}
}

func (f *fakeAuthorStore) FindByID(ctx context.Context, id model.AuthorID) (*model.Author, error) {
	return nil, domainerr.ErrNotFound
}

func (f *fakeAuthorStore) Save(ctx context.Context, author *model.Author) error {
	f.saves++

	if author.Name() == f.conflictOn {
		// The concurrent winner's row appears with a different id.
		f.byName[author.Name()] = model.NewAuthorReference(
			model.AuthorID(uuid.New()), model.HydrateAuthorName(author.Name()))
		f.conflictOn = ""
		return domainerr.ErrConflict
	}

	if _, exists := f.byName[author.Name()]; exists {
		return domainerr.ErrConflict
	}

	f.byName[author.Name()] = author.Reference()
	return nil
}

func (f *fakeAuthorStore) Delete(ctx context.Context, id model.AuthorID) error {
	return nil
}

func (f *fakeAuthorStore) FindRefsByName(ctx context.Context, names []model.AuthorName) ([]model.AuthorReference, error) {
	var refs []model.AuthorReference
	for _, name := range names {
		if ref, ok := f.byName[name.String()]; ok {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

func (f *fakeAuthorStore) ListRefs(ctx context.Context, search string, offset, limit int) ([]model.AuthorReference, int, error) {
	return nil, 0, nil
}

func testAuditCtx() audit.Context {
	actor := audit.NewActor(audit.NewUserReference(uuid.New(), "someone"), audit.RoleRegular)
	return audit.NewContext(actor, audit.FixedClock{
		Time: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	})
}

func names(t *testing.T, raw ...string) []model.AuthorName {
	t.Helper()
	out := make([]model.AuthorName, 0, len(raw))
	for _, r := range raw {
		name, err := model.NewAuthorName(r)
		require.NoError(t, err)
		out = append(out, name)
	}
	return out
}

func TestEnsureAuthorsExist_CreatesMissing(t *testing.T) {
	store := newFakeAuthorStore()
	svc := NewFactoryService(store, store)

	refs, err := svc.EnsureAuthorsExist(context.Background(), testAuditCtx(),
		names(t, "Terry Pratchett", "Neil Gaiman"))
	require.NoError(t, err)

	assert.Len(t, refs, 2)
	assert.Equal(t, 2, store.saves)
	assert.Contains(t, store.byName, "Terry Pratchett")
	assert.Contains(t, store.byName, "Neil Gaiman")
}

func TestEnsureAuthorsExist_ReusesExisting(t *testing.T) {
	store := newFakeAuthorStore()
	existing := model.NewAuthorReference(
		model.AuthorID(uuid.New()), model.HydrateAuthorName("Terry Pratchett"))
	store.byName["Terry Pratchett"] = existing

	svc := NewFactoryService(store, store)

	refs, err := svc.EnsureAuthorsExist(context.Background(), testAuditCtx(),
		names(t, "Terry Pratchett", "Neil Gaiman"))
	require.NoError(t, err)

	assert.Len(t, refs, 2)
	assert.Equal(t, 1, store.saves)

	for _, ref := range refs {
		if ref.Name().String() == "Terry Pratchett" {
			assert.Equal(t, existing.ID(), ref.ID())
		}
	}
}

func TestEnsureAuthorsExist_RejectsDuplicateNames(t *testing.T) {
	store := newFakeAuthorStore()
	svc := NewFactoryService(store, store)

	_, err := svc.EnsureAuthorsExist(context.Background(), testAuditCtx(),
		names(t, "Neil Gaiman", "Neil Gaiman"))
	assert.True(t, domainerr.IsValidation(err))
	assert.Zero(t, store.saves)
}

func TestEnsureAuthorsExist_RecoversFromCreationRace(t *testing.T) {
	store := newFakeAuthorStore()
	store.conflictOn = "Neil Gaiman"
	svc := NewFactoryService(store, store)

	refs, err := svc.EnsureAuthorsExist(context.Background(), testAuditCtx(),
		names(t, "Neil Gaiman"))
	require.NoError(t, err)
	require.Len(t, refs, 1)

	// The reference must be the concurrent winner's row.
	assert.Equal(t, store.byName["Neil Gaiman"].ID(), refs[0].ID())
}
