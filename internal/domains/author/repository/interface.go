package repository

import (
	"context"

	"library-backend/internal/domains/author/model"
)

// RepositoryInterface is the author persistence contract. Save maps a
// unique-violation on the name column to domainerr.ErrConflict so the
// factory service can recover from concurrent creation.
type RepositoryInterface interface {
	FindByID(ctx context.Context, id model.AuthorID) (*model.Author, error)
	Save(ctx context.Context, author *model.Author) error
	Delete(ctx context.Context, id model.AuthorID) error
}

// QueryServiceInterface answers read-only author questions without
// hydrating full entities.
type QueryServiceInterface interface {
	// FindRefsByName returns references for every existing author whose
	// name exactly matches one of the given names.
	FindRefsByName(ctx context.Context, names []model.AuthorName) ([]model.AuthorReference, error)

	// ListRefs pages through author references, optionally filtered by a
	// name substring.
	ListRefs(ctx context.Context, search string, offset, limit int) ([]model.AuthorReference, int, error)
}
