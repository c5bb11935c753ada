package repository

import (
	"context"

	"library-backend/internal/domains/book/model"
)

// RepositoryInterface is the book persistence contract. Save writes the
// whole aggregate (book row, author links, checkout rows) in one
// transaction so the caller's load-mutate-save cycle stays atomic.
type RepositoryInterface interface {
	FindByID(ctx context.Context, id model.BookID) (*model.Book, error)
	Save(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, id model.BookID) error
}

// QueryServiceInterface serves the read side without hydrating full
// aggregates.
type QueryServiceInterface interface {
	ListBooks(ctx context.Context, search string, offset, limit int) ([]model.ListBooksResponse, int, error)
	CountActiveCheckouts(ctx context.Context) (int, error)
}
