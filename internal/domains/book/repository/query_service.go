package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/book/model"
)

type postgresQueryService struct {
	pool *pgxpool.Pool
}

func NewPostgresQueryService(pool *pgxpool.Pool) QueryServiceInterface {
	return &postgresQueryService{pool: pool}
}

func (s *postgresQueryService) ListBooks(ctx context.Context, search string, offset, limit int) ([]model.ListBooksResponse, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM books WHERE ($1 = '' OR title ILIKE '%' || $1 || '%')`,
		search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
        SELECT b.id, b.title, b.owner_id, b.owner_name,
               COALESCE(array_agg(a.id ORDER BY ba.position) FILTER (WHERE a.id IS NOT NULL), '{}'),
               COALESCE(array_agg(a.name ORDER BY ba.position) FILTER (WHERE a.id IS NOT NULL), '{}'),
               EXISTS (
                   SELECT 1 FROM book_checkouts c
                   WHERE c.book_id = b.id AND c.returned_at IS NULL
               ) AS checked_out
        FROM books b
        LEFT JOIN book_authors ba ON ba.book_id = b.id
        LEFT JOIN authors a ON a.id = ba.author_id
        WHERE ($1 = '' OR b.title ILIKE '%' || $1 || '%')
        GROUP BY b.id
        ORDER BY b.title
        OFFSET $2 LIMIT $3
    `, search, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var items []model.ListBooksResponse
	for rows.Next() {
		var (
			id          uuid.UUID
			title       string
			ownerID     uuid.UUID
			ownerName   string
			authorIDs   []uuid.UUID
			authorNames []string
			checkedOut  bool
		)
		if err := rows.Scan(&id, &title, &ownerID, &ownerName, &authorIDs, &authorNames, &checkedOut); err != nil {
			return nil, 0, fmt.Errorf("scan book row: %w", err)
		}

		authors := make([]model.AuthorRefDTO, len(authorIDs))
		for i := range authorIDs {
			authors[i] = model.AuthorRefDTO{ID: authorIDs[i].String(), Name: authorNames[i]}
		}

		items = append(items, model.ListBooksResponse{
			ID:         id.String(),
			Title:      title,
			Authors:    authors,
			Owner:      model.UserRefDTO{ID: ownerID.String(), Name: ownerName},
			CheckedOut: checkedOut,
		})
	}

	return items, total, rows.Err()
}

func (s *postgresQueryService) CountActiveCheckouts(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM book_checkouts WHERE returned_at IS NULL`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active checkouts: %w", err)
	}
	return count, nil
}
