package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/author/model"
)

type postgresQueryService struct {
	pool *pgxpool.Pool
}

func NewPostgresQueryService(pool *pgxpool.Pool) QueryServiceInterface {
	return &postgresQueryService{pool: pool}
}

func (s *postgresQueryService) FindRefsByName(ctx context.Context, names []model.AuthorName) ([]model.AuthorReference, error) {
	if len(names) == 0 {
		return nil, nil
	}

	raw := make([]string, len(names))
	for i, n := range names {
		raw[i] = n.String()
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, name FROM authors WHERE name = ANY($1)`, raw)
	if err != nil {
		return nil, fmt.Errorf("find author refs: %w", err)
	}
	defer rows.Close()

	var refs []model.AuthorReference
	for rows.Next() {
		var (
			id   uuid.UUID
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan author ref: %w", err)
		}
		refs = append(refs, model.HydrateAuthorReference(id, name))
	}

	return refs, rows.Err()
}

func (s *postgresQueryService) ListRefs(ctx context.Context, search string, offset, limit int) ([]model.AuthorReference, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM authors WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')`,
		search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count authors: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
        SELECT id, name FROM authors
        WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
        ORDER BY name
        OFFSET $2 LIMIT $3
    `, search, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	var refs []model.AuthorReference
	for rows.Next() {
		var (
			id   uuid.UUID
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, 0, fmt.Errorf("scan author: %w", err)
		}
		refs = append(refs, model.HydrateAuthorReference(id, name))
	}

	return refs, total, rows.Err()
}
