package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/author/model"
	"library-backend/internal/shared/audit"
	"library-backend/internal/shared/domainerr"
)

const uniqueViolation = "23505"

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) FindByID(ctx context.Context, id model.AuthorID) (*model.Author, error) {
	query := `
        SELECT id, name, created_at, created_by_id, created_by_name,
               updated_at, updated_by_id, updated_by_name
        FROM authors
        WHERE id = $1
    `

	row := r.pool.QueryRow(ctx, query, id.UUID())
	author, err := scanAuthor(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerr.ErrNotFound
		}
		return nil, fmt.Errorf("find author: %w", err)
	}

	return author, nil
}

func (r *postgresRepository) Save(ctx context.Context, author *model.Author) error {
	a := author.Audit()

	var err error
	if a.IsNew() {
		query := `
            INSERT INTO authors (id, name, created_at, created_by_id, created_by_name)
            VALUES ($1, $2, $3, $4, $5)
        `
		_, err = r.pool.Exec(ctx, query,
			a.ID().UUID(), author.Name(), a.CreatedAt(), a.CreatedBy().ID(), a.CreatedBy().Name())
	} else {
		query := `
            UPDATE authors
            SET name = $2, updated_at = $3, updated_by_id = $4, updated_by_name = $5
            WHERE id = $1
        `
		var tag pgconn.CommandTag
		tag, err = r.pool.Exec(ctx, query,
			a.ID().UUID(), author.Name(), a.UpdatedAt(), updatedByID(a), updatedByName(a))
		if err == nil && tag.RowsAffected() == 0 {
			return domainerr.ErrNotFound
		}
	}

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domainerr.ErrConflict
		}
		return fmt.Errorf("save author: %w", err)
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id model.AuthorID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id.UUID())
	if err != nil {
		return fmt.Errorf("delete author: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainerr.ErrNotFound
	}
	return nil
}

func updatedByID(a audit.EntityAudit[model.AuthorID]) *uuid.UUID {
	if by := a.UpdatedBy(); by != nil {
		id := by.ID()
		return &id
	}
	return nil
}

func updatedByName(a audit.EntityAudit[model.AuthorID]) *string {
	if by := a.UpdatedBy(); by != nil {
		name := by.Name()
		return &name
	}
	return nil
}

func scanAuthor(row pgx.Row) (*model.Author, error) {
	var (
		id            uuid.UUID
		name          string
		createdAt     time.Time
		createdByID   uuid.UUID
		createdByName string
		updatedAt     *time.Time
		updatedByID   *uuid.UUID
		updatedByNm   *string
	)

	if err := row.Scan(&id, &name, &createdAt, &createdByID, &createdByName,
		&updatedAt, &updatedByID, &updatedByNm); err != nil {
		return nil, err
	}

	var updatedBy *audit.UserReference
	if updatedByID != nil && updatedByNm != nil {
		ref := audit.NewUserReference(*updatedByID, *updatedByNm)
		updatedBy = &ref
	}

	entityAudit := audit.Hydrate(
		model.AuthorID(id),
		createdAt,
		audit.NewUserReference(createdByID, createdByName),
		updatedAt,
		updatedBy,
	)

	return model.Hydrate(entityAudit, name), nil
}
