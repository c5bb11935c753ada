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

	"library-backend/internal/domains/user/model"
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

func (r *postgresRepository) FindByID(ctx context.Context, id model.UserID) (*model.User, error) {
	var (
		name          string
		email         string
		role          string
		createdAt     time.Time
		createdByID   uuid.UUID
		createdByName string
		updatedAt     *time.Time
		updatedByID   *uuid.UUID
		updatedByName *string
	)

	err := r.pool.QueryRow(ctx, `
        SELECT name, email, role, created_at, created_by_id, created_by_name,
               updated_at, updated_by_id, updated_by_name
        FROM users
        WHERE id = $1
    `, id.UUID()).Scan(&name, &email, &role, &createdAt, &createdByID, &createdByName,
		&updatedAt, &updatedByID, &updatedByName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerr.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	var updatedBy *audit.UserReference
	if updatedByID != nil && updatedByName != nil {
		ref := audit.NewUserReference(*updatedByID, *updatedByName)
		updatedBy = &ref
	}

	entityAudit := audit.Hydrate(id, createdAt,
		audit.NewUserReference(createdByID, createdByName), updatedAt, updatedBy)

	return model.Hydrate(entityAudit, name, email, audit.ParseRole(role)), nil
}

func (r *postgresRepository) Save(ctx context.Context, user *model.User) error {
	a := user.Audit()

	var err error
	if a.IsNew() {
		_, err = r.pool.Exec(ctx, `
            INSERT INTO users (id, name, email, role, created_at, created_by_id, created_by_name)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
        `, a.ID().UUID(), user.Name(), user.Email(), user.Role().String(),
			a.CreatedAt(), a.CreatedBy().ID(), a.CreatedBy().Name())
	} else {
		var (
			updatedByID   *uuid.UUID
			updatedByName *string
		)
		if by := a.UpdatedBy(); by != nil {
			id := by.ID()
			name := by.Name()
			updatedByID = &id
			updatedByName = &name
		}

		var tag pgconn.CommandTag
		tag, err = r.pool.Exec(ctx, `
            UPDATE users
            SET name = $2, email = $3, role = $4,
                updated_at = $5, updated_by_id = $6, updated_by_name = $7
            WHERE id = $1
        `, a.ID().UUID(), user.Name(), user.Email(), user.Role().String(),
			a.UpdatedAt(), updatedByID, updatedByName)
		if err == nil && tag.RowsAffected() == 0 {
			return domainerr.ErrNotFound
		}
	}

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domainerr.ErrConflict
		}
		return fmt.Errorf("save user: %w", err)
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id model.UserID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id.UUID())
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainerr.ErrNotFound
	}
	return nil
}
