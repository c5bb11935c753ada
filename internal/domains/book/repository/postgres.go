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

	author "library-backend/internal/domains/author/model"
	"library-backend/internal/domains/book/model"
	"library-backend/internal/shared/audit"
	"library-backend/internal/shared/domainerr"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) FindByID(ctx context.Context, id model.BookID) (*model.Book, error) {
	var (
		title         string
		isbn          *string
		description   *string
		ownerID       uuid.UUID
		ownerName     string
		createdAt     time.Time
		createdByID   uuid.UUID
		createdByName string
		updatedAt     *time.Time
		updatedByID   *uuid.UUID
		updatedByName *string
	)

	err := r.pool.QueryRow(ctx, `
        SELECT title, isbn, description, owner_id, owner_name,
               created_at, created_by_id, created_by_name,
               updated_at, updated_by_id, updated_by_name
        FROM books
        WHERE id = $1
    `, id.UUID()).Scan(&title, &isbn, &description, &ownerID, &ownerName,
		&createdAt, &createdByID, &createdByName,
		&updatedAt, &updatedByID, &updatedByName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerr.ErrNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}

	authors, err := r.loadAuthors(ctx, id)
	if err != nil {
		return nil, err
	}

	checkouts, err := r.loadCheckouts(ctx, id)
	if err != nil {
		return nil, err
	}

	var updatedBy *audit.UserReference
	if updatedByID != nil && updatedByName != nil {
		ref := audit.NewUserReference(*updatedByID, *updatedByName)
		updatedBy = &ref
	}

	entityAudit := audit.Hydrate(id, createdAt,
		audit.NewUserReference(createdByID, createdByName), updatedAt, updatedBy)

	return model.Hydrate(
		entityAudit,
		model.HydrateBookTitle(title),
		authors,
		model.HydrateBookISBN(isbn),
		model.HydrateBookDescription(description),
		model.NewBookOwner(audit.NewUserReference(ownerID, ownerName)),
		checkouts,
	), nil
}

func (r *postgresRepository) loadAuthors(ctx context.Context, id model.BookID) (model.AuthorList, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT a.id, a.name, ba.position
        FROM book_authors ba
        JOIN authors a ON a.id = ba.author_id
        WHERE ba.book_id = $1
        ORDER BY ba.position
    `, id.UUID())
	if err != nil {
		return model.AuthorList{}, fmt.Errorf("load book authors: %w", err)
	}
	defer rows.Close()

	var entries []model.OrderedAuthorRef
	for rows.Next() {
		var (
			authorID uuid.UUID
			name     string
			position int
		)
		if err := rows.Scan(&authorID, &name, &position); err != nil {
			return model.AuthorList{}, fmt.Errorf("scan book author: %w", err)
		}
		entries = append(entries, model.HydrateOrderedAuthorRef(
			author.HydrateAuthorReference(authorID, name), position))
	}
	if err := rows.Err(); err != nil {
		return model.AuthorList{}, err
	}

	return model.HydrateAuthorList(entries), nil
}

func (r *postgresRepository) loadCheckouts(ctx context.Context, id model.BookID) (model.CheckoutHistory, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, checked_out_to_id, checked_out_to_name, checked_out_at, returned_at
        FROM book_checkouts
        WHERE book_id = $1
        ORDER BY checked_out_at, returned_at NULLS LAST
    `, id.UUID())
	if err != nil {
		return model.CheckoutHistory{}, fmt.Errorf("load checkouts: %w", err)
	}
	defer rows.Close()

	var items []model.Checkout
	for rows.Next() {
		var (
			checkoutID   uuid.UUID
			toID         uuid.UUID
			toName       string
			checkedOutAt time.Time
			returnedAt   *time.Time
		)
		if err := rows.Scan(&checkoutID, &toID, &toName, &checkedOutAt, &returnedAt); err != nil {
			return model.CheckoutHistory{}, fmt.Errorf("scan checkout: %w", err)
		}
		items = append(items, model.HydrateCheckout(
			checkoutID, audit.NewUserReference(toID, toName), checkedOutAt, returnedAt))
	}
	if err := rows.Err(); err != nil {
		return model.CheckoutHistory{}, err
	}

	return model.HydrateCheckoutHistory(items), nil
}

// Save writes the book row, its author links and its checkout rows in a
// single transaction. Title, authors and checkouts must land together;
// a partial write would let the single-active-checkout scan lie.
func (r *postgresRepository) Save(ctx context.Context, book *model.Book) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save book: %w", err)
	}
	defer tx.Rollback(ctx)

	a := book.Audit()

	if a.IsNew() {
		_, err = tx.Exec(ctx, `
            INSERT INTO books (id, title, isbn, description, owner_id, owner_name,
                               created_at, created_by_id, created_by_name)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        `, a.ID().UUID(), book.Title(), book.ISBN(), book.Description(),
			book.Owner().ID(), book.Owner().Name(),
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
		tag, err = tx.Exec(ctx, `
            UPDATE books
            SET title = $2, isbn = $3, description = $4,
                owner_id = $5, owner_name = $6,
                updated_at = $7, updated_by_id = $8, updated_by_name = $9
            WHERE id = $1
        `, a.ID().UUID(), book.Title(), book.ISBN(), book.Description(),
			book.Owner().ID(), book.Owner().Name(),
			a.UpdatedAt(), updatedByID, updatedByName)
		if err == nil && tag.RowsAffected() == 0 {
			return domainerr.ErrNotFound
		}
	}
	if err != nil {
		return fmt.Errorf("save book: %w", err)
	}

	if err := r.saveAuthors(ctx, tx, book); err != nil {
		return err
	}
	if err := r.saveCheckouts(ctx, tx, book); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepository) saveAuthors(ctx context.Context, tx pgx.Tx, book *model.Book) error {
	bookID := book.Audit().ID().UUID()

	if _, err := tx.Exec(ctx, `DELETE FROM book_authors WHERE book_id = $1`, bookID); err != nil {
		return fmt.Errorf("clear book authors: %w", err)
	}

	for _, entry := range book.Authors().Refs() {
		if _, err := tx.Exec(ctx, `
            INSERT INTO book_authors (book_id, author_id, position)
            VALUES ($1, $2, $3)
        `, bookID, entry.Reference().ID().UUID(), entry.Position()); err != nil {
			return fmt.Errorf("link book author: %w", err)
		}
	}

	return nil
}

func (r *postgresRepository) saveCheckouts(ctx context.Context, tx pgx.Tx, book *model.Book) error {
	bookID := book.Audit().ID().UUID()

	// History is append-plus-close-in-place, so an upsert per record
	// covers both the new active row and a return stamping an old one.
	for _, c := range book.Checkouts().Items() {
		if _, err := tx.Exec(ctx, `
            INSERT INTO book_checkouts (id, book_id, checked_out_to_id, checked_out_to_name,
                                        checked_out_at, returned_at)
            VALUES ($1, $2, $3, $4, $5, $6)
            ON CONFLICT (id) DO UPDATE SET returned_at = EXCLUDED.returned_at
        `, c.ID(), bookID, c.CheckedOutTo().ID(), c.CheckedOutTo().Name(),
			c.CheckedOutAt(), c.ReturnedAt()); err != nil {
			return fmt.Errorf("save checkout: %w", err)
		}
	}

	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id model.BookID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id.UUID())
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainerr.ErrNotFound
	}
	return nil
}
