package repository

import (
	"context"

	"library-backend/internal/domains/user/model"
)

// RepositoryInterface is the user persistence contract.
type RepositoryInterface interface {
	FindByID(ctx context.Context, id model.UserID) (*model.User, error)
	Save(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id model.UserID) error
}
