package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"library-backend/internal/domains/user/model"
	"library-backend/internal/domains/user/repository"
	"library-backend/internal/shared/audit"
	"library-backend/internal/shared/domainerr"
	"library-backend/pkg/logger"
)

// TokenSubject is the identity a verified bearer token asserts.
type TokenSubject struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  audit.UserRole
}

// UserDetails is the read model for /users/me.
type UserDetails struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

type UserService struct {
	clock audit.Clock
	repo  repository.RepositoryInterface
}

func NewUserService(clock audit.Clock, repo repository.RepositoryInterface) *UserService {
	return &UserService{clock: clock, repo: repo}
}

// GetOrCreateActor turns a verified token subject into an Actor,
// provisioning the user record on first sight and reconciling stored
// name/role with the token when they drift. Both run under the system
// actor: the user is not acting on themselves yet.
func (s *UserService) GetOrCreateActor(ctx context.Context, subject TokenSubject) (audit.Actor, error) {
	auditCtx := audit.NewContext(audit.SystemActor(), s.clock)

	user, err := s.repo.FindByID(ctx, model.UserID(subject.ID))
	if err != nil {
		if !errors.Is(err, domainerr.ErrNotFound) {
			return audit.Actor{}, err
		}
		return s.provision(ctx, auditCtx, subject)
	}

	if user.Name() != subject.Name || user.Role() != subject.Role {
		name, err := model.NewUserName(subject.Name)
		if err != nil {
			return audit.Actor{}, err
		}
		email, err := model.NewUserEmail(subject.Email)
		if err != nil {
			return audit.Actor{}, err
		}

		if err := user.Update(auditCtx, name, email, subject.Role); err != nil {
			return audit.Actor{}, err
		}
		if err := s.repo.Save(ctx, user); err != nil {
			return audit.Actor{}, err
		}

		logger.Info("reconciled user with token subject", map[string]interface{}{
			"user_id": subject.ID.String(),
		})
	}

	return user.IntoActor(), nil
}

func (s *UserService) provision(ctx context.Context, auditCtx audit.Context, subject TokenSubject) (audit.Actor, error) {
	name, err := model.NewUserName(subject.Name)
	if err != nil {
		return audit.Actor{}, err
	}
	email, err := model.NewUserEmail(subject.Email)
	if err != nil {
		return audit.Actor{}, err
	}

	user, err := model.CreateNew(auditCtx, model.UserID(subject.ID), name, email, subject.Role)
	if err != nil {
		return audit.Actor{}, err
	}

	if err := s.repo.Save(ctx, user); err != nil {
		// Two first requests can race to provision the same subject;
		// the row that won is the user we wanted anyway.
		if errors.Is(err, domainerr.ErrConflict) {
			existing, findErr := s.repo.FindByID(ctx, model.UserID(subject.ID))
			if findErr != nil {
				return audit.Actor{}, findErr
			}
			return existing.IntoActor(), nil
		}
		return audit.Actor{}, err
	}

	logger.Info("provisioned user from token subject", map[string]interface{}{
		"user_id": subject.ID.String(),
	})

	return user.IntoActor(), nil
}

// GetUserDetails serves the authenticated user's own record.
func (s *UserService) GetUserDetails(ctx context.Context, id uuid.UUID) (*UserDetails, error) {
	user, err := s.repo.FindByID(ctx, model.UserID(id))
	if err != nil {
		return nil, err
	}

	return &UserDetails{
		ID:        user.Audit().ID().String(),
		Name:      user.Name(),
		Email:     user.Email(),
		Role:      user.Role().String(),
		CreatedAt: user.Audit().CreatedAt().Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}

// FindReference loads the denormalized snapshot for a user, used when a
// book changes hands.
func (s *UserService) FindReference(ctx context.Context, id uuid.UUID) (audit.UserReference, error) {
	user, err := s.repo.FindByID(ctx, model.UserID(id))
	if err != nil {
		return audit.UserReference{}, err
	}
	return user.Reference(), nil
}
