package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"library-backend/internal/domains/user/model"
	userRepo "library-backend/internal/domains/user/repository"
	"library-backend/internal/infrastructure/email"
	"library-backend/internal/shared"
	"library-backend/internal/shared/domainerr"
	"library-backend/pkg/logger"
)

// NotifyHandler emails a book's owner when the book is checked out or
// returned. The same handler serves both task types; returned selects
// the message variant.
type NotifyHandler struct {
	users    userRepo.RepositoryInterface
	email    email.EmailService
	returned bool
}

func NewCheckoutNotifyHandler(users userRepo.RepositoryInterface, emailSvc email.EmailService) *NotifyHandler {
	return &NotifyHandler{users: users, email: emailSvc, returned: false}
}

func NewReturnNotifyHandler(users userRepo.RepositoryInterface, emailSvc email.EmailService) *NotifyHandler {
	return &NotifyHandler{users: users, email: emailSvc, returned: true}
}

func (h *NotifyHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.CheckoutEventPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	ownerID, err := uuid.Parse(payload.OwnerID)
	if err != nil {
		return fmt.Errorf("parse owner id %q: %v: %w", payload.OwnerID, err, asynq.SkipRetry)
	}

	owner, err := h.users.FindByID(ctx, model.UserID(ownerID))
	if err != nil {
		// The owner may have been deleted before the task ran; there is
		// nobody to notify and retrying will not change that.
		if errors.Is(err, domainerr.ErrNotFound) {
			logger.Info("skipping notification, owner no longer exists", map[string]interface{}{
				"owner_id": payload.OwnerID,
				"book_id":  payload.BookID,
			})
			return nil
		}
		return fmt.Errorf("find owner: %w", err)
	}

	data := email.CheckoutEmailData{
		To:        owner.Email(),
		BookTitle: payload.BookTitle,
		ActorName: payload.ActorName,
		Returned:  h.returned,
	}

	if err := h.email.SendCheckoutNotification(ctx, data); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	logger.Info("sent checkout notification", map[string]interface{}{
		"book_id":  payload.BookID,
		"owner_id": payload.OwnerID,
		"returned": h.returned,
	})

	return nil
}
