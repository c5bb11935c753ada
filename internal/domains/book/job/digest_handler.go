package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"library-backend/internal/domains/book/repository"
	"library-backend/pkg/logger"
)

// DigestHandler runs on a cron schedule and logs how many books are
// currently out on loan. It is the hook for future reporting; today the
// digest only lands in the structured log stream.
type DigestHandler struct {
	query repository.QueryServiceInterface
}

func NewDigestHandler(query repository.QueryServiceInterface) *DigestHandler {
	return &DigestHandler{query: query}
}

func (h *DigestHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	count, err := h.query.CountActiveCheckouts(ctx)
	if err != nil {
		return fmt.Errorf("count active checkouts: %w", err)
	}

	logger.Info("checkout digest", map[string]interface{}{
		"active_checkouts": count,
	})

	return nil
}
