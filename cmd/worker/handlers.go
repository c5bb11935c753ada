package main

import (
	"github.com/hibiken/asynq"

	bookJob "library-backend/internal/domains/book/job"
	"library-backend/internal/shared"
	"library-backend/pkg/container"
)

// handlerRegistry holds the task handlers the worker serves.
type handlerRegistry struct {
	checkoutNotify *bookJob.NotifyHandler
	returnNotify   *bookJob.NotifyHandler
	checkoutDigest *bookJob.DigestHandler
}

func initializeHandlers(c *container.Container) *handlerRegistry {
	return &handlerRegistry{
		checkoutNotify: bookJob.NewCheckoutNotifyHandler(c.UserRepo, c.Email),
		returnNotify:   bookJob.NewReturnNotifyHandler(c.UserRepo, c.Email),
		checkoutDigest: bookJob.NewDigestHandler(c.BookQuery),
	}
}

func (h *handlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeCheckoutNotify, h.checkoutNotify.ProcessTask)
	mux.HandleFunc(shared.TypeReturnNotify, h.returnNotify.ProcessTask)
	mux.HandleFunc(shared.TypeCheckoutDigest, h.checkoutDigest.ProcessTask)
}
