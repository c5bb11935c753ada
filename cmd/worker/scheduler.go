package main

import (
	"log"

	"github.com/hibiken/asynq"

	"library-backend/internal/shared"
)

type asynqScheduler struct {
	*asynq.Scheduler
}

// setupScheduler registers the recurring checkout digest and starts the
// scheduler loop.
func setupScheduler(cfg *workerConfig) *asynqScheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		},
		nil,
	)

	task := asynq.NewTask(shared.TypeCheckoutDigest, nil)
	if _, err := scheduler.Register(cfg.DigestSchedule, task, asynq.Queue("low")); err != nil {
		log.Fatalf("failed to register digest schedule: %v", err)
	}

	go func() {
		log.Println("scheduler starting...")
		if err := scheduler.Run(); err != nil {
			log.Fatalf("scheduler failed: %v", err)
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	log.Println("stopping scheduler...")
	s.Scheduler.Shutdown()
}
