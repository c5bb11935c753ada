package main

import (
	"context"
	"log"

	"github.com/hibiken/asynq"
)

type asynqServer struct {
	*asynq.Server
}

func setupAsynqServer(cfg *workerConfig, handlers *handlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		},
		asynq.Config{
			Queues: map[string]int{
				"high":    20,
				"default": 10,
				"low":     5,
			},
			Concurrency: cfg.Concurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("task failed: type=%s err=%v", task.Type(), err)
			}),
		},
	)

	go func() {
		log.Println("worker starting...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("worker failed: %v", err)
		}
	}()

	return &asynqServer{Server: srv}
}

func (s *asynqServer) Shutdown() {
	log.Println("stopping task processing...")
	s.Server.Shutdown()
}
