package main

import (
	"log"

	"library-backend/pkg/container"
)

// workerConfig is the slice of application config the worker needs.
type workerConfig struct {
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	Concurrency    int
	DigestSchedule string
}

func loadWorkerConfig(c *container.Container) *workerConfig {
	cfg := &workerConfig{
		RedisAddr:      c.Config.Redis.Host,
		RedisPassword:  c.Config.Redis.Password,
		RedisDB:        c.Config.Redis.DB,
		Concurrency:    c.Config.Worker.Concurrency,
		DigestSchedule: c.Config.Worker.DigestSchedule,
	}

	log.Printf("worker config: redis=%s concurrency=%d digest=%q",
		cfg.RedisAddr, cfg.Concurrency, cfg.DigestSchedule)

	return cfg
}
