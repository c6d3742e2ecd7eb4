package main

import (
	"context"
	"log"

	"github.com/hibiken/asynq"

	"resursbank-gateway/internal/shared"
	"resursbank-gateway/pkg/container"
	"resursbank-gateway/pkg/logger"
)

// asynqServer wraps asynq.Server with additional functionality
type asynqServer struct {
	*asynq.Server
}

// setupAsynqServer creates the Asynq server and starts it in the background.
func setupAsynqServer(c *container.Container, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	queues := map[string]int{
		shared.QueueCritical: 20,
		shared.QueueDefault:  10,
		shared.QueueLow:      5,
	}
	// Status updates go to the configured queue name.
	if _, ok := queues[c.Config.Queue.Name]; !ok {
		queues[c.Config.Queue.Name] = 15
	}

	srv := asynq.NewServer(
		c.RedisOpt,
		asynq.Config{
			Queues:      queues,
			Concurrency: c.Config.Queue.Concurrency,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logger.ErrorWithFields("task failed", err, map[string]interface{}{
					"type":      task.Type(),
					"retried":   retried,
					"max_retry": maxRetry,
				})
			}),
		},
	)

	go func() {
		log.Println("[Worker] Starting...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[Worker] Failed: %v", err)
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown waits for in-flight tasks; asynq applies its own shutdown timeout.
func (s *asynqServer) Shutdown() {
	log.Println("[Worker] Shutting down...")
	s.Server.Shutdown()
	log.Println("[Worker] ✓ Gracefully stopped")
}
