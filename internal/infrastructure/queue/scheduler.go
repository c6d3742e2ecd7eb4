package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"resursbank-gateway/internal/shared"
	"resursbank-gateway/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(opt asynq.RedisClientOpt) *Scheduler {
	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		Location: time.UTC,
		LogLevel: asynq.InfoLevel,
	})
	return &Scheduler{scheduler: scheduler}
}

// ================================================
// Callback salt rotation
// ================================================
// The validator already regenerates a stale salt lazily when a callback
// arrives; this job keeps the salt and the provider's registrations fresh on
// stores that receive few callbacks.
func (s *Scheduler) RegisterSaltRotation(cronSpec string) error {
	payload, err := json.Marshal(map[string]interface{}{"reason": "scheduled"})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeCallbackRotateSalt, payload)

	_, err = s.scheduler.Register(
		cronSpec,
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register salt rotation job", err)
		return err
	}

	logger.Info("✓ Registered callback salt rotation", map[string]interface{}{"cron": cronSpec})
	return nil
}

// Start runs the scheduler in the background.
func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
