package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"internvault-backend/internal/shared"
	"internvault-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddr string) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddr},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerExpireStalePaymentsJob()
}

// ================================================
// JOB: Expire Stale Payments (Every 5 minutes)
// ================================================
// Checkout intents are only valid for 5 minutes. Gateways deliver
// expiry webhooks for most of them; this sweep closes the rows the
// webhooks miss so a stuck PENDING payment never blocks a retry.
func (s *Scheduler) registerExpireStalePaymentsJob() error {
	payload, err := json.Marshal(shared.ExpireStalePaymentsPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeExpireStalePayments, payload)

	_, err = s.scheduler.Register(
		"*/5 * * * *",
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register ExpireStalePayments job", err)
		return err
	}

	logger.Info("Registered ExpireStalePayments: every 5 minutes", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
