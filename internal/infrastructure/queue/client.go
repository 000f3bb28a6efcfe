package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"internvault-backend/internal/infrastructure/email"
	"internvault-backend/internal/shared"
	"internvault-backend/pkg/logger"
)

// TaskEnqueuer is the surface services use to hand work to the worker
// process. Enqueue failures are returned so callers can decide whether
// they are fatal; mail enqueues after a committed payment are not.
type TaskEnqueuer interface {
	EnqueueVerificationEmail(ctx context.Context, data email.VerificationEmailData) error
	EnqueuePasswordResetEmail(ctx context.Context, data email.PasswordResetData) error
	EnqueuePaymentSuccessEmail(ctx context.Context, data email.PaymentSuccessData) error
	EnqueuePaymentFailedEmail(ctx context.Context, data email.PaymentFailedData) error
	EnqueueProjectCertificateEmail(ctx context.Context, data email.ProjectCertificateData) error
}

type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr string) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
	}
}

func (c *Client) EnqueueVerificationEmail(ctx context.Context, data email.VerificationEmailData) error {
	return c.enqueue(ctx, shared.TypeSendVerificationEmail, data, shared.QueueHigh)
}

func (c *Client) EnqueuePasswordResetEmail(ctx context.Context, data email.PasswordResetData) error {
	return c.enqueue(ctx, shared.TypeSendPasswordResetEmail, data, shared.QueueHigh)
}

func (c *Client) EnqueuePaymentSuccessEmail(ctx context.Context, data email.PaymentSuccessData) error {
	return c.enqueue(ctx, shared.TypeSendPaymentSuccessEmail, data, shared.QueueDefault)
}

func (c *Client) EnqueuePaymentFailedEmail(ctx context.Context, data email.PaymentFailedData) error {
	return c.enqueue(ctx, shared.TypeSendPaymentFailedEmail, data, shared.QueueDefault)
}

func (c *Client) EnqueueProjectCertificateEmail(ctx context.Context, data email.ProjectCertificateData) error {
	return c.enqueue(ctx, shared.TypeSendCertificateEmail, data, shared.QueueLow)
}

func (c *Client) enqueue(ctx context.Context, taskType string, payload interface{}, queueName string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", taskType, err)
	}

	task := asynq.NewTask(taskType, data)

	_, err = c.client.EnqueueContext(
		ctx,
		task,
		asynq.Queue(queueName),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		logger.Error("Failed to enqueue task "+taskType, err)
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}

	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
