package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Enqueuer submits a named task with a JSON payload.
type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error
}

// Client is the asynq producer used by the API process.
type Client struct {
	client   *asynq.Client
	queue    string
	maxRetry int
	timeout  time.Duration
}

// NewClient builds a producer; queue/maxRetry/timeout are per-task defaults
// that callers may override through opts.
func NewClient(opt asynq.RedisClientOpt, queue string, maxRetry int, timeout time.Duration) *Client {
	return &Client{
		client:   asynq.NewClient(opt),
		queue:    queue,
		maxRetry: maxRetry,
		timeout:  timeout,
	}
}

var _ Enqueuer = (*Client)(nil)

func (c *Client) Enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", taskType, err)
	}

	defaults := []asynq.Option{
		asynq.Queue(c.queue),
		asynq.MaxRetry(c.maxRetry),
		asynq.Timeout(c.timeout),
	}

	if _, err := c.client.EnqueueContext(ctx, asynq.NewTask(taskType, data), append(defaults, opts...)...); err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}

// Ping checks the broker is reachable.
func (c *Client) Ping() error {
	return c.client.Ping()
}

func (c *Client) Close() error {
	return c.client.Close()
}
