package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"storefront_backend/platform/config"
)

// Client enqueues background tasks. A nil Client is a valid no-op, used
// when the queue is disabled.
type Client struct {
	client *asynq.Client
	queue  string
}

// NewClient creates an enqueue-side client for the configured queue.
func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

// Close releases the underlying redis connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueOrderConfirmation queues a confirmation email for the order.
func (c *Client) EnqueueOrderConfirmation(ctx context.Context, orderID uuid.UUID, reference, email string, totalCents int64) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewOrderConfirmationTask(OrderConfirmationPayload{
		OrderID:    orderID.String(),
		Reference:  reference,
		Email:      email,
		TotalCents: totalCents,
	})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	if redisURL == "" {
		return asynq.RedisClientOpt{}, fmt.Errorf("redis url not configured")
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}
	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
