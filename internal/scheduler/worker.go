package scheduler

import (
	"context"

	"github.com/hibiken/asynq"

	"storefront_backend/internal/catalog/domain"
	"storefront_backend/internal/email"
	"storefront_backend/platform/config"
	"storefront_backend/platform/logger"
)

// Worker consumes queued tasks. It runs next to the HTTP server and
// shares its lifecycle.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	sender email.Sender
	log    *logger.Logger
}

// NewWorker creates the consumer side of the task queue.
func NewWorker(cfg config.SchedulerConfig, sender email.Sender, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}
	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{server: server, mux: mux, sender: sender, log: log}
	mux.HandleFunc(TaskOrderConfirmation, w.handleOrderConfirmation)
	return w, nil
}

// Run blocks processing tasks until Shutdown is called.
func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

// Shutdown stops the worker, waiting for in-flight tasks.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func (w *Worker) handleOrderConfirmation(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseOrderConfirmationPayload(task)
	if err != nil {
		return err
	}

	err = w.sender.SendOrderConfirmation(ctx, payload.Email, email.OrderConfirmation{
		Reference: payload.Reference,
		Total:     domain.FormatCents(payload.TotalCents),
	})
	if err != nil {
		w.log.Error("order confirmation delivery failed", "reference", payload.Reference, "error", err)
		return err
	}

	w.log.Info("order confirmation sent", "reference", payload.Reference)
	return nil
}
