// Package scheduler runs the background task queue: orders enqueue work
// through the Client and the Worker consumes it alongside the HTTP server.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskOrderConfirmation = "orders.confirmation"

// OrderConfirmationPayload carries everything the worker needs to send
// one confirmation email.
type OrderConfirmationPayload struct {
	OrderID    string `json:"orderId"`
	Reference  string `json:"reference"`
	Email      string `json:"email"`
	TotalCents int64  `json:"totalCents"`
}

func NewOrderConfirmationTask(payload OrderConfirmationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderConfirmation, data, asynq.MaxRetry(5)), nil
}

func ParseOrderConfirmationPayload(task *asynq.Task) (OrderConfirmationPayload, error) {
	var payload OrderConfirmationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return OrderConfirmationPayload{}, err
	}
	return payload, nil
}
