package outbox

import (
	"encoding/json"
	"time"
)

// Routing for booking lifecycle events consumed by the notifier service.
const (
	QueueBookingCreated = "skyquest.booking.created"
	QueueBookingPaid    = "skyquest.booking.paid"

	defaultMaxRetries = 8
)

// Message is a booking event waiting to be published to RabbitMQ.
// Rows survive process restarts, so delivery is at-least-once.
type Message struct {
	ID           int64
	QueueName    string
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}

// NewBookingEvent builds an outbox message carrying the JSON-encoded
// event payload for the given queue.
func NewBookingEvent(queue string, payload any) (Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}

	now := time.Now()

	return Message{
		QueueName:   queue,
		RoutingKey:  queue,
		Payload:     body,
		ContentType: "application/json",
		MaxRetries:  defaultMaxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}, nil
}
