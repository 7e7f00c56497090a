// Package notify publishes pipeline progress so other services can follow a run.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

const Exchange = "pipeline_updates"

// Statuses carried by Update.Status.
const (
	StatusStarted    = "started"
	StatusProcessing = "processing"
	StatusSucceeded  = "succeeded"
	StatusLowConf    = "low_confidence"
	StatusFailed     = "failed"
	StatusCompleted  = "completed"
)

type Update struct {
	RunID       string    `json:"run_id"`
	CandidateID string    `json:"candidate_id,omitempty"`
	Phase       string    `json:"phase,omitempty"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
}

type Notifier interface {
	Notify(ctx context.Context, u Update) error
}

// Nop drops every update.
type Nop struct{}

func (Nop) Notify(context.Context, Update) error { return nil }

// channel is the part of *amqp.Channel the notifier uses.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPNotifier publishes each update as JSON on the pipeline_updates topic
// exchange with routing key pipeline.<run_id>. A channel is opened per update.
type AMQPNotifier struct {
	open func() (channel, error)
}

func NewAMQPNotifier(conn *amqp.Connection) (*AMQPNotifier, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()
	err = ch.ExchangeDeclare(
		Exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-delete
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", Exchange, err)
	}
	return &AMQPNotifier{open: func() (channel, error) { return conn.Channel() }}, nil
}

func RoutingKey(runID string) string {
	return fmt.Sprintf("pipeline.%s", runID)
}

func (n *AMQPNotifier) Notify(_ context.Context, u Update) error {
	if u.RunID == "" {
		return errors.New("update has no run id")
	}
	if u.Timestamp.IsZero() {
		u.Timestamp = time.Now().UTC()
	}
	body, err := json.Marshal(u)
	if err != nil {
		return err
	}

	ch, err := n.open()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.Publish(
		Exchange,
		RoutingKey(u.RunID),
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   u.Timestamp,
			Body:        body,
		},
	)
}
