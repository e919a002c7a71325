// Package queue publishes registry notifications to RabbitMQ so external
// subscribers can consume them without polling the outbox.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/SergejKubat/crypto-sports/internal/domain"
)

const notificationQueueName = "registry.notifications"

// Envelope is the wire form of a notification. Kind discriminates the Data
// payload; EventID is empty for registry-wide notifications.
type Envelope struct {
	Kind       string              `json:"kind"`
	EventID    string              `json:"event_id,omitempty"`
	OccurredAt time.Time           `json:"occurred_at"`
	Data       domain.Notification `json:"data"`
}

// Publisher writes notifications to a durable queue with persistent
// deliveries, so a broker restart loses nothing that was acked.
type Publisher struct {
	// conn is set only when the publisher dialed the broker itself; Close
	// then releases it along with the channel.
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// NewPublisher opens a channel on conn and declares the durable
// notification queue.
func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("channel open: %w", err)
	}
	if _, err := ch.QueueDeclare(notificationQueueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	return &Publisher{ch: ch, queue: notificationQueueName}, nil
}

// Dial connects to the broker at url and returns a publisher that owns the
// connection: closing the publisher closes it too.
func Dial(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	p, err := NewPublisher(conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func (p *Publisher) Publish(ctx context.Context, n domain.Notification) error {
	body, err := encode(n, time.Now().UTC())
	if err != nil {
		return err
	}
	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", n.Kind(), err)
	}
	return nil
}

func (p *Publisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func encode(n domain.Notification, occurredAt time.Time) ([]byte, error) {
	body, err := json.Marshal(Envelope{
		Kind:       n.Kind(),
		EventID:    n.EventID(),
		OccurredAt: occurredAt,
		Data:       n,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", n.Kind(), err)
	}
	return body, nil
}
