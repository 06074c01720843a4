package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends ticket events to RabbitMQ. It dials per publish; purchase
// volume is low and this keeps no connection state to repair.
type Publisher struct {
	url    string
	log    *slog.Logger
	dialer func(url string) (*amqp.Connection, error)
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{url: url, log: logger, dialer: amqp.Dial}
}

// PublishTicketPurchased publishes ev to the ticket.purchased queue as a
// persistent JSON message. Errors are logged and returned so the caller can
// choose to ignore them.
func (p *Publisher) PublishTicketPurchased(ctx context.Context, ev TicketPurchasedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := p.dialer(p.url)
	if err != nil {
		p.log.Warn("rabbitmq dial failed", "error", err)
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		TicketPurchasedQueue, // name
		true,                 // durable
		false,                // autoDelete
		false,                // exclusive
		false,                // noWait
		nil,                  // args
	); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",                   // default exchange
		TicketPurchasedQueue, // routing key = queue name
		false,                // mandatory
		false,                // immediate
		pub,
	); err != nil {
		p.log.Warn("rabbitmq publish failed", "ticket_id", ev.TicketID, "error", err)
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}
