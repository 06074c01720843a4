package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AuditLogName is the file, inside the consumer's audit directory, that
// purchase lines are appended to.
const AuditLogName = "ticket_audit.log"

// Consumer listens on the ticket.purchased queue and appends one line per
// purchase to the audit log.
type Consumer struct {
	url      string
	auditDir string
	log      *slog.Logger

	mu sync.Mutex // serializes appends to the audit file
}

// NewConsumer returns a Consumer that writes into auditDir.
func NewConsumer(url, auditDir string, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	if auditDir == "" {
		auditDir = "logs"
	}
	return &Consumer{url: url, auditDir: auditDir, log: logger}
}

// Run connects to RabbitMQ and consumes until ctx is done, reconnecting
// with exponential backoff when the broker goes away. Messages that fail
// to process are rejected without requeue so the loop never spins on a
// poison message.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("audit consumer: dial failed", "error", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("audit consumer: consume loop ended, reconnecting", "error", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn("audit consumer: set QoS failed", "error", err)
	}
	if _, err := ch.QueueDeclare(TicketPurchasedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(TicketPurchasedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.HandleMessage(d.Body); err != nil {
				c.log.Error("audit consumer: handle message failed", "message_id", d.MessageId, "error", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes one event body and appends its audit line.
func (c *Consumer) HandleMessage(body []byte) error {
	var ev TicketPurchasedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.TicketID == "" {
		return errors.New("event without ticket id")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.auditDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", c.auditDir, err)
	}
	f, err := os.OpenFile(filepath.Join(c.auditDir, AuditLogName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] Ticket purchased | ticket_id=%s | member_id=%d | screening_id=%d | screening=%q | quantity=%d | tier=%s | discount=%d%% (%s) | total=%s | payment_ref=%q\n",
		ev.PurchasedAt.UTC().Format(time.RFC3339), ev.TicketID, ev.MemberID, ev.ScreeningID, ev.ScreeningTitle,
		ev.Quantity, ev.Tier, ev.DiscountPercent, ev.TotalDiscount, ev.TotalPrice, ev.PaymentReference)

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// sleep waits for d or until ctx is done; it reports whether d elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
