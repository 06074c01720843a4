// Package queue carries ticket events over RabbitMQ: the payloads, the
// publisher used by the purchase flow and the consumer that keeps the
// purchase audit trail.
package queue

import "time"

// TicketPurchasedQueue is the durable queue purchase events are routed to.
const TicketPurchasedQueue = "ticket.purchased"

// TicketPurchasedEvent is published after a ticket row has been written.
// It carries enough for the audit consumer to log the purchase without
// querying the content store.
type TicketPurchasedEvent struct {
	TicketID         string    `json:"ticketId"`
	MemberID         uint64    `json:"memberId"`
	ScreeningID      uint64    `json:"screeningId"`
	ScreeningTitle   string    `json:"screeningTitle"`
	Quantity         int       `json:"quantity"`
	Tier             string    `json:"tier"`
	DiscountPercent  int64     `json:"discountPercent"`
	TotalDiscount    string    `json:"totalDiscount"`
	TotalPrice       string    `json:"totalPrice"`
	PaymentReference string    `json:"paymentReference"`
	PurchasedAt      time.Time `json:"purchasedAt"`
}
