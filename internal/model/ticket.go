package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TicketConfirmed = "confirmed"
	TicketCancelled = "cancelled"
)

// Ticket records one purchase of Quantity seats for a screening.
//
// DiscountPercent is a snapshot of the member's tier discount at purchase
// time. It is never recomputed when the member's tier changes later; the
// stored totals are what the member paid.
//
// Only Status and Attended change after creation.
type Ticket struct {
	ID               string          `json:"id"`               // tickets.id (uuid)
	MemberID         uint64          `json:"memberId"`         // tickets.member_id
	ScreeningID      uint64          `json:"screeningId"`      // tickets.screening_id
	Quantity         int             `json:"quantity"`         // tickets.quantity
	Tier             string          `json:"tier"`             // tickets.tier
	UnitBasePrice    decimal.Decimal `json:"unitBasePrice"`    // tickets.unit_base_price
	DiscountPercent  int64           `json:"discountPercent"`  // tickets.discount_percent
	TotalDiscount    decimal.Decimal `json:"totalDiscount"`    // tickets.total_discount
	TotalPrice       decimal.Decimal `json:"totalPrice"`       // tickets.total_price
	PurchaseDate     time.Time       `json:"purchaseDate"`     // tickets.purchase_date
	Status           string          `json:"status"`           // tickets.status
	Attended         bool            `json:"attended"`         // tickets.attended
	PaymentReference string          `json:"paymentReference"` // tickets.payment_reference
}
