// Package service holds the ticketing workflow: it looks up the member and
// screening, prices the purchase, persists the ticket and announces it.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/iliyamo/cinema-club/internal/model"
	"github.com/iliyamo/cinema-club/internal/pkg/clock"
	"github.com/iliyamo/cinema-club/internal/pricing"
	"github.com/iliyamo/cinema-club/internal/queue"
	"github.com/iliyamo/cinema-club/internal/repository"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid ticket state transition")
	ErrPurchaseFailed    = errors.New("purchase failed")
)

type MemberStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Member, error)
}

type ScreeningStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Screening, error)
}

type TicketStore interface {
	Create(ctx context.Context, t *model.Ticket) error
	GetByID(ctx context.Context, id string) (*model.Ticket, error)
	Cancel(ctx context.Context, id string) error
	MarkAttended(ctx context.Context, id string) error
}

type EventPublisher interface {
	PublishTicketPurchased(ctx context.Context, ev queue.TicketPurchasedEvent) error
}

// PurchaseRequest is a validated purchase intent.
type PurchaseRequest struct {
	MemberID         uint64
	ScreeningID      uint64
	Quantity         int
	PaymentReference string
}

// TicketService coordinates purchases and ticket state changes.
type TicketService struct {
	members    MemberStore
	screenings ScreeningStore
	tickets    TicketStore
	events     EventPublisher
	pricing    *pricing.Engine
	clock      clock.Clock
	log        *slog.Logger
	newID      func() string
}

// NewTicketService wires a TicketService. events may be nil, in which case
// no purchase events are published.
func NewTicketService(members MemberStore, screenings ScreeningStore, tickets TicketStore,
	events EventPublisher, c clock.Clock, logger *slog.Logger) *TicketService {
	if c == nil {
		c = clock.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TicketService{
		members:    members,
		screenings: screenings,
		tickets:    tickets,
		events:     events,
		pricing:    pricing.NewEngine(),
		clock:      c,
		log:        logger,
		newID:      uuid.NewString,
	}
}

// Purchase prices and records a ticket. The quantity is checked before any
// store call; the ticket is a single INSERT, so on any error no ticket
// exists. A failure to publish the purchase event is logged, not returned.
func (s *TicketService) Purchase(ctx context.Context, req PurchaseRequest) (*model.Ticket, error) {
	if req.Quantity <= 0 {
		return nil, pricing.ErrInvalidQuantity
	}

	member, err := s.members.GetByID(ctx, req.MemberID)
	if err != nil {
		return nil, lookupErr("member", req.MemberID, err)
	}
	screening, err := s.screenings.GetByID(ctx, req.ScreeningID)
	if err != nil {
		return nil, lookupErr("screening", req.ScreeningID, err)
	}

	quote, err := s.pricing.Price(screening.BasePrice, pricing.Tier(member.Tier), req.Quantity)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidQuantity) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: price screening %d: %w", ErrPurchaseFailed, screening.ID, err)
	}

	ticket := &model.Ticket{
		ID:               s.newID(),
		MemberID:         member.ID,
		ScreeningID:      screening.ID,
		Quantity:         quote.Quantity,
		Tier:             string(quote.Tier),
		UnitBasePrice:    quote.UnitBasePrice,
		DiscountPercent:  quote.UnitDiscountPercent,
		TotalDiscount:    quote.TotalDiscount,
		TotalPrice:       quote.TotalPrice,
		PurchaseDate:     s.clock.Now(),
		Status:           model.TicketConfirmed,
		PaymentReference: req.PaymentReference,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("%w: store ticket: %w", ErrPurchaseFailed, err)
	}

	s.log.InfoContext(ctx, "ticket purchased",
		"ticket_id", ticket.ID,
		"member_id", ticket.MemberID,
		"screening_id", ticket.ScreeningID,
		"quantity", ticket.Quantity,
		"tier", ticket.Tier,
		"total_price", ticket.TotalPrice.StringFixed(2),
	)

	if s.events != nil {
		ev := queue.TicketPurchasedEvent{
			TicketID:         ticket.ID,
			MemberID:         ticket.MemberID,
			ScreeningID:      ticket.ScreeningID,
			ScreeningTitle:   screening.Title,
			Quantity:         ticket.Quantity,
			Tier:             ticket.Tier,
			DiscountPercent:  ticket.DiscountPercent,
			TotalDiscount:    ticket.TotalDiscount.StringFixed(2),
			TotalPrice:       ticket.TotalPrice.StringFixed(2),
			PaymentReference: ticket.PaymentReference,
			PurchasedAt:      ticket.PurchaseDate,
		}
		if err := s.events.PublishTicketPurchased(ctx, ev); err != nil {
			s.log.WarnContext(ctx, "ticket event not published", "ticket_id", ticket.ID, "error", err)
		}
	}
	return ticket, nil
}

// Get returns a ticket by id.
func (s *TicketService) Get(ctx context.Context, id string) (*model.Ticket, error) {
	t, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, ticketErr(id, err)
	}
	return t, nil
}

// Cancel moves a confirmed ticket to cancelled and returns the new state.
func (s *TicketService) Cancel(ctx context.Context, id string) (*model.Ticket, error) {
	if err := s.tickets.Cancel(ctx, id); err != nil {
		return nil, ticketErr(id, err)
	}
	s.log.InfoContext(ctx, "ticket cancelled", "ticket_id", id)
	return s.Get(ctx, id)
}

// MarkAttended records attendance on a confirmed ticket. It does not check
// the screening time.
func (s *TicketService) MarkAttended(ctx context.Context, id string) (*model.Ticket, error) {
	if err := s.tickets.MarkAttended(ctx, id); err != nil {
		return nil, ticketErr(id, err)
	}
	return s.Get(ctx, id)
}

func lookupErr(kind string, id uint64, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
	}
	return fmt.Errorf("%w: load %s %d: %w", ErrPurchaseFailed, kind, id, err)
}

func ticketErr(id string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: ticket %s", ErrNotFound, id)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: ticket %s", ErrInvalidTransition, id)
	}
	return fmt.Errorf("ticket %s: %w", id, err)
}
