package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-club/internal/middleware"
	"github.com/iliyamo/cinema-club/internal/model"
	"github.com/iliyamo/cinema-club/internal/service"
)

// TicketService is the part of service.TicketService the handlers use.
type TicketService interface {
	Purchase(ctx context.Context, req service.PurchaseRequest) (*model.Ticket, error)
	Get(ctx context.Context, id string) (*model.Ticket, error)
	Cancel(ctx context.Context, id string) (*model.Ticket, error)
	MarkAttended(ctx context.Context, id string) (*model.Ticket, error)
}

// TicketHandler serves the ticket endpoints. All routes sit behind JWTAuth.
type TicketHandler struct {
	svc TicketService
	log *slog.Logger
}

func NewTicketHandler(svc TicketService, log *slog.Logger) *TicketHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TicketHandler{svc: svc, log: log}
}

type purchaseRequest struct {
	MemberID         uint64 `json:"memberId" validate:"required"`
	ScreeningID      uint64 `json:"screeningId" validate:"required"`
	Quantity         int    `json:"quantity"`
	PaymentReference string `json:"paymentReference" validate:"max=128"`
}

type purchaseResponse struct {
	TicketID        string      `json:"ticketId"`
	TotalPrice      json.Number `json:"totalPrice"`
	DiscountApplied json.Number `json:"discountApplied"`
	DiscountPercent int64       `json:"discountPercent"`
}

// ticketView renders money as two-decimal JSON numbers.
type ticketView struct {
	ID               string      `json:"id"`
	MemberID         uint64      `json:"memberId"`
	ScreeningID      uint64      `json:"screeningId"`
	Quantity         int         `json:"quantity"`
	Tier             string      `json:"tier"`
	UnitBasePrice    json.Number `json:"unitBasePrice"`
	DiscountPercent  int64       `json:"discountPercent"`
	TotalDiscount    json.Number `json:"totalDiscount"`
	TotalPrice       json.Number `json:"totalPrice"`
	PurchaseDate     time.Time   `json:"purchaseDate"`
	Status           string      `json:"status"`
	Attended         bool        `json:"attended"`
	PaymentReference string      `json:"paymentReference"`
}

func viewOf(t *model.Ticket) ticketView {
	return ticketView{
		ID:               t.ID,
		MemberID:         t.MemberID,
		ScreeningID:      t.ScreeningID,
		Quantity:         t.Quantity,
		Tier:             t.Tier,
		UnitBasePrice:    json.Number(t.UnitBasePrice.StringFixed(2)),
		DiscountPercent:  t.DiscountPercent,
		TotalDiscount:    json.Number(t.TotalDiscount.StringFixed(2)),
		TotalPrice:       json.Number(t.TotalPrice.StringFixed(2)),
		PurchaseDate:     t.PurchaseDate,
		Status:           t.Status,
		Attended:         t.Attended,
		PaymentReference: t.PaymentReference,
	}
}

// Purchase handles POST /api/tickets. Members may only buy for themselves;
// admins may buy on behalf of any member.
func (h *TicketHandler) Purchase(c echo.Context) error {
	var req purchaseRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, h.log, fmt.Errorf("%w: malformed JSON body", errInvalidRequest))
	}
	req.PaymentReference = strings.TrimSpace(req.PaymentReference)
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.log, err)
	}
	if caller, _ := middleware.MemberID(c); !middleware.IsAdmin(c) && caller != req.MemberID {
		return errorBody(c, http.StatusForbidden, "forbidden", "members may only purchase tickets for themselves")
	}

	t, err := h.svc.Purchase(c.Request().Context(), service.PurchaseRequest{
		MemberID:         req.MemberID,
		ScreeningID:      req.ScreeningID,
		Quantity:         req.Quantity,
		PaymentReference: req.PaymentReference,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(http.StatusCreated, purchaseResponse{
		TicketID:        t.ID,
		TotalPrice:      json.Number(t.TotalPrice.StringFixed(2)),
		DiscountApplied: json.Number(t.TotalDiscount.StringFixed(2)),
		DiscountPercent: t.DiscountPercent,
	})
}

// Get handles GET /api/tickets/:id. A member sees only their own tickets;
// someone else's ticket is reported as not found.
func (h *TicketHandler) Get(c echo.Context) error {
	t, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	if caller, _ := middleware.MemberID(c); !middleware.IsAdmin(c) && caller != t.MemberID {
		return errorBody(c, http.StatusNotFound, "not_found", "ticket not found")
	}
	return c.JSON(http.StatusOK, viewOf(t))
}

// Cancel handles POST /api/admin/tickets/:id/cancel.
func (h *TicketHandler) Cancel(c echo.Context) error {
	t, err := h.svc.Cancel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, viewOf(t))
}

// MarkAttended handles POST /api/admin/tickets/:id/attended.
func (h *TicketHandler) MarkAttended(c echo.Context) error {
	t, err := h.svc.MarkAttended(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, viewOf(t))
}
