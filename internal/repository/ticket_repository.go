package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/cinema-club/internal/model"
)

// TicketRepo persists purchased tickets. A ticket is written once by
// Create; afterwards only its status and attended flag change, each
// through a conditional UPDATE so concurrent transitions cannot both win.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketColumns = `id, member_id, screening_id, quantity, tier, unit_base_price, discount_percent,
	total_discount, total_price, purchase_date, status, attended, payment_reference`

// Create inserts t as a single row. The caller assigns the id.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	const q = `INSERT INTO tickets (` + ticketColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		t.ID, t.MemberID, t.ScreeningID, t.Quantity, t.Tier, t.UnitBasePrice, t.DiscountPercent,
		t.TotalDiscount, t.TotalPrice, t.PurchaseDate.UTC(), t.Status, t.Attended, t.PaymentReference,
	)
	return err
}

// GetByID returns ErrNotFound when no ticket has the given id.
func (r *TicketRepo) GetByID(ctx context.Context, id string) (*model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`
	var t model.Ticket
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.MemberID, &t.ScreeningID, &t.Quantity, &t.Tier, &t.UnitBasePrice, &t.DiscountPercent,
		&t.TotalDiscount, &t.TotalPrice, &t.PurchaseDate, &t.Status, &t.Attended, &t.PaymentReference,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	t.PurchaseDate = t.PurchaseDate.UTC()
	return &t, nil
}

// Cancel moves a confirmed ticket to cancelled. It returns ErrNotFound for
// an unknown id and ErrConflict if the ticket is not confirmed.
func (r *TicketRepo) Cancel(ctx context.Context, id string) error {
	const q = `UPDATE tickets SET status = ? WHERE id = ? AND status = ?`
	return r.transition(ctx, id, q, model.TicketCancelled, id, model.TicketConfirmed)
}

// MarkAttended records attendance on a confirmed ticket. Marking an
// already attended ticket again is a no-op.
func (r *TicketRepo) MarkAttended(ctx context.Context, id string) error {
	const q = `UPDATE tickets SET attended = ? WHERE id = ? AND status = ?`
	return r.transition(ctx, id, q, true, id, model.TicketConfirmed)
}

func (r *TicketRepo) transition(ctx context.Context, id, q string, args ...any) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	// Nothing changed: MySQL reports zero affected rows for an UPDATE that
	// matched but left the row as it was, so look at the current state.
	var status string
	err = r.db.QueryRowContext(ctx, `SELECT status FROM tickets WHERE id = ?`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if status == model.TicketConfirmed {
		return nil
	}
	return ErrConflict
}
