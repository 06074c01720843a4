package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-club/internal/database/dbtest"
	"github.com/iliyamo/cinema-club/internal/model"
	"github.com/iliyamo/cinema-club/internal/pkg/clock"
	"github.com/iliyamo/cinema-club/internal/pricing"
	"github.com/iliyamo/cinema-club/internal/queue"
	"github.com/iliyamo/cinema-club/internal/repository"
)

var purchaseTime = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

type mockMembers struct{ mock.Mock }

func (m *mockMembers) GetByID(ctx context.Context, id uint64) (*model.Member, error) {
	args := m.Called(ctx, id)
	mem, _ := args.Get(0).(*model.Member)
	return mem, args.Error(1)
}

type mockScreenings struct{ mock.Mock }

func (m *mockScreenings) GetByID(ctx context.Context, id uint64) (*model.Screening, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*model.Screening)
	return s, args.Error(1)
}

type mockTickets struct{ mock.Mock }

func (m *mockTickets) Create(ctx context.Context, t *model.Ticket) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTickets) GetByID(ctx context.Context, id string) (*model.Ticket, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*model.Ticket)
	return t, args.Error(1)
}

func (m *mockTickets) Cancel(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTickets) MarkAttended(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishTicketPurchased(ctx context.Context, ev queue.TicketPurchasedEvent) error {
	return m.Called(ctx, ev).Error(0)
}

type fixture struct {
	members    *mockMembers
	screenings *mockScreenings
	tickets    *mockTickets
	events     *mockPublisher
	svc        *TicketService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		members:    &mockMembers{},
		screenings: &mockScreenings{},
		tickets:    &mockTickets{},
		events:     &mockPublisher{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewTicketService(f.members, f.screenings, f.tickets, f.events, clock.NewFixed(purchaseTime), logger)
	f.svc.newID = func() string { return "ticket-1" }
	t.Cleanup(func() {
		f.members.AssertExpectations(t)
		f.screenings.AssertExpectations(t)
		f.tickets.AssertExpectations(t)
		f.events.AssertExpectations(t)
	})
	return f
}

func patronAndScreening(f *fixture) {
	f.members.On("GetByID", mock.Anything, uint64(7)).
		Return(&model.Member{ID: 7, Name: "Ada", Tier: "Patron"}, nil)
	f.screenings.On("GetByID", mock.Anything, uint64(42)).
		Return(&model.Screening{ID: 42, Title: "Stalker", BasePrice: decimal.RequireFromString("15.00")}, nil)
}

func TestPurchase_PricesPersistsAndPublishes(t *testing.T) {
	f := newFixture(t)
	patronAndScreening(f)

	var stored *model.Ticket
	f.tickets.On("Create", mock.Anything, mock.AnythingOfType("*model.Ticket")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*model.Ticket) }).
		Return(nil)
	f.events.On("PublishTicketPurchased", mock.Anything, mock.MatchedBy(func(ev queue.TicketPurchasedEvent) bool {
		return ev.TicketID == "ticket-1" && ev.TotalPrice == "18.00" && ev.TotalDiscount == "12.00" &&
			ev.ScreeningTitle == "Stalker" && ev.PurchasedAt.Equal(purchaseTime)
	})).Return(nil)

	tk, err := f.svc.Purchase(context.Background(), PurchaseRequest{MemberID: 7, ScreeningID: 42, Quantity: 2, PaymentReference: "pay_1"})
	require.NoError(t, err)

	assert.Same(t, stored, tk)
	assert.Equal(t, "ticket-1", tk.ID)
	assert.Equal(t, "patron", tk.Tier)
	assert.Equal(t, int64(40), tk.DiscountPercent)
	assert.Equal(t, "18.00", tk.TotalPrice.StringFixed(2))
	assert.Equal(t, "12.00", tk.TotalDiscount.StringFixed(2))
	assert.Equal(t, model.TicketConfirmed, tk.Status)
	assert.False(t, tk.Attended)
	assert.True(t, tk.PurchaseDate.Equal(purchaseTime))
}

func TestPurchase_InvalidQuantityTouchesNoStore(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Purchase(context.Background(), PurchaseRequest{MemberID: 7, ScreeningID: 42, Quantity: 0})
	assert.ErrorIs(t, err, pricing.ErrInvalidQuantity)
}

func TestPurchase_UnknownMemberOrScreening(t *testing.T) {
	t.Run("member", func(t *testing.T) {
		f := newFixture(t)
		f.members.On("GetByID", mock.Anything, uint64(7)).Return(nil, repository.ErrNotFound)

		_, err := f.svc.Purchase(context.Background(), PurchaseRequest{MemberID: 7, ScreeningID: 42, Quantity: 1})
		assert.ErrorIs(t, err, ErrNotFound)
	})
	t.Run("screening", func(t *testing.T) {
		f := newFixture(t)
		f.members.On("GetByID", mock.Anything, uint64(7)).Return(&model.Member{ID: 7, Tier: "none"}, nil)
		f.screenings.On("GetByID", mock.Anything, uint64(42)).Return(nil, repository.ErrNotFound)

		_, err := f.svc.Purchase(context.Background(), PurchaseRequest{MemberID: 7, ScreeningID: 42, Quantity: 1})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPurchase_StoreFailureMeansNoTicketAndNoEvent(t *testing.T) {
	f := newFixture(t)
	patronAndScreening(f)
	f.tickets.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	tk, err := f.svc.Purchase(context.Background(), PurchaseRequest{MemberID: 7, ScreeningID: 42, Quantity: 1})
	assert.Nil(t, tk)
	assert.ErrorIs(t, err, ErrPurchaseFailed)
	f.events.AssertNotCalled(t, "PublishTicketPurchased", mock.Anything, mock.Anything)
}

func TestPurchase_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	patronAndScreening(f)
	f.tickets.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.events.On("PublishTicketPurchased", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	tk, err := f.svc.Purchase(context.Background(), PurchaseRequest{MemberID: 7, ScreeningID: 42, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, "9.00", tk.TotalPrice.StringFixed(2))
}

func TestTransitions_MapStoreErrors(t *testing.T) {
	f := newFixture(t)
	f.tickets.On("Cancel", mock.Anything, "gone").Return(repository.ErrNotFound)
	f.tickets.On("Cancel", mock.Anything, "done").Return(repository.ErrConflict)
	f.tickets.On("MarkAttended", mock.Anything, "done").Return(repository.ErrConflict)
	f.tickets.On("GetByID", mock.Anything, "gone").Return(nil, repository.ErrNotFound)

	_, err := f.svc.Cancel(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.Cancel(context.Background(), "done")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = f.svc.MarkAttended(context.Background(), "done")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = f.svc.Get(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTicketService_AgainstStore(t *testing.T) {
	db := dbtest.NewTestDB(t)
	_, err := db.Exec(`INSERT INTO members (id, email, name, tier, created_at) VALUES (1, 'a@example.org', 'Ada', 'family', ?)`, purchaseTime)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO screenings (id, title, slug, starts_at, base_price) VALUES (1, 'Stalker', 'stalker', ?, '11.11')`, purchaseTime.Add(time.Hour))
	require.NoError(t, err)

	svc := NewTicketService(repository.NewMemberRepo(db), repository.NewScreeningRepo(db), repository.NewTicketRepo(db),
		nil, clock.NewFixed(purchaseTime), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	tk, err := svc.Purchase(ctx, PurchaseRequest{MemberID: 1, ScreeningID: 1, Quantity: 3, PaymentReference: "pay_9"})
	require.NoError(t, err)
	assert.Equal(t, "23.33", tk.TotalPrice.StringFixed(2))
	assert.Equal(t, "10.00", tk.TotalDiscount.StringFixed(2))

	// a later tier change does not touch the stored snapshot
	_, err = db.Exec(`UPDATE members SET tier = 'lifetime' WHERE id = 1`)
	require.NoError(t, err)

	got, err := svc.Get(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30), got.DiscountPercent)
	assert.Equal(t, "23.33", got.TotalPrice.StringFixed(2))

	got, err = svc.MarkAttended(ctx, tk.ID)
	require.NoError(t, err)
	assert.True(t, got.Attended)

	got, err = svc.Cancel(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TicketCancelled, got.Status)

	_, err = svc.Cancel(ctx, tk.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
