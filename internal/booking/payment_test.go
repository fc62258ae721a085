package booking

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/mock"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/concert-ticket-reservation/internal/model"
)

type mockGateway struct {
    mock.Mock
}

func (m *mockGateway) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
    args := m.Called(ctx, req)
    return args.Get(0).(ChargeResult), args.Error(1)
}

func newPaymentRig(tickets ...*model.Ticket) (*memStore, *testClock, *ReservationManager, *mockGateway, *Orchestrator) {
    store := newMemStore(tickets...)
    clock := newTestClock()
    mgr := NewReservationManager(store).WithClock(clock.Now)
    ledger := NewLedger(store).WithClock(clock.Now)
    gw := &mockGateway{}
    orch := NewOrchestrator(ledger, mgr, gw).WithClock(clock.Now)
    return store, clock, mgr, gw, orch
}

func TestProcessSuccessfulPayment(t *testing.T) {
    store, _, mgr, gw, orch := newPaymentRig(availableTicket(101))
    ctx := context.Background()

    _, err := mgr.PlaceHold(ctx, 7, 101, holdTTL)
    require.NoError(t, err)

    gw.On("Charge", mock.Anything, mock.Anything).
        Return(ChargeResult{Approved: true, Reference: "pay-ref-1"}, nil).Once()

    b, err := orch.Process(ctx, 7, 101, "card", 5000, nil)
    require.NoError(t, err)
    assert.Equal(t, model.BookingConfirmed, b.Status)
    require.NotNil(t, b.PaymentRef)
    assert.Equal(t, "pay-ref-1", *b.PaymentRef)
    assert.Equal(t, model.TicketSold, store.ticket(101).Status)
    gw.AssertExpectations(t)
}

func TestProcessDeclinedPayment(t *testing.T) {
    store, _, mgr, gw, orch := newPaymentRig(availableTicket(101))
    ctx := context.Background()

    _, err := mgr.PlaceHold(ctx, 7, 101, holdTTL)
    require.NoError(t, err)

    gw.On("Charge", mock.Anything, mock.Anything).
        Return(ChargeResult{Approved: false}, nil).Once()

    b, err := orch.Process(ctx, 7, 101, "card", 5000, nil)
    require.NoError(t, err)
    assert.Equal(t, model.BookingCancelled, b.Status)
    assert.Equal(t, model.TicketAvailable, store.ticket(101).Status)
    assert.Nil(t, store.hold(101))
}

func TestProcessGatewayFailure(t *testing.T) {
    store, _, mgr, gw, orch := newPaymentRig(availableTicket(101))
    ctx := context.Background()

    _, err := mgr.PlaceHold(ctx, 7, 101, holdTTL)
    require.NoError(t, err)

    gw.On("Charge", mock.Anything, mock.Anything).
        Return(ChargeResult{}, errors.New("gateway down")).Once()

    _, err = orch.Process(ctx, 7, 101, "card", 5000, nil)
    require.Error(t, err)
    assert.False(t, IsDomainErr(err))

    // The pending booking was voided and the ticket freed for retry.
    assert.Equal(t, model.TicketAvailable, store.ticket(101).Status)
    assert.Nil(t, store.hold(101))
}

func TestProcessWithoutHold(t *testing.T) {
    _, _, _, gw, orch := newPaymentRig(availableTicket(101))

    _, err := orch.Process(context.Background(), 7, 101, "card", 5000, nil)
    assert.ErrorIs(t, err, ErrNoActiveHold)
    gw.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
}

func TestProcessPassesChargeDetails(t *testing.T) {
    _, _, mgr, gw, orch := newPaymentRig(availableTicket(101))
    ctx := context.Background()

    _, err := mgr.PlaceHold(ctx, 7, 101, holdTTL)
    require.NoError(t, err)

    gw.On("Charge", mock.Anything, mock.MatchedBy(func(req ChargeRequest) bool {
        return req.UserID == 7 && req.TicketID == 101 &&
            req.AmountCents == 5000 && req.Method == "card" &&
            req.Metadata["status"] == "success"
    })).Return(ChargeResult{Approved: true, Reference: "r"}, nil).Once()

    _, err = orch.Process(ctx, 7, 101, "card", 5000, map[string]string{"status": "success"})
    require.NoError(t, err)
    gw.AssertExpectations(t)
}

func TestReconcileCancelsStalePending(t *testing.T) {
    store, clock, mgr, gw, orch := newPaymentRig(availableTicket(101), availableTicket(102))
    ctx := context.Background()
    ledger := orch.ledger

    // Booking 1: stuck pending past the TTL (simulates a crash between
    // create and confirm/cancel).
    _, err := mgr.PlaceHold(ctx, 7, 101, time.Hour)
    require.NoError(t, err)
    b1, err := ledger.CreatePending(ctx, 7, 101, 5000, "card")
    require.NoError(t, err)

    clock.Advance(30 * time.Minute)

    // Booking 2: fresh pending, must be left alone.
    _, err = mgr.PlaceHold(ctx, 8, 102, time.Hour)
    require.NoError(t, err)
    b2, err := ledger.CreatePending(ctx, 8, 102, 5000, "card")
    require.NoError(t, err)

    n, err := orch.Reconcile(ctx, 15*time.Minute)
    require.NoError(t, err)
    assert.Equal(t, 1, n)

    assert.Equal(t, model.BookingCancelled, store.booking(b1.ID).Status)
    assert.Equal(t, model.TicketAvailable, store.ticket(101).Status)
    assert.Equal(t, model.BookingPending, store.booking(b2.ID).Status)
    assert.Equal(t, model.TicketHeld, store.ticket(102).Status)

    // Running again finds nothing new.
    n, err = orch.Reconcile(ctx, 15*time.Minute)
    require.NoError(t, err)
    assert.Zero(t, n)
    gw.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
}

func TestReconcileReleasesExpiredHolds(t *testing.T) {
    store, clock, mgr, _, orch := newPaymentRig(availableTicket(101))
    ctx := context.Background()

    _, err := mgr.PlaceHold(ctx, 7, 101, holdTTL)
    require.NoError(t, err)
    clock.Advance(holdTTL + time.Second)

    _, err = orch.Reconcile(ctx, 15*time.Minute)
    require.NoError(t, err)
    assert.Equal(t, model.TicketAvailable, store.ticket(101).Status)
    assert.Nil(t, store.hold(101))
}
