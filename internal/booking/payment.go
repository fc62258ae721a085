package booking

import (
    "context"
    "errors"
    "fmt"
    "log"
    "time"

    "github.com/iliyamo/concert-ticket-reservation/internal/model"
)

// ChargeRequest is handed to the payment gateway.  Metadata carries
// gateway-specific extras; the simulated gateway reads the requested
// outcome from it, a real gateway would ignore it.
type ChargeRequest struct {
    UserID      uint64
    TicketID    uint64
    AmountCents uint32
    Method      string
    Metadata    map[string]string
}

// ChargeResult is the gateway's answer to a charge attempt.  Approved
// false means the charge was declined; transport or gateway failures
// are reported through the error return instead.
type ChargeResult struct {
    Approved  bool
    Reference string
}

// Gateway is the external payment collaborator.  Out of scope here; the
// production wiring uses the simulator in internal/payment.
type Gateway interface {
    Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

// Orchestrator drives the hold -> charge -> confirm/release sequence.
// Each step is individually atomic; a crash between steps leaves at
// worst a PENDING booking plus its hold, which Reconcile sweeps into a
// cancellation.
type Orchestrator struct {
    ledger       *Ledger
    reservations *ReservationManager
    gateway      Gateway
    now          func() time.Time
}

// NewOrchestrator wires the orchestrator from its collaborators.
func NewOrchestrator(ledger *Ledger, reservations *ReservationManager, gateway Gateway) *Orchestrator {
    if ledger == nil || reservations == nil || gateway == nil {
        panic("nil dependency passed to NewOrchestrator")
    }
    return &Orchestrator{
        ledger:       ledger,
        reservations: reservations,
        gateway:      gateway,
        now:          func() time.Time { return time.Now().UTC() },
    }
}

// WithClock replaces the orchestrator's clock.  Intended for tests.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
    o.now = now
    return o
}

// Process runs one payment attempt end to end:
//
//  1. open a PENDING booking, which verifies the caller's active hold
//  2. charge the gateway
//  3. approved  -> Confirm: ticket SOLD, booking CONFIRMED
//     declined  -> Cancel:  hold released, booking CANCELLED
//
// The returned booking's status tells the outcome.  A gateway transport
// failure cancels the pending booking and returns an error; the ticket
// is back to AVAILABLE so the user can retry.
func (o *Orchestrator) Process(ctx context.Context, userID, ticketID uint64, method string, amountCents uint32, meta map[string]string) (*model.Booking, error) {
    b, err := o.ledger.CreatePending(ctx, userID, ticketID, amountCents, method)
    if err != nil {
        return nil, err
    }
    res, err := o.gateway.Charge(ctx, ChargeRequest{
        UserID:      userID,
        TicketID:    ticketID,
        AmountCents: amountCents,
        Method:      method,
        Metadata:    meta,
    })
    if err != nil {
        if _, cErr := o.ledger.Cancel(ctx, b.ID); cErr != nil && !errors.Is(cErr, ErrInvalidState) {
            log.Printf("payment: cancel after gateway failure for booking %d: %v", b.ID, cErr)
        }
        return nil, fmt.Errorf("gateway charge: %w", err)
    }
    if !res.Approved {
        return o.ledger.Cancel(ctx, b.ID)
    }
    confirmed, err := o.ledger.Confirm(ctx, b.ID, res.Reference)
    if err != nil {
        // The charge went through but the confirm did not.  Void the
        // booking so Reconcile does not have to; the charge reversal
        // belongs to the gateway collaborator.
        if _, cErr := o.ledger.Cancel(ctx, b.ID); cErr != nil && !errors.Is(cErr, ErrInvalidState) {
            log.Printf("payment: cancel after confirm failure for booking %d: %v", b.ID, cErr)
        }
        return nil, err
    }
    return confirmed, nil
}

// Reconcile is the recovery pass for crashes mid-sequence: PENDING
// bookings older than pendingTTL are treated as failed and cancelled,
// which also releases any stale hold.  Expired holds without a booking
// are released as well.  Safe to run repeatedly; already-terminal
// bookings are skipped.
func (o *Orchestrator) Reconcile(ctx context.Context, pendingTTL time.Duration) (int, error) {
    store := o.ledger.store
    var stale []model.Booking
    err := runTx(ctx, store, func(tx StoreTx) error {
        var err error
        stale, err = tx.StalePendingBookings(ctx, o.now().Add(-pendingTTL))
        return err
    })
    if err != nil {
        return 0, err
    }
    cancelled := 0
    for _, b := range stale {
        if _, err := o.ledger.Cancel(ctx, b.ID); err != nil {
            if errors.Is(err, ErrInvalidState) {
                continue // confirmed or cancelled since the scan
            }
            return cancelled, err
        }
        cancelled++
    }
    if _, err := o.reservations.ExpireHolds(ctx); err != nil {
        return cancelled, err
    }
    return cancelled, nil
}
