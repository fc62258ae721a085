package booking

import (
    "context"
    "time"

    "github.com/iliyamo/concert-ticket-reservation/internal/model"
)

// Ledger records payment attempts and finalized bookings.  It enforces
// at most one CONFIRMED booking per ticket; CANCELLED rows accumulate
// as the retry history and are never deleted.
type Ledger struct {
    store Store
    now   func() time.Time
}

// NewLedger returns a Ledger bound to the given store.
func NewLedger(store Store) *Ledger {
    if store == nil {
        panic("nil store passed to NewLedger")
    }
    return &Ledger{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the ledger's clock.  Intended for tests.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
    l.now = now
    return l
}

// CreatePending opens a PENDING booking for a ticket the caller
// currently holds.  Returns ErrNoActiveHold when the caller has no
// unexpired hold on the ticket, ErrTicketNotFound for unknown tickets.
func (l *Ledger) CreatePending(ctx context.Context, userID, ticketID uint64, amountCents uint32, method string) (*model.Booking, error) {
    var b *model.Booking
    err := runTx(ctx, l.store, func(tx StoreTx) error {
        now := l.now()
        if _, err := tx.TicketForUpdate(ctx, ticketID); err != nil {
            return err
        }
        h, err := tx.Hold(ctx, ticketID)
        if err != nil {
            return err
        }
        if !h.Active(now) || h.UserID != userID {
            return ErrNoActiveHold
        }
        b = &model.Booking{
            UserID:        userID,
            TicketID:      ticketID,
            AmountCents:   amountCents,
            PaymentMethod: method,
            Status:        model.BookingPending,
            BookingTime:   now,
            UpdatedAt:     now,
        }
        return tx.InsertBooking(ctx, b)
    })
    if err != nil {
        return nil, err
    }
    return b, nil
}

// Confirm finalizes a PENDING booking: the ticket is marked SOLD, the
// hold is consumed and the booking becomes CONFIRMED with the gateway
// reference attached.  Returns ErrInvalidState when the booking is not
// pending (so confirming twice is rejected, never double-marks) and
// ErrConflict when another CONFIRMED booking already exists for the
// ticket.  The conflict check is defensive: hold exclusivity should
// make it structurally impossible.
func (l *Ledger) Confirm(ctx context.Context, bookingID uint64, paymentRef string) (*model.Booking, error) {
    var b *model.Booking
    err := runTx(ctx, l.store, func(tx StoreTx) error {
        var err error
        b, err = tx.BookingForUpdate(ctx, bookingID)
        if err != nil {
            return err
        }
        if b.Status != model.BookingPending {
            return ErrInvalidState
        }
        dup, err := tx.HasConfirmedBooking(ctx, b.TicketID, b.ID)
        if err != nil {
            return err
        }
        if dup {
            return ErrConflict
        }
        t, err := tx.TicketForUpdate(ctx, b.TicketID)
        if err != nil {
            return err
        }
        if t.Status != model.TicketHeld {
            return ErrInvalidState
        }
        if err := tx.UpdateTicketStatus(ctx, b.TicketID, model.TicketSold); err != nil {
            return err
        }
        if err := tx.DeleteHold(ctx, b.TicketID); err != nil {
            return err
        }
        ref := paymentRef
        if err := tx.UpdateBookingStatus(ctx, b.ID, model.BookingConfirmed, &ref); err != nil {
            return err
        }
        b.Status = model.BookingConfirmed
        b.PaymentRef = &ref
        b.UpdatedAt = l.now()
        return nil
    })
    if err != nil {
        return nil, err
    }
    return b, nil
}

// Cancel voids a PENDING booking and releases the hold so the ticket
// returns to AVAILABLE (unless it was already sold through another
// path).  Returns ErrInvalidState when the booking is not pending.
func (l *Ledger) Cancel(ctx context.Context, bookingID uint64) (*model.Booking, error) {
    var b *model.Booking
    err := runTx(ctx, l.store, func(tx StoreTx) error {
        var err error
        b, err = tx.BookingForUpdate(ctx, bookingID)
        if err != nil {
            return err
        }
        if b.Status != model.BookingPending {
            return ErrInvalidState
        }
        t, err := tx.TicketForUpdate(ctx, b.TicketID)
        if err != nil {
            return err
        }
        if err := tx.DeleteHold(ctx, b.TicketID); err != nil {
            return err
        }
        if t.Status == model.TicketHeld {
            if err := tx.UpdateTicketStatus(ctx, b.TicketID, model.TicketAvailable); err != nil {
                return err
            }
        }
        if err := tx.UpdateBookingStatus(ctx, b.ID, model.BookingCancelled, nil); err != nil {
            return err
        }
        b.Status = model.BookingCancelled
        b.UpdatedAt = l.now()
        return nil
    })
    if err != nil {
        return nil, err
    }
    return b, nil
}
