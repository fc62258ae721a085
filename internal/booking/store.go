package booking

import (
    "context"
    "fmt"
    "time"

    "github.com/iliyamo/concert-ticket-reservation/internal/model"
)

// Store is the transactional persistence contract the booking
// components run on.  The production implementation wraps MySQL
// (internal/repository); tests supply an in-memory implementation.
// InTx must execute fn atomically: when fn returns an error the whole
// transaction rolls back with no side effect left applied.
type Store interface {
    InTx(ctx context.Context, fn func(tx StoreTx) error) error
}

// StoreTx exposes the row-level operations available inside a
// transaction.  TicketForUpdate and BookingForUpdate must take a
// row lock (or an equivalent optimistic-concurrency guard) so that two
// concurrent transactions cannot both act on the same ticket.
type StoreTx interface {
    // TicketForUpdate loads a ticket and locks its row for the rest of
    // the transaction.  Returns ErrTicketNotFound for unknown ids.
    TicketForUpdate(ctx context.Context, ticketID uint64) (*model.Ticket, error)

    // UpdateTicketStatus sets the ticket status.  Callers are expected
    // to have locked the row via TicketForUpdate first.
    UpdateTicketStatus(ctx context.Context, ticketID uint64, status string) error

    // Hold returns the hold row for a ticket, expired or not, or nil
    // when none exists.  At most one row exists per ticket.
    Hold(ctx context.Context, ticketID uint64) (*model.Hold, error)

    // UpsertHold creates the hold row for a ticket or refreshes its
    // owner and expiry when one already exists.
    UpsertHold(ctx context.Context, h *model.Hold) error

    // DeleteHold removes the hold row for a ticket.  Deleting a
    // nonexistent hold is not an error.
    DeleteHold(ctx context.Context, ticketID uint64) error

    // ExpiredHolds returns all holds whose expiry has passed at now.
    ExpiredHolds(ctx context.Context, now time.Time) ([]model.Hold, error)

    // InsertBooking stores a new booking and populates its ID.
    InsertBooking(ctx context.Context, b *model.Booking) error

    // BookingForUpdate loads a booking and locks its row.  Returns
    // ErrBookingNotFound for unknown ids.
    BookingForUpdate(ctx context.Context, bookingID uint64) (*model.Booking, error)

    // UpdateBookingStatus sets the booking status and, when ref is
    // non-nil, the payment reference.
    UpdateBookingStatus(ctx context.Context, bookingID uint64, status string, ref *string) error

    // HasConfirmedBooking reports whether a CONFIRMED booking exists
    // for the ticket, excluding the given booking id.
    HasConfirmedBooking(ctx context.Context, ticketID, excludeBookingID uint64) (bool, error)

    // StalePendingBookings returns PENDING bookings started at or
    // before the cutoff, for the reconciliation sweep.
    StalePendingBookings(ctx context.Context, cutoff time.Time) ([]model.Booking, error)
}

// runTx executes fn in a transaction, retrying once when the failure is
// not a domain outcome.  The transaction must have rolled back fully
// before the retry, which Store.InTx guarantees.  A second failure is
// reported as ErrUnavailable with the underlying cause attached.
func runTx(ctx context.Context, store Store, fn func(tx StoreTx) error) error {
    err := store.InTx(ctx, fn)
    if err == nil || IsDomainErr(err) {
        return err
    }
    if err = store.InTx(ctx, fn); err == nil || IsDomainErr(err) {
        return err
    }
    return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
