// Package booking implements the ticket reservation and booking
// lifecycle: timed holds on tickets, the booking ledger that records
// purchase attempts, and the payment orchestration that moves a ticket
// from AVAILABLE through HELD to SOLD or back.  All state transitions
// run inside a single store transaction with a row lock on the target
// ticket, so concurrent requests cannot both succeed in claiming it.
package booking

import "errors"

// Sentinel errors returned by the booking components.  Handlers compare
// with errors.Is and translate each into an HTTP status.  Everything
// here is recoverable at the caller; only ErrUnavailable indicates a
// storage problem rather than a domain outcome.
var (
    // ErrTicketNotFound is returned when the ticket id is unknown.
    ErrTicketNotFound = errors.New("ticket not found")

    // ErrBookingNotFound is returned when the booking id is unknown.
    ErrBookingNotFound = errors.New("booking not found")

    // ErrAlreadyHeld is returned when another user has an unexpired
    // hold on the ticket.
    ErrAlreadyHeld = errors.New("ticket already held by another user")

    // ErrAlreadySold is returned when the ticket has been sold.
    ErrAlreadySold = errors.New("ticket already sold")

    // ErrNoActiveHold is returned when a payment is attempted without
    // the caller holding the ticket.
    ErrNoActiveHold = errors.New("no active hold on ticket")

    // ErrInvalidState is returned on an illegal transition, e.g.
    // confirming a booking that is not pending.
    ErrInvalidState = errors.New("invalid state transition")

    // ErrConflict is returned when confirming would create a second
    // confirmed booking for the same ticket.
    ErrConflict = errors.New("conflicting confirmed booking")

    // ErrUnavailable is returned after the storage layer failed twice
    // in a row.  Distinct from the domain errors above so callers can
    // tell "try again" from "this ticket is unavailable".
    ErrUnavailable = errors.New("storage unavailable")
)

// domainErrs lists the outcomes that must not trigger a transaction
// retry: the transaction rolled back for a business reason, not a
// storage failure.
var domainErrs = []error{
    ErrTicketNotFound,
    ErrBookingNotFound,
    ErrAlreadyHeld,
    ErrAlreadySold,
    ErrNoActiveHold,
    ErrInvalidState,
    ErrConflict,
}

// IsDomainErr reports whether err is one of the booking domain errors.
func IsDomainErr(err error) bool {
    for _, d := range domainErrs {
        if errors.Is(err, d) {
            return true
        }
    }
    return false
}
