package model

import "time"

// Booking statuses.  PENDING is transient; CONFIRMED and CANCELLED are
// terminal.  Exactly one CONFIRMED booking may exist per ticket, while
// any number of CANCELLED bookings form the retry history.
const (
    BookingPending   = "PENDING"
    BookingConfirmed = "CONFIRMED"
    BookingCancelled = "CANCELLED"
)

// Booking is the durable record of a purchase attempt and its outcome.
// Bookings are never physically deleted; failed attempts stay as
// CANCELLED rows for audit.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – buyer.
//  TicketID      – ticket being purchased.
//  AmountCents   – amount charged in cents.
//  PaymentMethod – method chosen by the buyer (e.g. "card").
//  PaymentRef    – gateway reference, set on confirmation.
//  Status        – PENDING, CONFIRMED or CANCELLED.
//  BookingTime   – when the purchase attempt started.
//  UpdatedAt     – last status change.
type Booking struct {
    ID            uint64    // bookings.id
    UserID        uint64    // bookings.user_id
    TicketID      uint64    // bookings.ticket_id
    AmountCents   uint32    // bookings.amount_cents
    PaymentMethod string    // bookings.payment_method
    PaymentRef    *string   // bookings.payment_ref (nullable)
    Status        string    // bookings.status
    BookingTime   time.Time // bookings.booking_time
    UpdatedAt     time.Time // bookings.updated_at
}
