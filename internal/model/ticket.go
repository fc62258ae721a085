package model

import "time"

// Ticket statuses.  A ticket moves AVAILABLE -> HELD -> SOLD on a
// successful purchase and HELD -> AVAILABLE when a hold is released or
// expires.  SOLD is terminal while the concert exists.
const (
    TicketAvailable = "AVAILABLE"
    TicketHeld      = "HELD"
    TicketSold      = "SOLD"
)

// Ticket is the sellable unit: one seat at one concert.  At most one
// active hold or sale exists per ticket at any time.
//
// Fields:
//  ID         – primary key identifier.
//  ConcertID  – concert this ticket belongs to.
//  SeatID     – seat this ticket covers.
//  PriceCents – price in cents, fixed at generation time by seat tier.
//  Status     – AVAILABLE, HELD or SOLD.
//  CreatedAt  – when the ticket was generated.
//  UpdatedAt  – last status change.
type Ticket struct {
    ID         uint64    // tickets.id
    ConcertID  uint64    // tickets.concert_id
    SeatID     uint64    // tickets.seat_id
    PriceCents uint32    // tickets.price_cents
    Status     string    // tickets.status
    CreatedAt  time.Time // tickets.created_at
    UpdatedAt  time.Time // tickets.updated_at
}
