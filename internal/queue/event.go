// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a ticket purchase is confirmed.
// It carries enough information for downstream consumers to log, notify,
// or feed analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID     uint64 `json:"booking_id"`
	UserID        uint64 `json:"user_id"`
	TicketID      uint64 `json:"ticket_id"`
	ConcertID     uint64 `json:"concert_id"`
	ConcertTitle  string `json:"concert_title"`
	ArtistName    string `json:"artist_name"`
	VenueName     string `json:"venue_name"`
	SeatLabel     string `json:"seat"`
	AmountCents   uint32 `json:"amount_cents"`
	PaymentRef    string `json:"payment_ref"`
	ConfirmedAt   string `json:"confirmed_at"`
}
