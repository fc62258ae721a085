package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/concert-ticket-reservation/internal/model"
)

// BookingRepo provides the read side for bookings: the listings and
// detail views shown to buyers.  State transitions go through the
// booking core, never through this repository.
type BookingRepo struct {
    db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// BookingDetail joins a booking with its ticket, seat, concert, artist
// and venue for the booking detail view.
type BookingDetail struct {
    ID            uint64    `json:"id"`
    Status        string    `json:"status"`
    AmountCents   uint32    `json:"amount_cents"`
    PaymentMethod string    `json:"payment_method"`
    PaymentRef    *string   `json:"payment_ref,omitempty"`
    BookingTime   time.Time `json:"booking_time"`
    TicketID      uint64    `json:"ticket_id"`
    ConcertID     uint64    `json:"concert_id"`
    RowNo         uint32    `json:"row_no"`
    SeatNo        uint32    `json:"seat_no"`
    SeatType      string    `json:"seat_type"`
    ConcertTitle  string    `json:"concert_title"`
    ArtistName    string    `json:"artist_name"`
    VenueName     string    `json:"venue_name"`
    VenueLocation string    `json:"venue_location"`
    StartsAt      time.Time `json:"starts_at"`
}

const bookingDetailQuery = `
    SELECT b.id, b.status, b.amount_cents, b.payment_method, b.payment_ref, b.booking_time,
           t.id, c.id, s.row_no, s.seat_no, s.seat_type,
           c.title, a.artist_name, v.name, v.location, c.starts_at
    FROM bookings b
    JOIN tickets t ON t.id = b.ticket_id
    JOIN seats s ON s.id = t.seat_id
    JOIN concerts c ON c.id = t.concert_id
    JOIN artists a ON a.id = c.artist_id
    JOIN venues v ON v.id = c.venue_id`

// GetByIDForUser returns one booking detail restricted to its owner.
// Unknown id and foreign owner both come back as ErrNotFound, so the
// response does not leak whether the booking exists.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID, userID uint64) (*BookingDetail, error) {
    q := bookingDetailQuery + ` WHERE b.id = ? AND b.user_id = ?`
    var d BookingDetail
    var ref sql.NullString
    err := r.db.QueryRowContext(ctx, q, bookingID, userID).Scan(
        &d.ID, &d.Status, &d.AmountCents, &d.PaymentMethod, &ref, &d.BookingTime,
        &d.TicketID, &d.ConcertID, &d.RowNo, &d.SeatNo, &d.SeatType,
        &d.ConcertTitle, &d.ArtistName, &d.VenueName, &d.VenueLocation, &d.StartsAt,
    )
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    if ref.Valid {
        s := ref.String
        d.PaymentRef = &s
    }
    return &d, nil
}

// ListByUser returns all of a user's bookings newest first, including
// the cancelled retry history.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
    q := bookingDetailQuery + ` WHERE b.user_id = ? ORDER BY b.booking_time DESC`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]BookingDetail, 0)
    for rows.Next() {
        var d BookingDetail
        var ref sql.NullString
        if err := rows.Scan(
            &d.ID, &d.Status, &d.AmountCents, &d.PaymentMethod, &ref, &d.BookingTime,
            &d.TicketID, &d.ConcertID, &d.RowNo, &d.SeatNo, &d.SeatType,
            &d.ConcertTitle, &d.ArtistName, &d.VenueName, &d.VenueLocation, &d.StartsAt,
        ); err != nil {
            return nil, err
        }
        if ref.Valid {
            s := ref.String
            d.PaymentRef = &s
        }
        out = append(out, d)
    }
    return out, rows.Err()
}

// GetBooking returns a raw booking row, or model-level ErrNotFound.
func (r *BookingRepo) GetBooking(ctx context.Context, bookingID uint64) (*model.Booking, error) {
    const q = `SELECT id, user_id, ticket_id, amount_cents, payment_method, payment_ref, status, booking_time, updated_at
               FROM bookings WHERE id = ? LIMIT 1`
    var b model.Booking
    var ref sql.NullString
    err := r.db.QueryRowContext(ctx, q, bookingID).Scan(
        &b.ID, &b.UserID, &b.TicketID, &b.AmountCents, &b.PaymentMethod, &ref,
        &b.Status, &b.BookingTime, &b.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    if ref.Valid {
        s := ref.String
        b.PaymentRef = &s
    }
    return &b, nil
}
