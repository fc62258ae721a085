package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/concert-ticket-reservation/internal/booking"
    "github.com/iliyamo/concert-ticket-reservation/internal/model"
)

// Store is the MySQL implementation of booking.Store.  Each InTx call
// runs in its own database transaction; the booking components lock the
// target ticket row with SELECT ... FOR UPDATE so concurrent requests
// serialize per ticket.  Lock waits are bounded by the session
// innodb_lock_wait_timeout set in the DSN, so contention surfaces as an
// error (and ultimately ErrUnavailable) instead of a deadlock.
type Store struct {
    db *sql.DB
}

// NewStore returns a Store bound to the provided database.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// InTx runs fn inside a transaction, committing on success and rolling
// back on any error so no partial transition is ever left applied.
func (s *Store) InTx(ctx context.Context, fn func(tx booking.StoreTx) error) error {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := fn(&storeTx{tx: tx}); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

type storeTx struct {
    tx *sql.Tx
}

func (s *storeTx) TicketForUpdate(ctx context.Context, ticketID uint64) (*model.Ticket, error) {
    const q = `SELECT id, concert_id, seat_id, price_cents, status, created_at, updated_at
               FROM tickets WHERE id = ? FOR UPDATE`
    var t model.Ticket
    err := s.tx.QueryRowContext(ctx, q, ticketID).Scan(
        &t.ID, &t.ConcertID, &t.SeatID, &t.PriceCents, &t.Status, &t.CreatedAt, &t.UpdatedAt,
    )
    if errors.Is(err, sql.ErrNoRows) {
        return nil, booking.ErrTicketNotFound
    }
    if err != nil {
        return nil, err
    }
    return &t, nil
}

func (s *storeTx) UpdateTicketStatus(ctx context.Context, ticketID uint64, status string) error {
    _, err := s.tx.ExecContext(ctx,
        `UPDATE tickets SET status = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`,
        status, ticketID)
    return err
}

func (s *storeTx) Hold(ctx context.Context, ticketID uint64) (*model.Hold, error) {
    const q = `SELECT ticket_id, user_id, expires_at, created_at
               FROM ticket_holds WHERE ticket_id = ?`
    var h model.Hold
    err := s.tx.QueryRowContext(ctx, q, ticketID).Scan(&h.TicketID, &h.UserID, &h.ExpiresAt, &h.CreatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    return &h, nil
}

func (s *storeTx) UpsertHold(ctx context.Context, h *model.Hold) error {
    // ticket_id is the primary key, so a same-user refresh and a claim
    // over an expired hold both resolve to an update of the single row.
    const q = `INSERT INTO ticket_holds (ticket_id, user_id, expires_at)
               VALUES (?, ?, ?)
               ON DUPLICATE KEY UPDATE user_id = VALUES(user_id), expires_at = VALUES(expires_at)`
    _, err := s.tx.ExecContext(ctx, q, h.TicketID, h.UserID, h.ExpiresAt.UTC().Format("2006-01-02 15:04:05"))
    return err
}

func (s *storeTx) DeleteHold(ctx context.Context, ticketID uint64) error {
    _, err := s.tx.ExecContext(ctx, `DELETE FROM ticket_holds WHERE ticket_id = ?`, ticketID)
    return err
}

func (s *storeTx) ExpiredHolds(ctx context.Context, now time.Time) ([]model.Hold, error) {
    const q = `SELECT ticket_id, user_id, expires_at, created_at
               FROM ticket_holds WHERE expires_at <= ?`
    rows, err := s.tx.QueryContext(ctx, q, now.UTC().Format("2006-01-02 15:04:05"))
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var holds []model.Hold
    for rows.Next() {
        var h model.Hold
        if err := rows.Scan(&h.TicketID, &h.UserID, &h.ExpiresAt, &h.CreatedAt); err != nil {
            return nil, err
        }
        holds = append(holds, h)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return holds, nil
}

func (s *storeTx) InsertBooking(ctx context.Context, b *model.Booking) error {
    const q = `INSERT INTO bookings (user_id, ticket_id, amount_cents, payment_method, status)
               VALUES (?, ?, ?, ?, ?)`
    res, err := s.tx.ExecContext(ctx, q, b.UserID, b.TicketID, b.AmountCents, b.PaymentMethod, b.Status)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    return nil
}

func (s *storeTx) BookingForUpdate(ctx context.Context, bookingID uint64) (*model.Booking, error) {
    const q = `SELECT id, user_id, ticket_id, amount_cents, payment_method, payment_ref, status, booking_time, updated_at
               FROM bookings WHERE id = ? FOR UPDATE`
    var b model.Booking
    var ref sql.NullString
    err := s.tx.QueryRowContext(ctx, q, bookingID).Scan(
        &b.ID, &b.UserID, &b.TicketID, &b.AmountCents, &b.PaymentMethod, &ref,
        &b.Status, &b.BookingTime, &b.UpdatedAt,
    )
    if errors.Is(err, sql.ErrNoRows) {
        return nil, booking.ErrBookingNotFound
    }
    if err != nil {
        return nil, err
    }
    if ref.Valid {
        r := ref.String
        b.PaymentRef = &r
    }
    return &b, nil
}

func (s *storeTx) UpdateBookingStatus(ctx context.Context, bookingID uint64, status string, ref *string) error {
    if ref != nil {
        _, err := s.tx.ExecContext(ctx,
            `UPDATE bookings SET status = ?, payment_ref = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`,
            status, *ref, bookingID)
        return err
    }
    _, err := s.tx.ExecContext(ctx,
        `UPDATE bookings SET status = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`,
        status, bookingID)
    return err
}

func (s *storeTx) HasConfirmedBooking(ctx context.Context, ticketID, excludeBookingID uint64) (bool, error) {
    const q = `SELECT EXISTS(
                   SELECT 1 FROM bookings
                   WHERE ticket_id = ? AND id <> ? AND status = ?
               )`
    var exists bool
    err := s.tx.QueryRowContext(ctx, q, ticketID, excludeBookingID, model.BookingConfirmed).Scan(&exists)
    return exists, err
}

func (s *storeTx) StalePendingBookings(ctx context.Context, cutoff time.Time) ([]model.Booking, error) {
    const q = `SELECT id, user_id, ticket_id, amount_cents, payment_method, status, booking_time, updated_at
               FROM bookings WHERE status = ? AND booking_time <= ?`
    rows, err := s.tx.QueryContext(ctx, q, model.BookingPending, cutoff.UTC().Format("2006-01-02 15:04:05"))
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Booking
    for rows.Next() {
        var b model.Booking
        if err := rows.Scan(&b.ID, &b.UserID, &b.TicketID, &b.AmountCents, &b.PaymentMethod,
            &b.Status, &b.BookingTime, &b.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
