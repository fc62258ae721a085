package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/concert-ticket-reservation/internal/model"
)

// TierPrices carries the per-tier ticket prices chosen when a concert
// is created.
type TierPrices struct {
    GoldCents   uint32
    SilverCents uint32
    BronzeCents uint32
}

// For returns the price for a seat tier, defaulting to bronze for
// unknown tiers.
func (p TierPrices) For(seatType string) uint32 {
    switch seatType {
    case model.SeatGold:
        return p.GoldCents
    case model.SeatSilver:
        return p.SilverCents
    default:
        return p.BronzeCents
    }
}

// ConcertRepo provides access to concerts and their generated tickets.
type ConcertRepo struct {
    db     *sql.DB
    venues *VenueRepo
}

func NewConcertRepo(db *sql.DB, venues *VenueRepo) *ConcertRepo {
    return &ConcertRepo{db: db, venues: venues}
}

// CreateWithTickets inserts a concert and generates its tickets in a
// single transaction: one AVAILABLE ticket per venue seat, priced by
// the seat's tier.  Returns the concert with its ID set and the number
// of tickets generated.
func (r *ConcertRepo) CreateWithTickets(ctx context.Context, c *model.Concert, prices TierPrices) (int, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return 0, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    const ins = `INSERT INTO concerts (title, artist_id, venue_id, starts_at) VALUES (?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, ins, c.Title, c.ArtistID, c.VenueID, c.StartsAt.UTC().Format("2006-01-02 15:04:05"))
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    c.ID = uint64(id)

    seats, err := r.venues.SeatsTx(ctx, tx, c.VenueID)
    if err != nil {
        return 0, err
    }
    if len(seats) > 0 {
        query := `INSERT INTO tickets (concert_id, seat_id, price_cents, status) VALUES `
        args := make([]interface{}, 0, len(seats)*4)
        for i, s := range seats {
            if i > 0 {
                query += ","
            }
            query += "(?, ?, ?, ?)"
            args = append(args, c.ID, s.ID, prices.For(s.SeatType), model.TicketAvailable)
        }
        if _, err := tx.ExecContext(ctx, query, args...); err != nil {
            return 0, err
        }
    }
    if err := tx.Commit(); err != nil {
        return 0, err
    }
    committed = true
    return len(seats), nil
}

// ConcertDetail is a concert joined with its artist and venue, plus the
// count of tickets still available, for the public browse endpoints.
type ConcertDetail struct {
    ID               uint64    `json:"id"`
    Title            string    `json:"title"`
    ArtistName       string    `json:"artist_name"`
    VenueName        string    `json:"venue_name"`
    VenueLocation    string    `json:"venue_location"`
    StartsAt         time.Time `json:"starts_at"`
    TicketsAvailable int       `json:"tickets_available"`
}

// List returns upcoming concerts ordered by start time, each with its
// available-ticket count.
func (r *ConcertRepo) List(ctx context.Context) ([]ConcertDetail, error) {
    const q = `SELECT c.id, c.title, a.artist_name, v.name, v.location, c.starts_at,
                      (SELECT COUNT(*) FROM tickets t WHERE t.concert_id = c.id AND t.status = ?)
               FROM concerts c
               JOIN artists a ON a.id = c.artist_id
               JOIN venues v ON v.id = c.venue_id
               WHERE c.starts_at > UTC_TIMESTAMP()
               ORDER BY c.starts_at`
    rows, err := r.db.QueryContext(ctx, q, model.TicketAvailable)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]ConcertDetail, 0)
    for rows.Next() {
        var d ConcertDetail
        if err := rows.Scan(&d.ID, &d.Title, &d.ArtistName, &d.VenueName, &d.VenueLocation, &d.StartsAt, &d.TicketsAvailable); err != nil {
            return nil, err
        }
        out = append(out, d)
    }
    return out, rows.Err()
}

// GetDetail returns one concert with artist and venue info, or
// ErrNotFound.
func (r *ConcertRepo) GetDetail(ctx context.Context, id uint64) (*ConcertDetail, error) {
    const q = `SELECT c.id, c.title, a.artist_name, v.name, v.location, c.starts_at,
                      (SELECT COUNT(*) FROM tickets t WHERE t.concert_id = c.id AND t.status = ?)
               FROM concerts c
               JOIN artists a ON a.id = c.artist_id
               JOIN venues v ON v.id = c.venue_id
               WHERE c.id = ?`
    var d ConcertDetail
    err := r.db.QueryRowContext(ctx, q, model.TicketAvailable, id).Scan(
        &d.ID, &d.Title, &d.ArtistName, &d.VenueName, &d.VenueLocation, &d.StartsAt, &d.TicketsAvailable)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    return &d, nil
}
