package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/concert-ticket-reservation/internal/model"
)

// VenueRepo provides read access to venues and their seats.  Venues and
// seat layouts are provisioned by operations tooling, so there is no
// create path here.
type VenueRepo struct {
    db *sql.DB
}

func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

// List returns all venues ordered by name.
func (r *VenueRepo) List(ctx context.Context) ([]model.Venue, error) {
    const q = `SELECT id, name, location, capacity FROM venues ORDER BY name`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    venues := make([]model.Venue, 0)
    for rows.Next() {
        var v model.Venue
        if err := rows.Scan(&v.ID, &v.Name, &v.Location, &v.Capacity); err != nil {
            return nil, err
        }
        venues = append(venues, v)
    }
    return venues, rows.Err()
}

// GetByID returns a venue or ErrNotFound.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
    const q = `SELECT id, name, location, capacity FROM venues WHERE id = ? LIMIT 1`
    var v model.Venue
    err := r.db.QueryRowContext(ctx, q, id).Scan(&v.ID, &v.Name, &v.Location, &v.Capacity)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    return &v, nil
}

// SeatsTx returns all seats of a venue ordered by row and seat number,
// within an existing transaction.  Used by concert creation to generate
// one ticket per seat.
func (r *VenueRepo) SeatsTx(ctx context.Context, tx *sql.Tx, venueID uint64) ([]model.Seat, error) {
    const q = `SELECT id, venue_id, row_no, seat_no, seat_type
               FROM seats WHERE venue_id = ?
               ORDER BY row_no, seat_no`
    rows, err := tx.QueryContext(ctx, q, venueID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var seats []model.Seat
    for rows.Next() {
        var s model.Seat
        if err := rows.Scan(&s.ID, &s.VenueID, &s.RowNo, &s.SeatNo, &s.SeatType); err != nil {
            return nil, err
        }
        seats = append(seats, s)
    }
    return seats, rows.Err()
}
