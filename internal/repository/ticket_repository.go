package repository

import (
    "context"
    "database/sql"
)

// TicketRepo provides the read side for tickets: seat-annotated
// listings for the booking page.  Status transitions go through the
// booking core (store.go), never through this repository.
type TicketRepo struct {
    db *sql.DB
}

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// TicketSeat is one sellable seat on the booking page.  Status reflects
// the stored ticket status; a ticket whose hold has expired but has not
// been swept yet still shows HELD until the sweeper or the next hold
// attempt releases it.
type TicketSeat struct {
    TicketID   uint64 `json:"ticket_id"`
    RowNo      uint32 `json:"row_no"`
    SeatNo     uint32 `json:"seat_no"`
    SeatType   string `json:"seat_type"`
    PriceCents uint32 `json:"price_cents"`
    Status     string `json:"status"`
}

// ListByConcert returns every ticket of a concert with its seat
// position, ordered by row then seat number.
func (r *TicketRepo) ListByConcert(ctx context.Context, concertID uint64) ([]TicketSeat, error) {
    const q = `SELECT t.id, s.row_no, s.seat_no, s.seat_type, t.price_cents, t.status
               FROM tickets t
               JOIN seats s ON s.id = t.seat_id
               WHERE t.concert_id = ?
               ORDER BY s.row_no, s.seat_no`
    rows, err := r.db.QueryContext(ctx, q, concertID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]TicketSeat, 0)
    for rows.Next() {
        var ts TicketSeat
        if err := rows.Scan(&ts.TicketID, &ts.RowNo, &ts.SeatNo, &ts.SeatType, &ts.PriceCents, &ts.Status); err != nil {
            return nil, err
        }
        out = append(out, ts)
    }
    return out, rows.Err()
}
