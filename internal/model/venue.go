package model

// Seat tiers.  Prices for a concert are set per tier when the concert
// is created and copied onto each generated ticket.
const (
    SeatGold   = "GOLD"
    SeatSilver = "SILVER"
    SeatBronze = "BRONZE"
)

// Venue is a concert location.  Seats belong to a venue and are shared
// by every concert staged there.
type Venue struct {
    ID       uint64 // venues.id
    Name     string // venues.name
    Location string // venues.location
    Capacity uint32 // venues.capacity
}

// Seat is a physical seat within a venue.  RowNo and SeatNo identify
// the position; SeatType selects the pricing tier.
type Seat struct {
    ID       uint64 // seats.id
    VenueID  uint64 // seats.venue_id
    RowNo    uint32 // seats.row_no
    SeatNo   uint32 // seats.seat_no
    SeatType string // seats.seat_type: GOLD | SILVER | BRONZE
}
