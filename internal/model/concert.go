package model

import "time"

// Concert is a single performance by an artist at a venue.  Tickets are
// generated in bulk when the concert is created, one per venue seat.
type Concert struct {
    ID        uint64    // concerts.id
    Title     string    // concerts.title
    ArtistID  uint64    // concerts.artist_id
    VenueID   uint64    // concerts.venue_id
    StartsAt  time.Time // concerts.starts_at
    CreatedAt time.Time // concerts.created_at
}
