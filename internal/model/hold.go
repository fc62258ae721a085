package model

import "time"

// Hold is a temporary claim on a ticket while its holder completes
// payment.  A ticket carries at most one hold row; re-holding by the
// same user refreshes ExpiresAt instead of erroring.  Holds are removed
// on expiry, explicit release, or promotion to a confirmed booking.
type Hold struct {
    TicketID  uint64    // ticket_holds.ticket_id (unique)
    UserID    uint64    // ticket_holds.user_id
    ExpiresAt time.Time // ticket_holds.expires_at
    CreatedAt time.Time // ticket_holds.created_at
}

// Active reports whether the hold has not yet expired at the given
// instant.  Expiry comparisons are wall-clock based, always in UTC.
func (h *Hold) Active(now time.Time) bool {
    return h != nil && h.ExpiresAt.After(now)
}
