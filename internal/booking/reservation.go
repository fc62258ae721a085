package booking

import (
    "context"
    "time"

    "github.com/iliyamo/concert-ticket-reservation/internal/model"
)

// ReservationManager places and releases timed holds on tickets.  A
// hold gives one user a bounded window to complete payment; when the
// window passes the ticket returns to AVAILABLE, either lazily on the
// next access or through the ExpireHolds sweep.
type ReservationManager struct {
    store Store
    now   func() time.Time
}

// NewReservationManager returns a ReservationManager bound to the given
// store.  Time is read through a clock function so tests can control
// expiry.
func NewReservationManager(store Store) *ReservationManager {
    if store == nil {
        panic("nil store passed to NewReservationManager")
    }
    return &ReservationManager{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the manager's clock.  Intended for tests.
func (m *ReservationManager) WithClock(now func() time.Time) *ReservationManager {
    m.now = now
    return m
}

// PlaceHold claims a ticket for userID for the given TTL.
//
// Outcomes:
//   - ticket unknown: ErrTicketNotFound
//   - ticket SOLD: ErrAlreadySold
//   - unexpired hold by another user: ErrAlreadyHeld
//   - unexpired hold by the same user: the TTL is refreshed (idempotent)
//   - otherwise a new hold is created and the ticket becomes HELD
//
// An expired hold found on the way is released in the same transaction,
// so stale holds never block a new claim.
func (m *ReservationManager) PlaceHold(ctx context.Context, userID, ticketID uint64, ttl time.Duration) (*model.Hold, error) {
    var placed *model.Hold
    err := runTx(ctx, m.store, func(tx StoreTx) error {
        now := m.now()
        t, err := tx.TicketForUpdate(ctx, ticketID)
        if err != nil {
            return err
        }
        if t.Status == model.TicketSold {
            return ErrAlreadySold
        }
        h, err := tx.Hold(ctx, ticketID)
        if err != nil {
            return err
        }
        if h.Active(now) && h.UserID != userID {
            return ErrAlreadyHeld
        }
        // Either no hold, an expired hold, or our own hold: (re)claim.
        placed = &model.Hold{
            TicketID:  ticketID,
            UserID:    userID,
            ExpiresAt: now.Add(ttl),
            CreatedAt: now,
        }
        if h != nil {
            placed.CreatedAt = h.CreatedAt
        }
        if err := tx.UpsertHold(ctx, placed); err != nil {
            return err
        }
        if t.Status != model.TicketHeld {
            return tx.UpdateTicketStatus(ctx, ticketID, model.TicketHeld)
        }
        return nil
    })
    if err != nil {
        return nil, err
    }
    return placed, nil
}

// ReleaseHold clears any hold on the ticket regardless of owner.  Used
// on explicit cancellation and admin override.  The ticket returns to
// AVAILABLE only if it was not promoted to SOLD.  Releasing a ticket
// with no hold is a no-op, so the operation is idempotent.
func (m *ReservationManager) ReleaseHold(ctx context.Context, ticketID uint64) error {
    return runTx(ctx, m.store, func(tx StoreTx) error {
        t, err := tx.TicketForUpdate(ctx, ticketID)
        if err != nil {
            return err
        }
        if err := tx.DeleteHold(ctx, ticketID); err != nil {
            return err
        }
        if t.Status == model.TicketHeld {
            return tx.UpdateTicketStatus(ctx, ticketID, model.TicketAvailable)
        }
        return nil
    })
}

// ReleaseHoldOwned clears a hold only when it belongs to userID.  Used
// by the buyer-facing release endpoint; a hold owned by someone else,
// or no hold at all, comes back as ErrNoActiveHold.  An expired hold is
// still releasable by its owner.
func (m *ReservationManager) ReleaseHoldOwned(ctx context.Context, userID, ticketID uint64) error {
	return runTx(ctx, m.store, func(tx StoreTx) error {
		t, err := tx.TicketForUpdate(ctx, ticketID)
		if err != nil {
			return err
		}
		h, err := tx.Hold(ctx, ticketID)
		if err != nil {
			return err
		}
		if h == nil || h.UserID != userID {
			return ErrNoActiveHold
		}
		if err := tx.DeleteHold(ctx, ticketID); err != nil {
			return err
		}
		if t.Status == model.TicketHeld {
			return tx.UpdateTicketStatus(ctx, ticketID, model.TicketAvailable)
		}
		return nil
	})
}

// ExpireHolds releases every hold whose expiry has passed and returns
// the number released.  Each expired hold is processed in its own
// transaction with the ticket row locked, so the sweep is safe to run
// repeatedly and concurrently with hold placement: a hold refreshed
// between the scan and the release is left alone.
func (m *ReservationManager) ExpireHolds(ctx context.Context) (int, error) {
    var expired []model.Hold
    err := runTx(ctx, m.store, func(tx StoreTx) error {
        var err error
        expired, err = tx.ExpiredHolds(ctx, m.now())
        return err
    })
    if err != nil {
        return 0, err
    }
    released := 0
    for _, h := range expired {
        h := h
        err := runTx(ctx, m.store, func(tx StoreTx) error {
            now := m.now()
            t, err := tx.TicketForUpdate(ctx, h.TicketID)
            if err != nil {
                return err
            }
            cur, err := tx.Hold(ctx, h.TicketID)
            if err != nil {
                return err
            }
            if cur == nil || cur.Active(now) {
                // Already released, or refreshed since the scan.
                return nil
            }
            if err := tx.DeleteHold(ctx, h.TicketID); err != nil {
                return err
            }
            if t.Status == model.TicketHeld {
                if err := tx.UpdateTicketStatus(ctx, h.TicketID, model.TicketAvailable); err != nil {
                    return err
                }
            }
            released++
            return nil
        })
        if err != nil {
            return released, err
        }
    }
    return released, nil
}
