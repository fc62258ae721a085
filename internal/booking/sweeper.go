package booking

import (
    "context"
    "log"
    "time"
)

// Sweeper periodically releases expired holds and reconciles stale
// pending bookings.  Expiry is wall-clock based rather than scheduled
// per hold, so the sweep just has to run often enough; individual
// operations also expire lazily on access.
type Sweeper struct {
    Reservations *ReservationManager
    Orchestrator *Orchestrator
    Interval     time.Duration
    PendingTTL   time.Duration
}

// Run blocks, sweeping every Interval until ctx is cancelled.  Errors
// are logged and the loop keeps going; a failed sweep is retried on the
// next tick.
func (s *Sweeper) Run(ctx context.Context) {
    ticker := time.NewTicker(s.Interval)
    defer ticker.Stop()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            if n, err := s.Reservations.ExpireHolds(ctx); err != nil {
                log.Printf("sweeper: expire holds: %v", err)
            } else if n > 0 {
                log.Printf("sweeper: released %d expired holds", n)
            }
            if s.Orchestrator != nil {
                if n, err := s.Orchestrator.Reconcile(ctx, s.PendingTTL); err != nil {
                    log.Printf("sweeper: reconcile: %v", err)
                } else if n > 0 {
                    log.Printf("sweeper: cancelled %d stale pending bookings", n)
                }
            }
        }
    }
}
