package booking

import (
    "context"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/concert-ticket-reservation/internal/model"
)

const holdTTL = 5 * time.Minute

func newReservationRig(tickets ...*model.Ticket) (*memStore, *testClock, *ReservationManager) {
    store := newMemStore(tickets...)
    clock := newTestClock()
    return store, clock, NewReservationManager(store).WithClock(clock.Now)
}

func TestPlaceHoldOnAvailableTicket(t *testing.T) {
    store, clock, mgr := newReservationRig(availableTicket(101))

    h, err := mgr.PlaceHold(context.Background(), 7, 101, holdTTL)
    require.NoError(t, err)
    require.NotNil(t, h)
    assert.Equal(t, uint64(7), h.UserID)
    assert.Equal(t, clock.Now().Add(holdTTL), h.ExpiresAt)
    assert.Equal(t, model.TicketHeld, store.ticket(101).Status)
}

func TestPlaceHoldUnknownTicket(t *testing.T) {
    _, _, mgr := newReservationRig()

    _, err := mgr.PlaceHold(context.Background(), 7, 999, holdTTL)
    assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestPlaceHoldRefreshesSameUser(t *testing.T) {
    store, clock, mgr := newReservationRig(availableTicket(101))

    _, err := mgr.PlaceHold(context.Background(), 7, 101, holdTTL)
    require.NoError(t, err)

    clock.Advance(2 * time.Minute)
    h, err := mgr.PlaceHold(context.Background(), 7, 101, holdTTL)
    require.NoError(t, err, "same-user re-hold must refresh, not error")
    assert.Equal(t, clock.Now().Add(holdTTL), h.ExpiresAt)
    assert.Equal(t, model.TicketHeld, store.ticket(101).Status)
}

func TestPlaceHoldRejectsOtherUser(t *testing.T) {
    _, _, mgr := newReservationRig(availableTicket(101))

    _, err := mgr.PlaceHold(context.Background(), 7, 101, holdTTL)
    require.NoError(t, err)

    _, err = mgr.PlaceHold(context.Background(), 8, 101, holdTTL)
    assert.ErrorIs(t, err, ErrAlreadyHeld)
}

func TestPlaceHoldOnSoldTicket(t *testing.T) {
    sold := availableTicket(101)
    sold.Status = model.TicketSold
    _, _, mgr := newReservationRig(sold)

    _, err := mgr.PlaceHold(context.Background(), 7, 101, holdTTL)
    assert.ErrorIs(t, err, ErrAlreadySold)
}

func TestPlaceHoldClaimsExpiredHold(t *testing.T) {
    store, clock, mgr := newReservationRig(availableTicket(101))

    _, err := mgr.PlaceHold(context.Background(), 7, 101, holdTTL)
    require.NoError(t, err)

    // No sweep in between: the expired hold is released lazily.
    clock.Advance(holdTTL + time.Second)
    h, err := mgr.PlaceHold(context.Background(), 8, 101, holdTTL)
    require.NoError(t, err)
    assert.Equal(t, uint64(8), h.UserID)
    assert.Equal(t, model.TicketHeld, store.ticket(101).Status)
}

func TestExpireHoldsRoundTrip(t *testing.T) {
    store, clock, mgr := newReservationRig(availableTicket(101))

    _, err := mgr.PlaceHold(context.Background(), 7, 101, holdTTL)
    require.NoError(t, err)

    clock.Advance(holdTTL + time.Second)
    n, err := mgr.ExpireHolds(context.Background())
    require.NoError(t, err)
    assert.Equal(t, 1, n)
    assert.Equal(t, model.TicketAvailable, store.ticket(101).Status)
    assert.Nil(t, store.hold(101))

    // Idempotent: a second sweep finds nothing.
    n, err = mgr.ExpireHolds(context.Background())
    require.NoError(t, err)
    assert.Zero(t, n)
}

func TestExpireHoldsSkipsActiveHolds(t *testing.T) {
    store, clock, mgr := newReservationRig(availableTicket(101), availableTicket(102))

    _, err := mgr.PlaceHold(context.Background(), 7, 101, holdTTL)
    require.NoError(t, err)
    clock.Advance(holdTTL + time.Second)
    _, err = mgr.PlaceHold(context.Background(), 8, 102, holdTTL)
    require.NoError(t, err)

    n, err := mgr.ExpireHolds(context.Background())
    require.NoError(t, err)
    assert.Equal(t, 1, n)
    assert.Equal(t, model.TicketAvailable, store.ticket(101).Status)
    assert.Equal(t, model.TicketHeld, store.ticket(102).Status)
}

func TestReleaseHoldIsIdempotent(t *testing.T) {
    store, _, mgr := newReservationRig(availableTicket(101))

    _, err := mgr.PlaceHold(context.Background(), 7, 101, holdTTL)
    require.NoError(t, err)

    require.NoError(t, mgr.ReleaseHold(context.Background(), 101))
    assert.Equal(t, model.TicketAvailable, store.ticket(101).Status)

    // Releasing again, with no hold present, is a no-op.
    require.NoError(t, mgr.ReleaseHold(context.Background(), 101))
    assert.Equal(t, model.TicketAvailable, store.ticket(101).Status)
}

func TestReleaseHoldOwnedChecksOwner(t *testing.T) {
	store, _, mgr := newReservationRig(availableTicket(101))

	_, err := mgr.PlaceHold(context.Background(), 7, 101, holdTTL)
	require.NoError(t, err)

	// A different user cannot release it.
	err = mgr.ReleaseHoldOwned(context.Background(), 8, 101)
	assert.ErrorIs(t, err, ErrNoActiveHold)
	assert.Equal(t, model.TicketHeld, store.ticket(101).Status)

	// The owner can.
	require.NoError(t, mgr.ReleaseHoldOwned(context.Background(), 7, 101))
	assert.Equal(t, model.TicketAvailable, store.ticket(101).Status)

	// With the hold gone there is nothing left to release.
	err = mgr.ReleaseHoldOwned(context.Background(), 7, 101)
	assert.ErrorIs(t, err, ErrNoActiveHold)
}

func TestReleaseHoldKeepsSoldTicketSold(t *testing.T) {
    sold := availableTicket(101)
    sold.Status = model.TicketSold
    store, _, mgr := newReservationRig(sold)

    require.NoError(t, mgr.ReleaseHold(context.Background(), 101))
    assert.Equal(t, model.TicketSold, store.ticket(101).Status)
}

func TestConcurrentHoldsExactlyOneWins(t *testing.T) {
    _, _, mgr := newReservationRig(availableTicket(101))

    const users = 8
    errs := make([]error, users)
    var wg sync.WaitGroup
    for i := 0; i < users; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            _, errs[i] = mgr.PlaceHold(context.Background(), uint64(i+1), 101, holdTTL)
        }(i)
    }
    wg.Wait()

    wins, held := 0, 0
    for _, err := range errs {
        switch {
        case err == nil:
            wins++
        case assert.ErrorIs(t, err, ErrAlreadyHeld):
            held++
        }
    }
    assert.Equal(t, 1, wins, "exactly one concurrent hold attempt must succeed")
    assert.Equal(t, users-1, held)
}

func TestRunTxRetriesOnceThenUnavailable(t *testing.T) {
    store, _, mgr := newReservationRig(availableTicket(101))

    // One transient failure: the retry succeeds.
    store.failTxs = 1
    _, err := mgr.PlaceHold(context.Background(), 7, 101, holdTTL)
    require.NoError(t, err)
    require.NoError(t, mgr.ReleaseHold(context.Background(), 101))

    // Persistent failure: surfaced as ErrUnavailable, not the raw error.
    store.failTxs = 2
    _, err = mgr.PlaceHold(context.Background(), 7, 101, holdTTL)
    assert.ErrorIs(t, err, ErrUnavailable)
    assert.NotErrorIs(t, err, ErrAlreadyHeld)
}
