package booking

import (
    "context"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/concert-ticket-reservation/internal/model"
)

func TestInventoryTransitions(t *testing.T) {
    held := availableTicket(101)
    held.Status = model.TicketHeld
    store := newMemStore(held, availableTicket(102))
    inv := NewInventory(store)
    ctx := context.Background()

    // HELD -> SOLD is the only path into SOLD.
    require.NoError(t, inv.MarkSold(ctx, 101))
    assert.Equal(t, model.TicketSold, store.ticket(101).Status)

    // AVAILABLE -> SOLD is illegal.
    assert.ErrorIs(t, inv.MarkSold(ctx, 102), ErrInvalidState)

    // SOLD never goes back to AVAILABLE here.
    assert.ErrorIs(t, inv.MarkAvailable(ctx, 101), ErrInvalidState)

    // AVAILABLE -> AVAILABLE is a harmless no-op.
    require.NoError(t, inv.MarkAvailable(ctx, 102))
    assert.Equal(t, model.TicketAvailable, store.ticket(102).Status)
}

func TestInventoryGetTicket(t *testing.T) {
    store := newMemStore(availableTicket(101))
    inv := NewInventory(store)

    got, err := inv.GetTicket(context.Background(), 101)
    require.NoError(t, err)
    assert.Equal(t, uint64(101), got.ID)

    _, err = inv.GetTicket(context.Background(), 999)
    assert.ErrorIs(t, err, ErrTicketNotFound)
}
