package booking

import (
    "context"

    "github.com/iliyamo/concert-ticket-reservation/internal/model"
)

// Inventory tracks each ticket's status.  Transitions are guarded: a
// ticket can only be marked SOLD while HELD, and a SOLD ticket never
// returns to AVAILABLE through this component.
type Inventory struct {
    store Store
}

// NewInventory returns an Inventory bound to the given store.
func NewInventory(store Store) *Inventory {
    if store == nil {
        panic("nil store passed to NewInventory")
    }
    return &Inventory{store: store}
}

// GetTicket loads a ticket by id.  Returns ErrTicketNotFound when the
// id is unknown.
func (inv *Inventory) GetTicket(ctx context.Context, ticketID uint64) (*model.Ticket, error) {
    var t *model.Ticket
    err := runTx(ctx, inv.store, func(tx StoreTx) error {
        var err error
        t, err = tx.TicketForUpdate(ctx, ticketID)
        return err
    })
    if err != nil {
        return nil, err
    }
    return t, nil
}

// MarkSold transitions a HELD ticket to SOLD.  Any other starting
// status is rejected with ErrInvalidState: selling a ticket nobody
// holds would bypass the hold-exclusivity invariant.
func (inv *Inventory) MarkSold(ctx context.Context, ticketID uint64) error {
    return runTx(ctx, inv.store, func(tx StoreTx) error {
        t, err := tx.TicketForUpdate(ctx, ticketID)
        if err != nil {
            return err
        }
        if t.Status != model.TicketHeld {
            return ErrInvalidState
        }
        return tx.UpdateTicketStatus(ctx, ticketID, model.TicketSold)
    })
}

// MarkAvailable returns a HELD ticket to AVAILABLE.  Calling it on a
// ticket that is already AVAILABLE is a no-op; calling it on a SOLD
// ticket is ErrInvalidState.
func (inv *Inventory) MarkAvailable(ctx context.Context, ticketID uint64) error {
    return runTx(ctx, inv.store, func(tx StoreTx) error {
        t, err := tx.TicketForUpdate(ctx, ticketID)
        if err != nil {
            return err
        }
        switch t.Status {
        case model.TicketAvailable:
            return nil
        case model.TicketSold:
            return ErrInvalidState
        }
        return tx.UpdateTicketStatus(ctx, ticketID, model.TicketAvailable)
    })
}
