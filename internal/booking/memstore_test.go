package booking

// In-memory Store implementation used by the component tests.  A single
// mutex serializes transactions, which models the row-level locking the
// MySQL store provides; state is snapshotted before each transaction so
// a failing fn rolls back fully, matching the Store contract.

import (
    "context"
    "errors"
    "sync"
    "time"

    "github.com/iliyamo/concert-ticket-reservation/internal/model"
)

var errInjected = errors.New("injected store failure")

type memStore struct {
    mu       sync.Mutex
    tickets  map[uint64]*model.Ticket
    holds    map[uint64]*model.Hold
    bookings map[uint64]*model.Booking
    nextID   uint64

    // failTxs makes the next n InTx calls fail before fn runs, to
    // exercise the retry-once behavior of runTx.
    failTxs int
}

func newMemStore(tickets ...*model.Ticket) *memStore {
    s := &memStore{
        tickets:  make(map[uint64]*model.Ticket),
        holds:    make(map[uint64]*model.Hold),
        bookings: make(map[uint64]*model.Booking),
    }
    for _, t := range tickets {
        cp := *t
        s.tickets[t.ID] = &cp
    }
    return s
}

func (s *memStore) InTx(_ context.Context, fn func(tx StoreTx) error) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    if s.failTxs > 0 {
        s.failTxs--
        return errInjected
    }
    tickets, holds, bookings := s.snapshot()
    if err := fn(&memTx{s: s}); err != nil {
        s.tickets, s.holds, s.bookings = tickets, holds, bookings
        return err
    }
    return nil
}

func (s *memStore) snapshot() (map[uint64]*model.Ticket, map[uint64]*model.Hold, map[uint64]*model.Booking) {
    tickets := make(map[uint64]*model.Ticket, len(s.tickets))
    for id, t := range s.tickets {
        cp := *t
        tickets[id] = &cp
    }
    holds := make(map[uint64]*model.Hold, len(s.holds))
    for id, h := range s.holds {
        cp := *h
        holds[id] = &cp
    }
    bookings := make(map[uint64]*model.Booking, len(s.bookings))
    for id, b := range s.bookings {
        cp := *b
        bookings[id] = &cp
    }
    return tickets, holds, bookings
}

// direct accessors for assertions and for constructing states the
// public API would not normally reach

func (s *memStore) ticket(id uint64) model.Ticket {
    s.mu.Lock()
    defer s.mu.Unlock()
    return *s.tickets[id]
}

func (s *memStore) hold(ticketID uint64) *model.Hold {
    s.mu.Lock()
    defer s.mu.Unlock()
    if h, ok := s.holds[ticketID]; ok {
        cp := *h
        return &cp
    }
    return nil
}

func (s *memStore) booking(id uint64) model.Booking {
    s.mu.Lock()
    defer s.mu.Unlock()
    return *s.bookings[id]
}

func (s *memStore) put(t *model.Ticket, h *model.Hold, b *model.Booking) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if t != nil {
        cp := *t
        s.tickets[t.ID] = &cp
    }
    if h != nil {
        cp := *h
        s.holds[h.TicketID] = &cp
    }
    if b != nil {
        cp := *b
        s.bookings[b.ID] = &cp
    }
}

type memTx struct {
    s *memStore
}

func (tx *memTx) TicketForUpdate(_ context.Context, ticketID uint64) (*model.Ticket, error) {
    t, ok := tx.s.tickets[ticketID]
    if !ok {
        return nil, ErrTicketNotFound
    }
    cp := *t
    return &cp, nil
}

func (tx *memTx) UpdateTicketStatus(_ context.Context, ticketID uint64, status string) error {
    t, ok := tx.s.tickets[ticketID]
    if !ok {
        return ErrTicketNotFound
    }
    t.Status = status
    return nil
}

func (tx *memTx) Hold(_ context.Context, ticketID uint64) (*model.Hold, error) {
    h, ok := tx.s.holds[ticketID]
    if !ok {
        return nil, nil
    }
    cp := *h
    return &cp, nil
}

func (tx *memTx) UpsertHold(_ context.Context, h *model.Hold) error {
    cp := *h
    tx.s.holds[h.TicketID] = &cp
    return nil
}

func (tx *memTx) DeleteHold(_ context.Context, ticketID uint64) error {
    delete(tx.s.holds, ticketID)
    return nil
}

func (tx *memTx) ExpiredHolds(_ context.Context, now time.Time) ([]model.Hold, error) {
    var out []model.Hold
    for _, h := range tx.s.holds {
        if !h.ExpiresAt.After(now) {
            out = append(out, *h)
        }
    }
    return out, nil
}

func (tx *memTx) InsertBooking(_ context.Context, b *model.Booking) error {
    tx.s.nextID++
    b.ID = tx.s.nextID
    cp := *b
    tx.s.bookings[b.ID] = &cp
    return nil
}

func (tx *memTx) BookingForUpdate(_ context.Context, bookingID uint64) (*model.Booking, error) {
    b, ok := tx.s.bookings[bookingID]
    if !ok {
        return nil, ErrBookingNotFound
    }
    cp := *b
    return &cp, nil
}

func (tx *memTx) UpdateBookingStatus(_ context.Context, bookingID uint64, status string, ref *string) error {
    b, ok := tx.s.bookings[bookingID]
    if !ok {
        return ErrBookingNotFound
    }
    b.Status = status
    if ref != nil {
        r := *ref
        b.PaymentRef = &r
    }
    return nil
}

func (tx *memTx) HasConfirmedBooking(_ context.Context, ticketID, excludeBookingID uint64) (bool, error) {
    for _, b := range tx.s.bookings {
        if b.TicketID == ticketID && b.ID != excludeBookingID && b.Status == model.BookingConfirmed {
            return true, nil
        }
    }
    return false, nil
}

func (tx *memTx) StalePendingBookings(_ context.Context, cutoff time.Time) ([]model.Booking, error) {
    var out []model.Booking
    for _, b := range tx.s.bookings {
        if b.Status == model.BookingPending && !b.BookingTime.After(cutoff) {
            out = append(out, *b)
        }
    }
    return out, nil
}

// testClock is a controllable clock shared by the components under test.
type testClock struct {
    mu sync.Mutex
    t  time.Time
}

func newTestClock() *testClock {
    return &testClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
    c.mu.Lock()
    defer c.mu.Unlock()
    return c.t
}

func (c *testClock) Advance(d time.Duration) {
    c.mu.Lock()
    defer c.mu.Unlock()
    c.t = c.t.Add(d)
}

func availableTicket(id uint64) *model.Ticket {
    return &model.Ticket{ID: id, ConcertID: 1, SeatID: id, PriceCents: 5000, Status: model.TicketAvailable}
}
