package handler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/concert-ticket-reservation/internal/booking"
	"github.com/iliyamo/concert-ticket-reservation/internal/model"
	"github.com/iliyamo/concert-ticket-reservation/internal/queue"
	"github.com/iliyamo/concert-ticket-reservation/internal/repository"
	queuepublisher "github.com/iliyamo/concert-ticket-reservation/internal/service"
)

// BookingHandler exposes the buyer-facing booking lifecycle: place and
// release holds, pay, and review past bookings.  All state transitions
// run through the booking core; this layer only translates HTTP.
type BookingHandler struct {
	Reservations *booking.ReservationManager
	Orchestrator *booking.Orchestrator
	Inventory    *booking.Inventory
	Bookings     *repository.BookingRepo
	HoldTTL      time.Duration
}

func NewBookingHandler(rm *booking.ReservationManager, o *booking.Orchestrator, inv *booking.Inventory, b *repository.BookingRepo, holdTTL time.Duration) *BookingHandler {
	if rm == nil || o == nil || inv == nil || b == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Reservations: rm, Orchestrator: o, Inventory: inv, Bookings: b, HoldTTL: holdTTL}
}

type payReq struct {
	Method        string `json:"payment_method"`
	PaymentStatus string `json:"payment_status"` // simulator control: "failed" declines
}

// PlaceHold claims a ticket for the caller for the configured TTL.
// Re-holding a ticket you already hold refreshes the window.
func (h *BookingHandler) PlaceHold(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ticketID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	hold, err := h.Reservations.PlaceHold(ctx, uid, ticketID, h.HoldTTL)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"ticket_id":  hold.TicketID,
		"expires_at": hold.ExpiresAt,
	})
}

// ReleaseHold gives the ticket back.  Buyers may only release their own
// hold; admins may clear any hold.
func (h *BookingHandler) ReleaseHold(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ticketID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if isAdmin(c) {
		err = h.Reservations.ReleaseHold(ctx, ticketID)
	} else {
		err = h.Reservations.ReleaseHoldOwned(ctx, uid, ticketID)
	}
	if err != nil {
		return bookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Pay runs the purchase for a held ticket: pending booking, charge,
// then confirm or cancel depending on the gateway outcome.  A confirmed
// purchase emits a booking.confirmed event; publish failures are logged
// and ignored so the buyer still gets their ticket.
func (h *BookingHandler) Pay(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ticketID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}

	var req payReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	method := strings.TrimSpace(req.Method)
	if method == "" {
		method = "card"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	// Price comes from the ticket itself, never from the client.
	t, err := h.Inventory.GetTicket(ctx, ticketID)
	if err != nil {
		return bookingError(c, err)
	}

	meta := map[string]string{}
	if req.PaymentStatus != "" {
		meta["status"] = req.PaymentStatus
	}
	b, err := h.Orchestrator.Process(ctx, uid, ticketID, method, t.PriceCents, meta)
	if err != nil {
		return bookingError(c, err)
	}
	if b.Status != model.BookingConfirmed {
		// The charge was declined; the hold is already released and the
		// cancelled booking kept for history.
		return c.JSON(http.StatusPaymentRequired, echo.Map{
			"booking_id": b.ID,
			"status":     b.Status,
			"error":      "payment declined",
		})
	}

	h.publishConfirmed(uid, b)

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id":  b.ID,
		"status":      b.Status,
		"payment_ref": b.PaymentRef,
		"amount":      b.AmountCents,
	})
}

// publishConfirmed emits the booking.confirmed event in the background.
// The booking detail lookup and the publish are both best effort.
func (h *BookingHandler) publishConfirmed(uid uint64, b *model.Booking) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		d, err := h.Bookings.GetByIDForUser(ctx, b.ID, uid)
		if err != nil {
			log.Printf("booking: load detail for event failed: %v", err)
			return
		}
		ref := ""
		if d.PaymentRef != nil {
			ref = *d.PaymentRef
		}
		ev := queue.BookingConfirmedEvent{
			BookingID:    d.ID,
			UserID:       uid,
			TicketID:     d.TicketID,
			ConcertID:    d.ConcertID,
			ConcertTitle: d.ConcertTitle,
			ArtistName:   d.ArtistName,
			VenueName:    d.VenueName,
			SeatLabel:    fmt.Sprintf("R%d-S%d", d.RowNo, d.SeatNo),
			AmountCents:  d.AmountCents,
			PaymentRef:   ref,
			ConfirmedAt:  time.Now().UTC().Format("2006-01-02 15:04:05"),
		}
		if err := queuepublisher.PublishBookingConfirmed(ctx, ev); err != nil {
			log.Printf("booking: publish confirmed event failed: %v", err)
		}
	}()
}

// ListBookings returns the caller's bookings, newest first, including
// cancelled attempts.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Bookings.ListByUser(ctx, uid)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": items})
}

// GetBooking returns one booking with full concert, seat and venue
// detail.  Only the owner sees it; everyone else gets a 404.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Bookings.GetByIDForUser(ctx, id, uid)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}
