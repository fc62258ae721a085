package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/concert-ticket-reservation/internal/repository"
)

// BrowseHandler serves the public, unauthenticated catalogue: venues,
// upcoming concerts and their seat maps.  These endpoints sit behind the
// Redis response cache, so availability counts may lag by the cache TTL.
type BrowseHandler struct {
	Concerts *repository.ConcertRepo
	Tickets  *repository.TicketRepo
	Venues   *repository.VenueRepo
}

func NewBrowseHandler(c *repository.ConcertRepo, t *repository.TicketRepo, v *repository.VenueRepo) *BrowseHandler {
	if c == nil || t == nil || v == nil {
		panic("nil repository passed to NewBrowseHandler")
	}
	return &BrowseHandler{Concerts: c, Tickets: t, Venues: v}
}

// ListVenues returns every venue.
func (h *BrowseHandler) ListVenues(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	venues, err := h.Venues.List(ctx)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"venues": venues})
}

// ListConcerts returns upcoming concerts with their available-ticket
// counts, soonest first.
func (h *BrowseHandler) ListConcerts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	concerts, err := h.Concerts.List(ctx)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"concerts": concerts})
}

// GetConcert returns one concert with artist and venue details.
func (h *BrowseHandler) GetConcert(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid concert id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Concerts.GetDetail(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// ListConcertTickets returns the concert's full seat map: every ticket
// with its seat position, tier, price and status.
func (h *BrowseHandler) ListConcertTickets(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid concert id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// 404 for unknown concerts instead of an empty list.
	if _, err := h.Concerts.GetDetail(ctx, id); err != nil {
		return repoError(c, err)
	}
	tickets, err := h.Tickets.ListByConcert(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"concert_id": id, "tickets": tickets})
}
