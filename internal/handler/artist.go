package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/concert-ticket-reservation/internal/model"
	"github.com/iliyamo/concert-ticket-reservation/internal/repository"
)

// ArtistHandler covers the artist side of the platform: applying for
// artist status and, once approved, creating concerts.
type ArtistHandler struct {
	Artists  *repository.ArtistRepo
	Concerts *repository.ConcertRepo
	Venues   *repository.VenueRepo
}

func NewArtistHandler(a *repository.ArtistRepo, c *repository.ConcertRepo, v *repository.VenueRepo) *ArtistHandler {
	if a == nil || c == nil || v == nil {
		panic("nil repository passed to NewArtistHandler")
	}
	return &ArtistHandler{Artists: a, Concerts: c, Venues: v}
}

type applyReq struct {
	ArtistName string `json:"artist_name"`
	Genre      string `json:"genre"`
	Country    string `json:"country"`
	Bio        string `json:"bio"`
	Proof      string `json:"proof"`
}

type createConcertReq struct {
	Title            string `json:"title"`
	VenueID          uint64 `json:"venue_id"`
	StartsAt         string `json:"starts_at"` // RFC 3339
	GoldPriceCents   uint32 `json:"gold_price_cents"`
	SilverPriceCents uint32 `json:"silver_price_cents"`
	BronzePriceCents uint32 `json:"bronze_price_cents"`
}

// Apply submits an artist application for the calling user.  A rejected
// applicant may apply again; a pending or approved one may not.
func (h *ArtistHandler) Apply(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req applyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.ArtistName = strings.TrimSpace(req.ArtistName)
	req.Genre = strings.TrimSpace(req.Genre)
	req.Country = strings.TrimSpace(req.Country)
	if req.ArtistName == "" || req.Genre == "" || req.Country == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "artist_name/genre/country required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a := &model.Artist{
		UserID:     uid,
		ArtistName: req.ArtistName,
		Genre:      req.Genre,
		Country:    req.Country,
		Bio:        req.Bio,
		Proof:      req.Proof,
	}
	if err := h.Artists.Apply(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicateApplication) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "application already pending or approved"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "apply failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"application_id": a.ID,
		"status":         a.Status,
	})
}

// MyApplication returns the caller's application, whatever its status.
func (h *ArtistHandler) MyApplication(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Artists.GetByUser(ctx, uid)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":          a.ID,
		"artist_name": a.ArtistName,
		"genre":       a.Genre,
		"country":     a.Country,
		"status":      a.Status,
		"review_note": a.ReviewNote,
		"applied_at":  a.AppliedAt,
		"reviewed_at": a.ReviewedAt,
	})
}

// CreateConcert stages a new concert at a venue and generates one
// ticket per seat, priced by tier.  Only approved artists reach this
// handler (the ARTIST role is granted on approval), but the profile is
// re-checked so a revoked approval cannot keep creating concerts.
func (h *ArtistHandler) CreateConcert(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createConcertReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.VenueID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and venue_id required"})
	}
	if req.GoldPriceCents == 0 || req.SilverPriceCents == 0 || req.BronzePriceCents == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all tier prices must be positive"})
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC 3339"})
	}
	startsAt = startsAt.UTC()
	if !startsAt.After(time.Now().UTC()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be in the future"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	artist, err := h.Artists.GetByUser(ctx, uid)
	if err != nil || artist.Status != model.ArtistApproved {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "approved artist profile required"})
	}
	if _, err := h.Venues.GetByID(ctx, req.VenueID); err != nil {
		return repoError(c, err)
	}

	concert := &model.Concert{
		Title:    req.Title,
		ArtistID: artist.ID,
		VenueID:  req.VenueID,
		StartsAt: startsAt,
	}
	prices := repository.TierPrices{
		GoldCents:   req.GoldPriceCents,
		SilverCents: req.SilverPriceCents,
		BronzeCents: req.BronzePriceCents,
	}
	generated, err := h.Concerts.CreateWithTickets(ctx, concert, prices)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create concert failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"concert_id":        concert.ID,
		"tickets_generated": generated,
	})
}
