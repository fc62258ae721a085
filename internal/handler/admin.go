package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/concert-ticket-reservation/internal/repository"
)

// AdminHandler hosts the back-office endpoints.  Currently that is the
// artist application review queue.
type AdminHandler struct {
	Artists *repository.ArtistRepo
}

func NewAdminHandler(a *repository.ArtistRepo) *AdminHandler {
	if a == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Artists: a}
}

type reviewReq struct {
	Decision string `json:"decision"` // "approve" | "reject"
	Note     string `json:"note"`
}

// ListApplications returns the pending review queue plus per-status
// counts for the dashboard header.
func (h *AdminHandler) ListApplications(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pending, err := h.Artists.ListPending(ctx)
	if err != nil {
		return repoError(c, err)
	}
	counts, err := h.Artists.CountByStatus(ctx)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"applications": pending,
		"counts":       counts,
	})
}

// Review resolves a pending application.  Approval promotes the
// applicant's account to the ARTIST role in the same transaction.
func (h *AdminHandler) Review(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid application id"})
	}

	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var approve bool
	switch strings.ToLower(strings.TrimSpace(req.Decision)) {
	case "approve":
		approve = true
	case "reject":
		approve = false
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "decision must be approve or reject"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Artists.Review(ctx, id, approve, strings.TrimSpace(req.Note))
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":          a.ID,
		"artist_name": a.ArtistName,
		"status":      a.Status,
		"review_note": a.ReviewNote,
		"reviewed_at": a.ReviewedAt,
	})
}
