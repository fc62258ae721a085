package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/concert-ticket-reservation/internal/booking"
	"github.com/iliyamo/concert-ticket-reservation/internal/repository"
)

// getUserID extracts the user_id stored by JWTAuth and converts it to
// uint64.  JWT numeric claims round-trip JSON as float64, so several
// representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// isAdmin reports whether the authenticated request carries the ADMIN role.
func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "ADMIN"
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

// bookingError maps a booking domain error to its HTTP response.
// Conflicting lifecycle states all land on 409 except a sold-out ticket,
// which is 410 because the resource is permanently gone for this buyer.
func bookingError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrTicketNotFound), errors.Is(err, booking.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, booking.ErrAlreadySold):
		return c.JSON(http.StatusGone, echo.Map{"error": "ticket already sold"})
	case errors.Is(err, booking.ErrAlreadyHeld):
		return c.JSON(http.StatusConflict, echo.Map{"error": "ticket held by another user"})
	case errors.Is(err, booking.ErrNoActiveHold):
		return c.JSON(http.StatusConflict, echo.Map{"error": "no active hold"})
	case errors.Is(err, booking.ErrInvalidState):
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid state for operation"})
	case errors.Is(err, booking.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflicting booking"})
	case errors.Is(err, booking.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "temporarily unavailable, retry"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// repoError maps repository read errors: unknown rows become 404 and
// anything else is a 500.
func repoError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
}
