package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/concert-ticket-reservation/internal/booking"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestBookingErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{booking.ErrTicketNotFound, http.StatusNotFound},
		{booking.ErrBookingNotFound, http.StatusNotFound},
		{booking.ErrAlreadySold, http.StatusGone},
		{booking.ErrAlreadyHeld, http.StatusConflict},
		{booking.ErrNoActiveHold, http.StatusConflict},
		{booking.ErrInvalidState, http.StatusConflict},
		{booking.ErrConflict, http.StatusConflict},
		{booking.ErrUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		c, rec := newTestContext(t)
		require.NoError(t, bookingError(c, tc.err))
		assert.Equal(t, tc.code, rec.Code, "for %v", tc.err)
	}
}

func TestGetUserIDAcceptsJWTClaimTypes(t *testing.T) {
	// JWT numeric claims arrive as float64; tokens minted in-process may
	// store uint64 directly.
	for _, v := range []interface{}{float64(42), uint64(42), int(42), int64(42), "42"} {
		c, _ := newTestContext(t)
		c.Set("user_id", v)
		got, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, uint64(42), got)
	}

	c, _ := newTestContext(t)
	_, err := getUserID(c)
	assert.Error(t, err)
}
