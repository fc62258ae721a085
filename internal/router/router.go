package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/concert-ticket-reservation/internal/handler"    // handlers implementing the endpoints
	"github.com/iliyamo/concert-ticket-reservation/internal/middleware" // JWT authentication and role enforcement
	"github.com/iliyamo/concert-ticket-reservation/internal/model"      // role constants
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems use this to verify the
	// service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication‑related routes.
// Unauthenticated operations live under /v1/auth; /v1/me requires a
// valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Logout accepts a refresh_token in the body and does not require a
	// JWT; with a bearer token and no body it revokes every session.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	// Authenticated logout without a body revokes every session.
	auth.POST("/logout", a.Logout)
}

// RegisterBrowse registers the unauthenticated catalogue endpoints.
// cached wraps them in the Redis response cache; pass nil middleware to
// disable caching.
func RegisterBrowse(e *echo.Echo, b *handler.BrowseHandler, cached echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cached != nil {
		g.Use(cached)
	}
	g.GET("/venues", b.ListVenues)
	g.GET("/concerts", b.ListConcerts)
	g.GET("/concerts/:id", b.GetConcert)
	g.GET("/concerts/:id/tickets", b.ListConcertTickets)
}

// RegisterBooking registers the buyer-facing booking lifecycle under
// /v1.  Any authenticated role may buy tickets; the hold and payment
// endpoints additionally sit behind the rate limiter.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, limited echo.MiddlewareFunc) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser, model.RoleArtist, model.RoleAdmin),
	)
	hot := []echo.MiddlewareFunc{}
	if limited != nil {
		hot = append(hot, limited)
	}
	g.POST("/tickets/:id/hold", h.PlaceHold, hot...)
	g.DELETE("/tickets/:id/hold", h.ReleaseHold)
	g.POST("/tickets/:id/pay", h.Pay, hot...)
	g.GET("/my-bookings", h.ListBookings)
	g.GET("/bookings/:id", h.GetBooking)
}

// RegisterArtist registers application submission (any authenticated
// user) and concert management (ARTIST role only).
func RegisterArtist(e *echo.Echo, h *handler.ArtistHandler, jwtSecret string) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser, model.RoleArtist, model.RoleAdmin),
	)
	g.POST("/artists/apply", h.Apply)
	g.GET("/artists/me", h.MyApplication)

	artist := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleArtist),
	)
	artist.POST("/concerts", h.CreateConcert)
}

// RegisterAdmin registers the back-office review queue, ADMIN only.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.GET("/applications", h.ListApplications)
	g.POST("/applications/:id/review", h.Review)
}
