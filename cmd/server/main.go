package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"    // loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/concert-ticket-reservation/internal/booking"
	"github.com/iliyamo/concert-ticket-reservation/internal/config"
	"github.com/iliyamo/concert-ticket-reservation/internal/database"
	"github.com/iliyamo/concert-ticket-reservation/internal/handler"
	appmw "github.com/iliyamo/concert-ticket-reservation/internal/middleware"
	"github.com/iliyamo/concert-ticket-reservation/internal/payment"
	"github.com/iliyamo/concert-ticket-reservation/internal/queue"
	"github.com/iliyamo/concert-ticket-reservation/internal/repository"
	"github.com/iliyamo/concert-ticket-reservation/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs rate limiting and the browse cache.  A nil client just
	// disables both.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	artists := repository.NewArtistRepo(db)
	venues := repository.NewVenueRepo(db)
	concerts := repository.NewConcertRepo(db, venues)
	tickets := repository.NewTicketRepo(db)
	bookings := repository.NewBookingRepo(db)

	// Booking core: reservation manager, ledger and payment orchestrator
	// all share the transactional store.
	store := repository.NewStore(db)
	inventory := booking.NewInventory(store)
	reservations := booking.NewReservationManager(store)
	ledger := booking.NewLedger(store)
	orchestrator := booking.NewOrchestrator(ledger, reservations, payment.NewSimulator())

	// Background workers: hold expiry + pending-booking reconciliation,
	// and the booking.confirmed consumer writing logs/booking.log.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper := &booking.Sweeper{
		Reservations: reservations,
		Orchestrator: orchestrator,
		Interval:     cfg.SweepInterval,
		PendingTTL:   cfg.PendingTTL,
	}
	go sweeper.Run(ctx)
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	// Hold and payment routes get the token bucket; browse gets the cache.
	limited := appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cached := appmw.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterBrowse(e, handler.NewBrowseHandler(concerts, tickets, venues), cached)
	router.RegisterBooking(e,
		handler.NewBookingHandler(reservations, orchestrator, inventory, bookings, cfg.HoldTTL),
		cfg.JWTSecret, limited)
	router.RegisterArtist(e, handler.NewArtistHandler(artists, concerts, venues), cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewAdminHandler(artists), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
