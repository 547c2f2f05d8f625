package app

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/slotbook/slotbook/internal/cache"
	"github.com/slotbook/slotbook/internal/config"
	"github.com/slotbook/slotbook/internal/utils"
	"github.com/slotbook/slotbook/pkg/availability"
	"github.com/slotbook/slotbook/pkg/booking"
	"github.com/slotbook/slotbook/pkg/calendar"
	"github.com/slotbook/slotbook/pkg/google"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	GoogleTokenRepo google.TokenRepo
	GoogleAuth      *google.GoogleAuth
	GoogleService   google.Service
	GoogleHandler   *google.Handler

	CalendarProvider calendar.Provider

	AvailabilityCache   cache.AvailabilityCache
	AvailabilityService availability.Service
	AvailabilityHandler *availability.Handler

	BookingService booking.Service
	BookingHandler *booking.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	location, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Booking.Timezone, err)
	}
	rules, err := availability.RulesFromConfig(cfg.Booking.Rules)
	if err != nil {
		return nil, fmt.Errorf("invalid availability rules: %w", err)
	}
	slotDuration := time.Duration(cfg.Booking.SlotDurationMinutes) * time.Minute

	deps.GoogleTokenRepo = google.NewTokenRepo(db)
	deps.GoogleAuth = google.NewGoogleAuth(deps.GoogleTokenRepo, cfg)
	deps.GoogleService = google.NewService(deps.GoogleAuth)
	deps.GoogleHandler = google.NewHandler(deps.GoogleService)

	deps.CalendarProvider = google.NewCalendarProvider(deps.GoogleAuth, cfg.Booking.CalendarId, cfg.Google.QueryStyle)

	if cfg.Redis.Addr != "" {
		deps.AvailabilityCache = cache.NewRedisCache(cfg.Redis.Addr, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
	} else {
		deps.AvailabilityCache = cache.NoopCache{}
	}

	deps.Clock = &utils.SystemClock{}
	deps.AvailabilityService = availability.NewService(
		deps.CalendarProvider,
		deps.AvailabilityCache,
		deps.Clock,
		location,
		cfg.Booking.HorizonDays,
		slotDuration,
		rules,
	)
	deps.AvailabilityHandler = availability.NewHandler(deps.AvailabilityService)

	deps.BookingService = booking.NewService(deps.CalendarProvider, deps.AvailabilityCache, slotDuration)
	deps.BookingHandler = booking.NewHandler(deps.BookingService)

	return deps, nil
}
