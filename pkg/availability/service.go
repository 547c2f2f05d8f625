package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/slotbook/slotbook/internal/cache"
	"github.com/slotbook/slotbook/internal/utils"
	"github.com/slotbook/slotbook/pkg/calendar"
)

// Availability is the result of one availability query.
type Availability struct {
	Timeslots       []time.Time `json:"timeslots"`
	DurationMinutes int         `json:"durationMinutes"`
}

type Service interface {
	Availability(ctx context.Context) (Availability, error)
}

type ServiceImpl struct {
	provider     calendar.Provider
	cache        cache.AvailabilityCache
	clock        utils.Clock
	location     *time.Location
	horizonDays  int
	slotDuration time.Duration
	rules        []Rule
}

func NewService(
	provider calendar.Provider,
	availabilityCache cache.AvailabilityCache,
	clock utils.Clock,
	location *time.Location,
	horizonDays int,
	slotDuration time.Duration,
	rules []Rule,
) *ServiceImpl {
	return &ServiceImpl{
		provider:     provider,
		cache:        availabilityCache,
		clock:        clock,
		location:     location,
		horizonDays:  horizonDays,
		slotDuration: slotDuration,
		rules:        rules,
	}
}

// Availability fetches fresh busy data over the rolling horizon and runs the
// constraint engine over it. Event data is fetched per query and discarded;
// the only state carried across queries is the short-lived response cache.
func (s *ServiceImpl) Availability(ctx context.Context) (Availability, error) {
	if payload, ok := s.cache.Get(ctx); ok {
		var cached Availability
		if err := json.Unmarshal(payload, &cached); err == nil {
			log.Debug("availability served from cache")
			return cached, nil
		}
		log.Warn("discarding undecodable availability cache entry")
		s.cache.Invalidate(ctx)
	}

	now := s.clock.Now()
	utcNow := now.UTC()
	horizonEnd := time.Date(utcNow.Year(), utcNow.Month(), utcNow.Day()+s.horizonDays, 0, 0, 0, 0, time.UTC)

	events, err := s.provider.BusyIntervals(ctx, now, horizonEnd)
	if err != nil {
		return Availability{}, fmt.Errorf("failed to fetch busy intervals: %w", err)
	}

	slots := ComputeAvailability(now, s.horizonDays, s.slotDuration, s.location, s.rules, events)
	timeslots := make([]time.Time, 0, len(slots))
	for _, slot := range slots {
		timeslots = append(timeslots, slot.Start)
	}

	result := Availability{
		Timeslots:       timeslots,
		DurationMinutes: int(s.slotDuration / time.Minute),
	}
	if payload, err := json.Marshal(result); err == nil {
		s.cache.Set(ctx, payload)
	}
	return result, nil
}
