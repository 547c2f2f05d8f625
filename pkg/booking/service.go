package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/slotbook/slotbook/internal/cache"
	"github.com/slotbook/slotbook/pkg/calendar"
)

type Service interface {
	Book(ctx context.Context, request Request) (*Confirmation, error)
}

type ServiceImpl struct {
	provider     calendar.Provider
	cache        cache.AvailabilityCache
	slotDuration time.Duration
}

func NewService(provider calendar.Provider, availabilityCache cache.AvailabilityCache, slotDuration time.Duration) *ServiceImpl {
	return &ServiceImpl{
		provider:     provider,
		cache:        availabilityCache,
		slotDuration: slotDuration,
	}
}

// Book re-validates the chosen slot against live busy data and, only if it is
// still free, issues the single create-event call. There is no lock across
// concurrent bookings; the recheck happens as close as possible to the write
// and correctness rests on the provider's atomicity for one create call.
func (s *ServiceImpl) Book(ctx context.Context, request Request) (*Confirmation, error) {
	start, err := time.Parse(time.RFC3339, request.Timeslot)
	if err != nil {
		return nil, fmt.Errorf("%w: timeslot must be a valid RFC3339 instant", ErrInvalidInput)
	}
	if strings.TrimSpace(request.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(request.Email) == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	start = start.UTC()
	end := start.Add(s.slotDuration)

	log.Infof("Booking timeslot %s for %s", start.Format(time.RFC3339), request.Name)

	busy, err := s.provider.BusyIntervals(ctx, start, end)
	if err != nil {
		return nil, &ProviderError{Op: "busy lookup", Err: err}
	}
	if hasConflict(busy, start, end) {
		log.Infof("Timeslot %s conflicts with an existing event", start.Format(time.RFC3339))
		return nil, ErrSlotUnavailable
	}

	eventId, err := s.provider.CreateEvent(ctx, calendar.EventRequest{
		Title:       fmt.Sprintf("Appointment with %s", request.Name),
		Start:       start,
		End:         end,
		Description: fmt.Sprintf("Phone: %s\nNote: %s", request.Phone, request.Note),
		GuestEmail:  request.Email,
		SendInvites: true,
	})
	if err != nil {
		return nil, &ProviderError{Op: "event creation", Err: err}
	}
	log.Infof("Event created: %s", eventId)

	s.cache.Invalidate(ctx)

	return &Confirmation{EventId: eventId, Start: start, End: end}, nil
}

// hasConflict uses a closed-interval test, deliberately stricter than the
// half-open overlap used for availability display: an event that merely
// touches the slot boundary still rejects the booking. Conservative
// double-booking prevention.
func hasConflict(busy []calendar.Event, start, end time.Time) bool {
	for _, e := range busy {
		if !e.IsBlocking {
			continue
		}
		if !e.Start.After(end) && !e.End.Before(start) {
			return true
		}
	}
	return false
}
