package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/slotbook/slotbook/internal/cache"
	"github.com/slotbook/slotbook/pkg/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const slotDuration = 30 * time.Minute

var slotStart = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type invalidationCache struct {
	cache.NoopCache
	invalidated int
}

func (c *invalidationCache) Invalidate(context.Context) {
	c.invalidated++
}

func validRequest() Request {
	return Request{
		Timeslot: slotStart.Format(time.RFC3339),
		Name:     "Alice",
		Email:    "alice@example.com",
		Phone:    "555-0100",
		Note:     "first consultation",
	}
}

func setupServiceTest() (*ServiceImpl, *calendar.ProviderStub, *invalidationCache) {
	provider := calendar.NewProviderStub()
	availabilityCache := &invalidationCache{}
	service := NewService(provider, availabilityCache, slotDuration)
	return service, provider, availabilityCache
}

func TestBook_CreatesEvent(t *testing.T) {
	service, provider, availabilityCache := setupServiceTest()

	confirmation, err := service.Book(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, slotStart, confirmation.Start)
	assert.Equal(t, slotStart.Add(slotDuration), confirmation.End)
	assert.NotEmpty(t, confirmation.EventId)

	created := provider.CreatedEvents()
	require.Len(t, created, 1)
	assert.Equal(t, "Appointment with Alice", created[0].Title)
	assert.Equal(t, slotStart, created[0].Start)
	assert.Equal(t, slotStart.Add(slotDuration), created[0].End)
	assert.Equal(t, "alice@example.com", created[0].GuestEmail)
	assert.Contains(t, created[0].Description, "555-0100")
	assert.Contains(t, created[0].Description, "first consultation")
	assert.True(t, created[0].SendInvites)

	assert.Equal(t, 1, availabilityCache.invalidated, "successful booking must invalidate the availability cache")
}

func TestBook_InvalidTimeslot(t *testing.T) {
	service, provider, _ := setupServiceTest()

	request := validRequest()
	request.Timeslot = "next tuesday"
	_, err := service.Book(context.Background(), request)

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, provider.CreatedEvents())
}

func TestBook_MissingRequiredFields(t *testing.T) {
	service, _, _ := setupServiceTest()

	request := validRequest()
	request.Name = "  "
	_, err := service.Book(context.Background(), request)
	assert.ErrorIs(t, err, ErrInvalidInput)

	request = validRequest()
	request.Email = ""
	_, err = service.Book(context.Background(), request)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBook_RecheckFindsConflict(t *testing.T) {
	service, provider, availabilityCache := setupServiceTest()

	// The slot looked free when availability was shown; a conflicting event
	// lands before the booking recheck runs.
	provider.AddEvent(calendar.Event{
		Start:         slotStart.Add(10 * time.Minute),
		End:           slotStart.Add(20 * time.Minute),
		IsBlocking:    true,
		AttendeeCount: 2,
	})

	_, err := service.Book(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Empty(t, provider.CreatedEvents(), "no create-event call after a failed recheck")
	assert.Zero(t, availabilityCache.invalidated)
}

func TestBook_AdjacentEventsRejectedByClosedBoundary(t *testing.T) {
	testCases := []struct {
		name     string
		event    calendar.Event
		wantErr  error
		wantBook bool
	}{
		{
			name: "event starting exactly at slot end conflicts",
			event: calendar.Event{
				Start: slotStart.Add(slotDuration), End: slotStart.Add(2 * slotDuration),
				IsBlocking: true, AttendeeCount: 2,
			},
			wantErr: ErrSlotUnavailable,
		},
		{
			name: "event ending exactly at slot start conflicts",
			event: calendar.Event{
				Start: slotStart.Add(-slotDuration), End: slotStart,
				IsBlocking: true, AttendeeCount: 2,
			},
			wantErr: ErrSlotUnavailable,
		},
		{
			name: "event strictly after the slot does not conflict",
			event: calendar.Event{
				Start: slotStart.Add(slotDuration + time.Minute), End: slotStart.Add(2 * slotDuration),
				IsBlocking: true, AttendeeCount: 2,
			},
			wantBook: true,
		},
		{
			name: "transparent event does not conflict",
			event: calendar.Event{
				Start: slotStart, End: slotStart.Add(slotDuration),
				IsBlocking: false, AttendeeCount: 2,
			},
			wantBook: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service, provider, _ := setupServiceTest()
			provider.AddEvent(tc.event)

			_, err := service.Book(context.Background(), validRequest())
			if tc.wantBook {
				assert.NoError(t, err)
				assert.Len(t, provider.CreatedEvents(), 1)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Empty(t, provider.CreatedEvents())
			}
		})
	}
}

func TestBook_ProviderFailures(t *testing.T) {
	service, provider, availabilityCache := setupServiceTest()
	provider.FailBusyIntervals(errors.New("calendar backend unreachable"))

	_, err := service.Book(context.Background(), validRequest())
	var providerErr *ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Contains(t, providerErr.Error(), "calendar backend unreachable")

	service, provider, availabilityCache = setupServiceTest()
	provider.FailCreateEvent(errors.New("quota exceeded"))

	_, err = service.Book(context.Background(), validRequest())
	require.ErrorAs(t, err, &providerErr)
	assert.Contains(t, providerErr.Error(), "quota exceeded")
	assert.Zero(t, availabilityCache.invalidated, "failed booking must not invalidate the cache")
}
