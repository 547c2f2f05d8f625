package google

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/slotbook/slotbook/pkg/calendar"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

var ErrUnauthenticated = fmt.Errorf("service is unauthenticated, Google authentication is required")

const (
	// QueryStyleEvents lists full events and keeps transparency and attendee
	// metadata, which meeting-load rules depend on.
	QueryStyleEvents = "events"
	// QueryStyleFreeBusy queries busy intervals only. Cheaper and works on
	// calendars that expose nothing but free/busy, but every interval comes
	// back blocking with a single attendee, so meeting-load rules are inert
	// under this style.
	QueryStyleFreeBusy = "freebusy"
)

// CalendarProvider implements calendar.Provider against one Google Calendar.
type CalendarProvider struct {
	auth       *GoogleAuth
	calendarId string
	queryStyle string
}

func NewCalendarProvider(auth *GoogleAuth, calendarId string, queryStyle string) *CalendarProvider {
	return &CalendarProvider{
		auth:       auth,
		calendarId: calendarId,
		queryStyle: queryStyle,
	}
}

func (c *CalendarProvider) BusyIntervals(ctx context.Context, from time.Time, to time.Time) ([]calendar.Event, error) {
	service, err := c.prepareService(ctx)
	if err != nil {
		return nil, err
	}

	if c.queryStyle == QueryStyleFreeBusy {
		return c.freeBusyIntervals(service, from, to)
	}
	return c.eventIntervals(service, from, to)
}

func (c *CalendarProvider) eventIntervals(service *gcal.Service, from time.Time, to time.Time) ([]calendar.Event, error) {
	googleEvents, err := service.Events.List(c.calendarId).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		err := fmt.Errorf("unable to retrieve events from Google Calendar: %v", err)
		log.Error(err)
		return nil, err
	}

	return eventsFromGoogle(googleEvents.Items), nil
}

func (c *CalendarProvider) freeBusyIntervals(service *gcal.Service, from time.Time, to time.Time) ([]calendar.Event, error) {
	response, err := service.Freebusy.Query(&gcal.FreeBusyRequest{
		TimeMin: from.Format(time.RFC3339),
		TimeMax: to.Format(time.RFC3339),
		Items:   []*gcal.FreeBusyRequestItem{{Id: c.calendarId}},
	}).Do()
	if err != nil {
		err := fmt.Errorf("unable to query free/busy from Google Calendar: %v", err)
		log.Error(err)
		return nil, err
	}

	busyCalendar, ok := response.Calendars[c.calendarId]
	if !ok {
		return nil, fmt.Errorf("free/busy response is missing calendar %s", c.calendarId)
	}
	return busyFromFreeBusy(busyCalendar.Busy)
}

// CreateEvent issues the single mutating call of the whole system: one
// Events.Insert that either creates the confirmed event or fails.
func (c *CalendarProvider) CreateEvent(ctx context.Context, request calendar.EventRequest) (string, error) {
	service, err := c.prepareService(ctx)
	if err != nil {
		return "", err
	}

	event := &gcal.Event{
		Summary:     request.Title,
		Description: request.Description,
		Status:      "confirmed",
		Start: &gcal.EventDateTime{
			DateTime: request.Start.Format(time.RFC3339),
		},
		End: &gcal.EventDateTime{
			DateTime: request.End.Format(time.RFC3339),
		},
	}
	if request.GuestEmail != "" {
		event.Attendees = []*gcal.EventAttendee{{Email: request.GuestEmail}}
	}

	call := service.Events.Insert(c.calendarId, event)
	if request.SendInvites {
		call = call.SendUpdates("all")
	}
	result, err := call.Do()
	if err != nil {
		err := fmt.Errorf("unable to insert event in Google Calendar: %v", err)
		log.Error(err)
		return "", err
	}
	return result.Id, nil
}

func (c *CalendarProvider) prepareService(ctx context.Context) (*gcal.Service, error) {
	client, err := c.auth.client(ctx)
	if err != nil {
		err := fmt.Errorf("unable to retrieve Google auth client: %v", err)
		log.Error(err)
		return nil, err
	}
	if client == nil {
		log.Debug("service is unauthenticated, authentication is required")
		return nil, ErrUnauthenticated
	}
	service, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		err := fmt.Errorf("unable to retrieve Calendar client: %v", err)
		log.Error(err)
		return nil, err
	}

	return service, nil
}

// eventsFromGoogle normalizes Google events to the engine's shape. Cancelled
// events are skipped, transparent ones stay with IsBlocking=false, and the
// attendee count never drops below 1 (solo events list no attendees).
func eventsFromGoogle(items []*gcal.Event) []calendar.Event {
	events := make([]calendar.Event, 0, len(items))
	for _, item := range items {
		if item.Status == "cancelled" {
			continue
		}
		start, end, ok := eventInterval(item)
		if !ok {
			log.Warnf("skipping calendar event without a usable interval: %s", item.Summary)
			continue
		}
		attendeeCount := len(item.Attendees)
		if attendeeCount < 1 {
			attendeeCount = 1
		}
		events = append(events, calendar.Event{
			Start:         start.UTC(),
			End:           end.UTC(),
			IsBlocking:    item.Transparency != "transparent",
			AttendeeCount: attendeeCount,
		})
	}
	return events
}

// eventInterval extracts the event interval, handling both timed events
// (DateTime) and all-day events (Date).
func eventInterval(item *gcal.Event) (time.Time, time.Time, bool) {
	if item.Start == nil || item.End == nil {
		return time.Time{}, time.Time{}, false
	}
	if item.Start.DateTime != "" && item.End.DateTime != "" {
		start, errStart := time.Parse(time.RFC3339, item.Start.DateTime)
		end, errEnd := time.Parse(time.RFC3339, item.End.DateTime)
		if errStart != nil || errEnd != nil {
			return time.Time{}, time.Time{}, false
		}
		return start, end, true
	}
	if item.Start.Date != "" && item.End.Date != "" {
		start, errStart := time.Parse("2006-01-02", item.Start.Date)
		end, errEnd := time.Parse("2006-01-02", item.End.Date)
		if errStart != nil || errEnd != nil {
			return time.Time{}, time.Time{}, false
		}
		return start, end, true
	}
	return time.Time{}, time.Time{}, false
}

// busyFromFreeBusy maps free/busy periods to blocking events.
func busyFromFreeBusy(busy []*gcal.TimePeriod) ([]calendar.Event, error) {
	events := make([]calendar.Event, 0, len(busy))
	for _, period := range busy {
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			return nil, fmt.Errorf("unable to parse busy period start: %w", err)
		}
		end, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			return nil, fmt.Errorf("unable to parse busy period end: %w", err)
		}
		events = append(events, calendar.Event{
			Start:         start.UTC(),
			End:           end.UTC(),
			IsBlocking:    true,
			AttendeeCount: 1,
		})
	}
	return events, nil
}
