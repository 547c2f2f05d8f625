package google

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

type CalendarItem struct {
	ID      string
	Summary string
}

type Service interface {
	ListCalendars(ctx context.Context) ([]CalendarItem, error)
}

type ServiceImpl struct {
	auth *GoogleAuth
}

func NewService(auth *GoogleAuth) *ServiceImpl {
	return &ServiceImpl{
		auth: auth,
	}
}

// ListCalendars enumerates the calendars the authorized account can see, so
// the operator can pick a calendar id for the configuration.
func (s *ServiceImpl) ListCalendars(ctx context.Context) ([]CalendarItem, error) {
	client, err := s.auth.client(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Google auth client: %w", err)
	}
	if client == nil {
		return nil, ErrUnauthenticated
	}
	googleService, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Calendar client: %w", err)
	}

	calendars, err := googleService.CalendarList.List().Do()
	if err != nil {
		err := fmt.Errorf("unable to retrieve calendars from Google Calendar: %v", err)
		log.Error(err)
		return nil, err
	}
	var googleCalendars []CalendarItem
	for _, cal := range calendars.Items {
		googleCalendars = append(googleCalendars, CalendarItem{
			ID:      cal.Id,
			Summary: cal.Summary,
		})
	}
	return googleCalendars, nil
}
