package calendar

import (
	"context"
	"time"
)

// Event is one busy interval on the calendar, normalized to UTC instants.
// Transparent (free-time) entries carry IsBlocking=false and never suppress
// availability. AttendeeCount is at least 1 (the calendar owner).
type Event struct {
	Start         time.Time
	End           time.Time
	IsBlocking    bool
	AttendeeCount int
}

// EventRequest describes the single event a booking creates.
type EventRequest struct {
	Title       string
	Start       time.Time
	End         time.Time
	Description string
	GuestEmail  string
	SendInvites bool
}

// Provider is the external calendar collaborator. BusyIntervals lists events
// overlapping [from, to]; CreateEvent must be effectively atomic from the
// caller's perspective: a single call either creates the event or fails.
type Provider interface {
	BusyIntervals(ctx context.Context, from time.Time, to time.Time) ([]Event, error)
	CreateEvent(ctx context.Context, request EventRequest) (string, error)
}
