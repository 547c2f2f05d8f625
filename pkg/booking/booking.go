package booking

import (
	"errors"
	"fmt"
	"time"
)

// Request carries what the visitor submitted. It is never persisted by this
// service; the created calendar event is the only durable side effect.
type Request struct {
	Timeslot string
	Name     string
	Email    string
	Phone    string
	Note     string
}

// Confirmation reports a successful booking. The provider's event identity is
// authoritative; EventId is logged for diagnostics but callers only need the
// confirmed interval.
type Confirmation struct {
	EventId string
	Start   time.Time
	End     time.Time
}

// ErrInvalidInput marks malformed request fields. Never retried; surfaced
// verbatim to the caller.
var ErrInvalidInput = errors.New("invalid booking input")

// ErrSlotUnavailable marks a recheck conflict. The caller is expected to
// re-fetch availability and pick another time.
var ErrSlotUnavailable = errors.New("timeslot is no longer available")

// ProviderError wraps a failed or malformed calendar provider response,
// preserving the underlying message for diagnostics. The booking write is
// never retried automatically: retrying a create blindly risks duplicate
// bookings.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("calendar provider %s failed: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
