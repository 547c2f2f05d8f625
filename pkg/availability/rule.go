package availability

// Effect is the outcome a matched rule assigns to a timeslot.
type Effect string

const (
	EffectAvailable   Effect = "available"
	EffectUnavailable Effect = "unavailable"
)

// Rule is a closed set of slot constraints. Rules are evaluated in the order
// they are supplied and the first rule matching a slot determines its effect;
// a slot matching no rule is available.
type Rule interface {
	isRule()
}

// DayOfWeekRule matches slots whose civil weekday (0=Sunday..6=Saturday) is
// in Days.
type DayOfWeekRule struct {
	Effect Effect
	Days   []int
}

// OverlappingEventRule matches slots strictly overlapped by a blocking
// calendar event (half-open interval test).
type OverlappingEventRule struct {
	Effect Effect
}

// TimeOfDayRule matches slots by their civil hour of day. Hours are
// fractional (9.5 means 09:30). With HourStart <= HourEnd the rule covers
// [HourStart, HourEnd) on the same day; with HourStart > HourEnd the range
// wraps midnight and matches everything outside [HourEnd, HourStart).
type TimeOfDayRule struct {
	Effect    Effect
	HourStart float64
	HourEnd   float64
}

// MeetingLoadRule matches slots on civil days already loaded with at least
// ThresholdHours of blocking meetings. Only events with more than one
// attendee count towards the load, clipped to the day's [00:00, 24:00)
// boundary. The comparison is inclusive: a day carrying exactly
// ThresholdHours matches.
type MeetingLoadRule struct {
	Effect         Effect
	ThresholdHours float64
}

func (DayOfWeekRule) isRule()        {}
func (OverlappingEventRule) isRule() {}
func (TimeOfDayRule) isRule()        {}
func (MeetingLoadRule) isRule()      {}
