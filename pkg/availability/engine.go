package availability

import (
	"time"

	"github.com/slotbook/slotbook/pkg/calendar"
)

// Slot is a candidate bookable interval aligned to the slot grid.
type Slot struct {
	Start time.Time
	End   time.Time
}

// ComputeAvailability derives the ordered set of offerable timeslots.
//
// The scan starts at now rounded down to the slot grid (epoch-relative
// multiples of slotDuration) and steps through the grid while the slot still
// fits before the horizon end, which is UTC midnight of today plus
// horizonDays in calendar-date arithmetic. Day-of-week and hour-of-day rules
// act on the slot start converted to civil time in loc; interval overlap
// tests act on absolute instants.
//
// The function is total: it never fails, and returns no slots rather than an
// error when nothing qualifies.
func ComputeAvailability(now time.Time, horizonDays int, slotDuration time.Duration, loc *time.Location, rules []Rule, events []calendar.Event) []Slot {
	durationMs := slotDuration.Milliseconds()
	if horizonDays <= 0 || durationMs <= 0 {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}
	gridStart := time.UnixMilli(now.UnixMilli() / durationMs * durationMs).UTC()

	utcNow := now.UTC()
	horizonEnd := time.Date(utcNow.Year(), utcNow.Month(), utcNow.Day()+horizonDays, 0, 0, 0, 0, time.UTC)

	var slots []Slot
	for start := gridStart; !start.Add(slotDuration).After(horizonEnd); start = start.Add(slotDuration) {
		slot := Slot{Start: start, End: start.Add(slotDuration)}
		if resolveEffect(slot, loc, rules, events) == EffectAvailable {
			slots = append(slots, slot)
		}
	}
	return slots
}

// resolveEffect applies the first-match-wins policy over the rule list.
func resolveEffect(slot Slot, loc *time.Location, rules []Rule, events []calendar.Event) Effect {
	for _, rule := range rules {
		switch r := rule.(type) {
		case DayOfWeekRule:
			if matchesDayOfWeek(r, slot, loc) {
				return r.Effect
			}
		case OverlappingEventRule:
			if matchesOverlappingEvent(slot, events) {
				return r.Effect
			}
		case TimeOfDayRule:
			if matchesTimeOfDay(r, slot, loc) {
				return r.Effect
			}
		case MeetingLoadRule:
			if matchesMeetingLoad(r, slot, loc, events) {
				return r.Effect
			}
		}
	}
	return EffectAvailable
}

func matchesDayOfWeek(r DayOfWeekRule, slot Slot, loc *time.Location) bool {
	weekday := int(slot.Start.In(loc).Weekday())
	for _, day := range r.Days {
		if day == weekday {
			return true
		}
	}
	return false
}

// matchesOverlappingEvent uses the half-open overlap test: an event conflicts
// with [start, end) iff event.Start < end && event.End > start. Transparent
// events do not block.
func matchesOverlappingEvent(slot Slot, events []calendar.Event) bool {
	for _, e := range events {
		if !e.IsBlocking {
			continue
		}
		if e.Start.Before(slot.End) && e.End.After(slot.Start) {
			return true
		}
	}
	return false
}

func matchesTimeOfDay(r TimeOfDayRule, slot Slot, loc *time.Location) bool {
	civil := slot.Start.In(loc)
	hour := float64(civil.Hour()) + float64(civil.Minute())/60 + float64(civil.Second())/3600
	if r.HourStart <= r.HourEnd {
		return hour >= r.HourStart && hour < r.HourEnd
	}
	// Wraps midnight: the rule covers everything outside the quiet window
	// [HourEnd, HourStart).
	return !(hour >= r.HourEnd && hour < r.HourStart)
}

// matchesMeetingLoad totals blocking multi-attendee meeting time per civil
// day touched by the slot, clipping events to the day boundary, and matches
// when any touched day carries at least the threshold.
func matchesMeetingLoad(r MeetingLoadRule, slot Slot, loc *time.Location, events []calendar.Event) bool {
	threshold := time.Duration(r.ThresholdHours * float64(time.Hour))

	civilStart := slot.Start.In(loc)
	day := time.Date(civilStart.Year(), civilStart.Month(), civilStart.Day(), 0, 0, 0, 0, loc)
	for ; day.Before(slot.End); day = day.AddDate(0, 0, 1) {
		dayEnd := day.AddDate(0, 0, 1)
		var load time.Duration
		for _, e := range events {
			if !e.IsBlocking || e.AttendeeCount <= 1 {
				continue
			}
			from := e.Start
			if from.Before(day) {
				from = day
			}
			to := e.End
			if to.After(dayEnd) {
				to = dayEnd
			}
			if to.After(from) {
				load += to.Sub(from)
			}
		}
		if load >= threshold {
			return true
		}
	}
	return false
}
