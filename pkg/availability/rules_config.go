package availability

import (
	"fmt"

	"github.com/slotbook/slotbook/internal/config"
)

// RulesFromConfig converts the declarative rule list from the config file
// into engine rules, preserving order. Unknown types or effects are rejected
// here so the engine itself stays total.
func RulesFromConfig(configRules []config.Rule) ([]Rule, error) {
	rules := make([]Rule, 0, len(configRules))
	for i, cr := range configRules {
		effect, err := parseEffect(cr.Effect)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		switch cr.Type {
		case "day-of-week":
			for _, day := range cr.Days {
				if day < 0 || day > 6 {
					return nil, fmt.Errorf("rule %d: day out of range: %d", i, day)
				}
			}
			rules = append(rules, DayOfWeekRule{Effect: effect, Days: cr.Days})
		case "overlapping-event":
			rules = append(rules, OverlappingEventRule{Effect: effect})
		case "time-of-day":
			if cr.HourStart < 0 || cr.HourStart >= 24 || cr.HourEnd < 0 || cr.HourEnd > 24 {
				return nil, fmt.Errorf("rule %d: hours must be within [0, 24]", i)
			}
			rules = append(rules, TimeOfDayRule{Effect: effect, HourStart: cr.HourStart, HourEnd: cr.HourEnd})
		case "meeting-load":
			if cr.ThresholdHours <= 0 {
				return nil, fmt.Errorf("rule %d: thresholdHours must be positive", i)
			}
			rules = append(rules, MeetingLoadRule{Effect: effect, ThresholdHours: cr.ThresholdHours})
		default:
			return nil, fmt.Errorf("rule %d: unknown rule type: %q", i, cr.Type)
		}
	}
	return rules, nil
}

func parseEffect(effect string) (Effect, error) {
	switch effect {
	case string(EffectAvailable):
		return EffectAvailable, nil
	case string(EffectUnavailable):
		return EffectUnavailable, nil
	default:
		return "", fmt.Errorf("unknown effect: %q", effect)
	}
}
