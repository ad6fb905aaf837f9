package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/medpal/medpal-api/pkg/errors"
)

// Frequency classifies how often a medication is dosed. The class fixes the
// required number of times-of-day.
type Frequency string

const (
	FrequencyOnceDaily       Frequency = "once-daily"
	FrequencyTwiceDaily      Frequency = "twice-daily"
	FrequencyThreeTimesDaily Frequency = "three-times-daily"
	FrequencyFourTimesDaily  Frequency = "four-times-daily"
	FrequencyWeekly          Frequency = "weekly"
	FrequencyAsNeeded        Frequency = "as-needed"
)

// requiredTimes maps a daily frequency class to its exact times-of-day count.
// Weekly and as-needed are validated separately.
var requiredTimes = map[Frequency]int{
	FrequencyOnceDaily:       1,
	FrequencyTwiceDaily:      2,
	FrequencyThreeTimesDaily: 3,
	FrequencyFourTimesDaily:  4,
}

// Schedule is the recurrence rule attached to a medication. It is stored as a
// structured jsonb value so it can be validated at write time instead of
// failing silently when reminders are expanded.
type Schedule struct {
	Frequency Frequency      `json:"frequency"`
	Times     []string       `json:"times,omitempty"`    // wall clock, "15:04"
	Weekdays  []time.Weekday `json:"weekdays,omitempty"` // weekly only, 0=Sunday
}

func (s Schedule) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *Schedule) Scan(src interface{}) error {
	if src == nil {
		*s = Schedule{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported schedule source type %T", src)
	}
	return json.Unmarshal(b, s)
}

// Validate checks the descriptor against its frequency class: times-of-day
// count must match the class, every time must be a valid wall-clock value and
// weekly schedules need at least one weekday.
func (s Schedule) Validate() error {
	switch s.Frequency {
	case FrequencyAsNeeded:
		if len(s.Times) != 0 {
			return errors.NewInvalidSchedule("as-needed schedules carry no times of day")
		}
		return nil
	case FrequencyWeekly:
		if len(s.Times) == 0 {
			return errors.NewInvalidSchedule("weekly schedules need at least one time of day")
		}
		if len(s.Weekdays) == 0 {
			return errors.NewInvalidSchedule("weekly schedules need at least one weekday")
		}
		for _, d := range s.Weekdays {
			if d < time.Sunday || d > time.Saturday {
				return errors.NewInvalidSchedule(fmt.Sprintf("invalid weekday %d", d))
			}
		}
	case FrequencyOnceDaily, FrequencyTwiceDaily, FrequencyThreeTimesDaily, FrequencyFourTimesDaily:
		if want := requiredTimes[s.Frequency]; len(s.Times) != want {
			return errors.NewInvalidSchedule(fmt.Sprintf("%s schedules require exactly %d times of day, got %d", s.Frequency, want, len(s.Times)))
		}
	default:
		return errors.NewInvalidSchedule(fmt.Sprintf("unknown frequency %q", s.Frequency))
	}

	seen := make(map[int]bool, len(s.Times))
	for _, t := range s.Times {
		hour, minute, err := ParseTimeOfDay(t)
		if err != nil {
			return errors.NewInvalidSchedule(fmt.Sprintf("invalid time of day %q", t))
		}
		// Compare parsed values so "8:00" and "08:00" count as the same slot.
		key := hour*60 + minute
		if seen[key] {
			return errors.NewInvalidSchedule(fmt.Sprintf("duplicate time of day %q", t))
		}
		seen[key] = true
	}
	return nil
}

// OccursOn reports whether the schedule produces doses on the given weekday.
func (s Schedule) OccursOn(day time.Weekday) bool {
	if s.Frequency != FrequencyWeekly {
		return true
	}
	for _, d := range s.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// ParseTimeOfDay parses a "HH:MM" wall-clock value.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}
