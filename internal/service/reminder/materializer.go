package reminder

import (
	"sort"
	"time"

	"github.com/medpal/medpal-api/internal/model"
)

// expandWindow lists the candidate dose instants a medication's schedule
// produces inside [from, to], evaluated day by day in the owner's time zone.
// The medication's active range clips the window; as-needed schedules produce
// nothing. The schedule is assumed validated.
func expandWindow(med *model.Medication, from, to time.Time, loc *time.Location) []time.Time {
	if med.Schedule.Frequency == model.FrequencyAsNeeded {
		return nil
	}

	from = from.In(loc)
	to = to.In(loc)

	var out []time.Time
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	for !day.After(to) {
		if med.ActiveOn(day) && med.Schedule.OccursOn(day.Weekday()) {
			for _, tod := range med.Schedule.Times {
				hour, minute, err := model.ParseTimeOfDay(tod)
				if err != nil {
					continue
				}
				instant := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
				if instant.Before(from) || instant.After(to) {
					continue
				}
				out = append(out, instant)
			}
		}
		day = day.AddDate(0, 0, 1)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
