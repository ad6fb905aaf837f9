package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/medpal/medpal-api/pkg/errors"
)

func TestScheduleValidate(t *testing.T) {
	tests := []struct {
		name     string
		schedule Schedule
		valid    bool
	}{
		{
			name:     "once daily with one time",
			schedule: Schedule{Frequency: FrequencyOnceDaily, Times: []string{"08:00"}},
			valid:    true,
		},
		{
			name:     "once daily with two times",
			schedule: Schedule{Frequency: FrequencyOnceDaily, Times: []string{"08:00", "20:00"}},
			valid:    false,
		},
		{
			name:     "twice daily with two times",
			schedule: Schedule{Frequency: FrequencyTwiceDaily, Times: []string{"08:00", "20:00"}},
			valid:    true,
		},
		{
			name:     "twice daily with one time",
			schedule: Schedule{Frequency: FrequencyTwiceDaily, Times: []string{"08:00"}},
			valid:    false,
		},
		{
			name:     "three times daily",
			schedule: Schedule{Frequency: FrequencyThreeTimesDaily, Times: []string{"08:00", "14:00", "20:00"}},
			valid:    true,
		},
		{
			name:     "four times daily",
			schedule: Schedule{Frequency: FrequencyFourTimesDaily, Times: []string{"06:00", "12:00", "18:00", "23:00"}},
			valid:    true,
		},
		{
			name: "weekly with time and weekday",
			schedule: Schedule{
				Frequency: FrequencyWeekly,
				Times:     []string{"09:00"},
				Weekdays:  []time.Weekday{time.Monday},
			},
			valid: true,
		},
		{
			name:     "weekly without weekdays",
			schedule: Schedule{Frequency: FrequencyWeekly, Times: []string{"09:00"}},
			valid:    false,
		},
		{
			name:     "weekly without times",
			schedule: Schedule{Frequency: FrequencyWeekly, Weekdays: []time.Weekday{time.Monday}},
			valid:    false,
		},
		{
			name:     "as needed without times",
			schedule: Schedule{Frequency: FrequencyAsNeeded},
			valid:    true,
		},
		{
			name:     "as needed with times",
			schedule: Schedule{Frequency: FrequencyAsNeeded, Times: []string{"08:00"}},
			valid:    false,
		},
		{
			name:     "malformed time of day",
			schedule: Schedule{Frequency: FrequencyOnceDaily, Times: []string{"25:00"}},
			valid:    false,
		},
		{
			name:     "twice daily with duplicate times",
			schedule: Schedule{Frequency: FrequencyTwiceDaily, Times: []string{"08:00", "08:00"}},
			valid:    false,
		},
		{
			name:     "duplicate times differing only in zero padding",
			schedule: Schedule{Frequency: FrequencyTwiceDaily, Times: []string{"8:00", "08:00"}},
			valid:    false,
		},
		{
			name:     "non numeric time of day",
			schedule: Schedule{Frequency: FrequencyOnceDaily, Times: []string{"morning"}},
			valid:    false,
		},
		{
			name:     "unknown frequency",
			schedule: Schedule{Frequency: "hourly", Times: []string{"08:00"}},
			valid:    false,
		},
		{
			name:     "empty frequency",
			schedule: Schedule{},
			valid:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schedule.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, apperrors.IsInvalidSchedule(err))
			}
		})
	}
}

func TestScheduleOccursOn(t *testing.T) {
	weekly := Schedule{
		Frequency: FrequencyWeekly,
		Times:     []string{"09:00"},
		Weekdays:  []time.Weekday{time.Monday, time.Friday},
	}
	assert.True(t, weekly.OccursOn(time.Monday))
	assert.True(t, weekly.OccursOn(time.Friday))
	assert.False(t, weekly.OccursOn(time.Sunday))

	daily := Schedule{Frequency: FrequencyOnceDaily, Times: []string{"08:00"}}
	for d := time.Sunday; d <= time.Saturday; d++ {
		assert.True(t, daily.OccursOn(d))
	}
}

func TestParseTimeOfDay(t *testing.T) {
	hour, minute, err := ParseTimeOfDay("08:30")
	require.NoError(t, err)
	assert.Equal(t, 8, hour)
	assert.Equal(t, 30, minute)

	_, _, err = ParseTimeOfDay("8:30:00")
	assert.Error(t, err)

	_, _, err = ParseTimeOfDay("24:00")
	assert.Error(t, err)
}

func TestScheduleRoundTripsThroughJSONB(t *testing.T) {
	in := Schedule{
		Frequency: FrequencyWeekly,
		Times:     []string{"09:00", "21:00"},
		Weekdays:  []time.Weekday{time.Tuesday},
	}

	v, err := in.Value()
	require.NoError(t, err)

	var out Schedule
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)
}
