package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReminderDeadline(t *testing.T) {
	scheduled := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	log := &ReminderLog{ScheduledAt: scheduled, Status: ReminderStatusScheduled}
	assert.Equal(t, scheduled, log.Deadline())

	until := scheduled.Add(30 * time.Minute)
	log.Status = ReminderStatusSnoozed
	log.SnoozedUntil = &until
	assert.Equal(t, until, log.Deadline(), "snooze moves the effective deadline")
}

func TestReminderEffectiveStatusAroundGraceBoundary(t *testing.T) {
	scheduled := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	grace := time.Hour
	log := &ReminderLog{ScheduledAt: scheduled, Status: ReminderStatusScheduled}

	deadline := scheduled.Add(grace)
	assert.Equal(t, ReminderStatusScheduled, log.EffectiveStatus(deadline, grace),
		"still pending exactly at deadline + grace")
	assert.Equal(t, ReminderStatusMissed, log.EffectiveStatus(deadline.Add(time.Second), grace))
}

func TestReminderTerminalStatusesNeverDerive(t *testing.T) {
	scheduled := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	farFuture := scheduled.Add(100 * time.Hour)

	taken := &ReminderLog{ScheduledAt: scheduled, Status: ReminderStatusTaken}
	assert.Equal(t, ReminderStatusTaken, taken.EffectiveStatus(farFuture, time.Hour))
	assert.False(t, taken.OverdueAt(farFuture, time.Hour))

	missed := &ReminderLog{ScheduledAt: scheduled, Status: ReminderStatusMissed}
	assert.Equal(t, ReminderStatusMissed, missed.EffectiveStatus(farFuture, time.Hour))
}

func TestReminderStatusClassification(t *testing.T) {
	assert.True(t, ReminderStatusTaken.Terminal())
	assert.True(t, ReminderStatusMissed.Terminal())
	assert.False(t, ReminderStatusScheduled.Terminal())
	assert.False(t, ReminderStatusSnoozed.Terminal())

	assert.True(t, ReminderStatusTaken.Resolved())
	assert.True(t, ReminderStatusMissed.Resolved())
	assert.False(t, ReminderStatusSnoozed.Resolved())
}
