package model

import (
	"time"

	"github.com/google/uuid"
)

type ReminderStatus string

const (
	ReminderStatusScheduled ReminderStatus = "scheduled"
	ReminderStatusTaken     ReminderStatus = "taken"
	ReminderStatusMissed    ReminderStatus = "missed"
	ReminderStatusSnoozed   ReminderStatus = "snoozed"
)

// Terminal reports whether a status admits no further transitions.
func (s ReminderStatus) Terminal() bool {
	return s == ReminderStatusTaken || s == ReminderStatusMissed
}

// Resolved reports whether the status counts toward the adherence denominator.
func (s ReminderStatus) Resolved() bool {
	return s == ReminderStatusTaken || s == ReminderStatusMissed
}

type ReminderAction string

const (
	ReminderActionTake   ReminderAction = "take"
	ReminderActionSnooze ReminderAction = "snooze"
)

// ReminderLog is one concrete dose event: "take this medication at this
// instant". Created by the materializer, mutated only through lifecycle
// transitions, never deleted.
type ReminderLog struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	MedicationID uuid.UUID      `db:"medication_id" json:"medication_id"`
	UserID       uuid.UUID      `db:"user_id" json:"user_id"`
	ScheduledAt  time.Time      `db:"scheduled_at" json:"scheduled_at"`
	TakenAt      *time.Time     `db:"taken_at" json:"taken_at,omitempty"`
	SnoozedUntil *time.Time     `db:"snoozed_until" json:"snoozed_until,omitempty"`
	Status       ReminderStatus `db:"status" json:"status"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

// Deadline is the instant after which the grace period starts counting: the
// snooze deadline when snoozed, the original schedule otherwise. ScheduledAt
// itself never changes, so the original schedule stays auditable.
func (r *ReminderLog) Deadline() time.Time {
	if r.Status == ReminderStatusSnoozed && r.SnoozedUntil != nil {
		return *r.SnoozedUntil
	}
	return r.ScheduledAt
}

// OverdueAt reports whether the event should present as missed at the given
// instant, assuming it has not resolved yet.
func (r *ReminderLog) OverdueAt(now time.Time, grace time.Duration) bool {
	if r.Status.Terminal() {
		return false
	}
	return now.After(r.Deadline().Add(grace))
}

// EffectiveStatus derives the status a reader should see at the given
// instant. Overdue scheduled/snoozed events present as missed without being
// written; persistence happens on the next write-path touch.
func (r *ReminderLog) EffectiveStatus(now time.Time, grace time.Duration) ReminderStatus {
	if r.OverdueAt(now, grace) {
		return ReminderStatusMissed
	}
	return r.Status
}

// ReminderFilters narrows a listing to [From, To): From is inclusive, To is
// exclusive, so adjacent ranges never see the same dose event twice.
type ReminderFilters struct {
	MedicationID *uuid.UUID
	From         *time.Time
	To           *time.Time
}

type MaterializeRequest struct {
	MedicationID uuid.UUID `json:"medication_id" binding:"required"`
	From         time.Time `json:"from" binding:"required"`
	To           time.Time `json:"to" binding:"required"`
}
