// Package reminder materializes medication schedules into concrete dose
// events and drives their lifecycle: scheduled → taken | snoozed | missed.
// Missed is never user-triggered; it is derived from the deadline and the
// configured grace period, presented lazily on reads and persisted on the
// next write-path touch.
package reminder

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/medpal/medpal-api/internal/config"
	"github.com/medpal/medpal-api/internal/model"
	"github.com/medpal/medpal-api/internal/repository"
	apperrors "github.com/medpal/medpal-api/pkg/errors"
	"github.com/medpal/medpal-api/pkg/logger"
	"github.com/medpal/medpal-api/pkg/metrics"
)

type Service struct {
	reminders repository.ReminderRepository
	meds      repository.MedicationRepository
	users     repository.UserRepository
	outbox    repository.OutboxRepository
	metrics   *metrics.Metrics
	logger    *logger.Logger
	policy    config.ReminderConfig
	now       func() time.Time
}

func NewService(
	reminders repository.ReminderRepository,
	meds repository.MedicationRepository,
	users repository.UserRepository,
	outbox repository.OutboxRepository,
	m *metrics.Metrics,
	log *logger.Logger,
	policy config.ReminderConfig,
) *Service {
	if policy.GracePeriod <= 0 {
		policy.GracePeriod = time.Hour
	}
	if policy.SnoozeInterval <= 0 {
		policy.SnoozeInterval = 10 * time.Minute
	}
	return &Service{
		reminders: reminders,
		meds:      meds,
		users:     users,
		outbox:    outbox,
		metrics:   m,
		logger:    log,
		policy:    policy,
		now:       time.Now,
	}
}

// WithNow overrides the service clock.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// MaterializeWindow expands the medication's schedule over [from, to] into
// persisted dose events. Events that already exist are skipped, so concurrent
// calls over overlapping windows converge; only newly created events are
// returned. An empty result is a valid outcome.
func (s *Service) MaterializeWindow(ctx context.Context, userID, medicationID uuid.UUID, from, to time.Time) ([]*model.ReminderLog, error) {
	if !from.Before(to) {
		return nil, apperrors.NewBadRequest("window start must precede window end", nil)
	}

	timer := prometheus.NewTimer(s.metrics.MaterializeLatency)
	defer timer.ObserveDuration()

	med, err := s.meds.Get(ctx, userID, medicationID)
	if err != nil {
		return nil, err
	}
	if err := med.Schedule.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	instants := expandWindow(med, from, to, user.Location())
	if len(instants) == 0 {
		return []*model.ReminderLog{}, nil
	}

	now := s.now()
	logs := make([]*model.ReminderLog, 0, len(instants))
	for _, at := range instants {
		logs = append(logs, &model.ReminderLog{
			ID:           uuid.New(),
			MedicationID: med.ID,
			UserID:       userID,
			ScheduledAt:  at.UTC(),
			Status:       model.ReminderStatusScheduled,
			CreatedAt:    now,
		})
	}

	inserted, err := s.reminders.CreateBatch(ctx, logs)
	if err != nil {
		return nil, err
	}

	s.metrics.RemindersMaterialized.Add(float64(len(inserted)))
	s.logger.Debug("materialized reminder window",
		"medication_id", med.ID.String(), "candidates", len(logs), "created", len(inserted))
	return inserted, nil
}

// Get returns a single dose event with its lazily derived status: an overdue
// scheduled/snoozed event presents as missed without being written.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*model.ReminderLog, error) {
	log, err := s.reminders.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	log.Status = log.EffectiveStatus(s.now(), s.policy.GracePeriod)
	return log, nil
}

// List returns the user's dose events, lazily derived, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, filters *model.ReminderFilters) ([]*model.ReminderLog, error) {
	logs, err := s.reminders.List(ctx, userID, filters)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for _, log := range logs {
		log.Status = log.EffectiveStatus(now, s.policy.GracePeriod)
	}
	return logs, nil
}

// Take acknowledges a dose. Taking an already-taken event is a no-op success;
// taking a missed event is a conflict.
func (s *Service) Take(ctx context.Context, userID, id uuid.UUID) (*model.ReminderLog, error) {
	return s.transition(ctx, userID, id, model.ReminderActionTake)
}

// Snooze pushes the effective deadline by the configured snooze interval.
// ScheduledAt never changes.
func (s *Service) Snooze(ctx context.Context, userID, id uuid.UUID) (*model.ReminderLog, error) {
	return s.transition(ctx, userID, id, model.ReminderActionSnooze)
}

// transition runs one lifecycle action through a compare-and-set on the
// status read. A lost race is retried once against a fresh read; losing twice
// surfaces as a conflict. Lazy-missed is persisted first so the action is
// judged against the event's true state.
func (s *Service) transition(ctx context.Context, userID, id uuid.UUID, action model.ReminderAction) (*model.ReminderLog, error) {
	log, err := s.reminders.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < 2; attempt++ {
		now := s.now()

		if log.OverdueAt(now, s.policy.GracePeriod) {
			missed := *log
			missed.Status = model.ReminderStatusMissed
			ok, err := s.reminders.UpdateStatus(ctx, &missed, log.Status)
			if err != nil {
				return nil, err
			}
			if !ok {
				s.metrics.TransitionConflicts.Inc()
				if log, err = s.reminders.Get(ctx, userID, id); err != nil {
					return nil, err
				}
				continue
			}
			log = &missed
			s.metrics.ReminderTransitions.WithLabelValues("expire", string(model.ReminderStatusMissed)).Inc()
			s.recordEvent(ctx, model.EventReminderMissed, log)
		}

		switch log.Status {
		case model.ReminderStatusTaken:
			// Duplicate acknowledgment, nothing to change.
			return log, nil
		case model.ReminderStatusMissed:
			return nil, apperrors.NewConflict("reminder already missed", nil)
		}

		next := *log
		switch action {
		case model.ReminderActionTake:
			takenAt := now
			next.Status = model.ReminderStatusTaken
			next.TakenAt = &takenAt
			next.SnoozedUntil = nil
		case model.ReminderActionSnooze:
			until := now.Add(s.policy.SnoozeInterval)
			next.Status = model.ReminderStatusSnoozed
			next.SnoozedUntil = &until
		default:
			return nil, apperrors.NewBadRequest("unknown reminder action", nil)
		}

		ok, err := s.reminders.UpdateStatus(ctx, &next, log.Status)
		if err != nil {
			return nil, err
		}
		if ok {
			s.metrics.ReminderTransitions.WithLabelValues(string(action), string(next.Status)).Inc()
			s.recordEvent(ctx, eventTypeFor(action), &next)
			return &next, nil
		}

		s.metrics.TransitionConflicts.Inc()
		if log, err = s.reminders.Get(ctx, userID, id); err != nil {
			return nil, err
		}
	}
	return nil, apperrors.NewConflict("reminder changed concurrently", nil)
}

func eventTypeFor(action model.ReminderAction) string {
	if action == model.ReminderActionSnooze {
		return model.EventReminderSnoozed
	}
	return model.EventReminderTaken
}

// recordEvent writes a lifecycle event into the outbox for the worker to
// publish. Failing to record never fails the transition itself.
func (s *Service) recordEvent(ctx context.Context, eventType string, log *model.ReminderLog) {
	payload, err := json.Marshal(map[string]interface{}{
		"reminder_id":   log.ID,
		"medication_id": log.MedicationID,
		"user_id":       log.UserID,
		"status":        log.Status,
		"scheduled_at":  log.ScheduledAt,
	})
	if err != nil {
		s.logger.Error(err, "failed to encode outbox payload", "event_type", eventType)
		return
	}

	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
		CreatedAt: s.now(),
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to record outbox event", "event_type", eventType)
	}
}
