package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medpal/medpal-api/internal/model"
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
	}

	MedicationRepository interface {
		Create(ctx context.Context, med *model.Medication) error
		Get(ctx context.Context, userID, id uuid.UUID) (*model.Medication, error)
		Update(ctx context.Context, med *model.Medication) error
		List(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*model.Medication, error)
		Deactivate(ctx context.Context, userID, id uuid.UUID) error
	}

	// ReminderRepository persists dose events. CreateBatch must enforce the
	// (medication_id, scheduled_at) uniqueness invariant atomically and report
	// only the rows it actually inserted, so concurrent materialization calls
	// converge. UpdateStatus is a compare-and-set keyed by the status the
	// caller read; a zero-row update signals a lost race.
	ReminderRepository interface {
		CreateBatch(ctx context.Context, logs []*model.ReminderLog) ([]*model.ReminderLog, error)
		Get(ctx context.Context, userID, id uuid.UUID) (*model.ReminderLog, error)
		List(ctx context.Context, userID uuid.UUID, filters *model.ReminderFilters) ([]*model.ReminderLog, error)
		UpdateStatus(ctx context.Context, log *model.ReminderLog, expected model.ReminderStatus) (bool, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, apt *model.Appointment) error
		Get(ctx context.Context, userID, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, apt *model.Appointment) error
		Delete(ctx context.Context, userID, id uuid.UUID) error
		List(ctx context.Context, userID uuid.UUID) ([]*model.Appointment, error)
	}

	ContactRepository interface {
		Create(ctx context.Context, contact *model.EmergencyContact) error
		Get(ctx context.Context, userID, id uuid.UUID) (*model.EmergencyContact, error)
		Update(ctx context.Context, contact *model.EmergencyContact) error
		Delete(ctx context.Context, userID, id uuid.UUID) error
		List(ctx context.Context, userID uuid.UUID) ([]*model.EmergencyContact, error)
	}

	FamilyShareRepository interface {
		Create(ctx context.Context, share *model.FamilyShare) error
		Get(ctx context.Context, id uuid.UUID) (*model.FamilyShare, error)
		Update(ctx context.Context, share *model.FamilyShare) error
		ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.FamilyShare, error)
	}

	HealthMetricRepository interface {
		Create(ctx context.Context, metric *model.HealthMetric) error
		List(ctx context.Context, userID uuid.UUID, metricType string) ([]*model.HealthMetric, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
