// Package memory provides in-memory repository implementations backing
// service tests. They honor the same invariants as the postgres layer:
// batch-insert uniqueness on (medication_id, scheduled_at) and
// compare-and-set status updates.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medpal/medpal-api/internal/model"
	"github.com/medpal/medpal-api/internal/repository"
	apperrors "github.com/medpal/medpal-api/pkg/errors"
)

type ReminderRepository struct {
	mu   sync.Mutex
	logs map[uuid.UUID]*model.ReminderLog
}

func NewReminderRepository() *ReminderRepository {
	return &ReminderRepository{logs: make(map[uuid.UUID]*model.ReminderLog)}
}

var _ repository.ReminderRepository = (*ReminderRepository)(nil)

func (r *ReminderRepository) CreateBatch(_ context.Context, logs []*model.ReminderLog) ([]*model.ReminderLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := make([]*model.ReminderLog, 0, len(logs))
	for _, log := range logs {
		if r.existsLocked(log.MedicationID, log.ScheduledAt) {
			continue
		}
		cp := *log
		r.logs[cp.ID] = &cp
		inserted = append(inserted, log)
	}
	return inserted, nil
}

func (r *ReminderRepository) existsLocked(medicationID uuid.UUID, scheduledAt time.Time) bool {
	for _, existing := range r.logs {
		if existing.MedicationID == medicationID && existing.ScheduledAt.Equal(scheduledAt) {
			return true
		}
	}
	return false
}

func (r *ReminderRepository) Get(_ context.Context, userID, id uuid.UUID) (*model.ReminderLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	log, ok := r.logs[id]
	if !ok || log.UserID != userID {
		return nil, apperrors.NewNotFound("reminder", nil)
	}
	cp := *log
	return &cp, nil
}

func (r *ReminderRepository) List(_ context.Context, userID uuid.UUID, filters *model.ReminderFilters) ([]*model.ReminderLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.ReminderLog
	for _, log := range r.logs {
		if log.UserID != userID {
			continue
		}
		if filters != nil {
			if filters.MedicationID != nil && log.MedicationID != *filters.MedicationID {
				continue
			}
			if filters.From != nil && log.ScheduledAt.Before(*filters.From) {
				continue
			}
			if filters.To != nil && !log.ScheduledAt.Before(*filters.To) {
				continue
			}
		}
		cp := *log
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.After(out[j].ScheduledAt) })
	return out, nil
}

func (r *ReminderRepository) UpdateStatus(_ context.Context, log *model.ReminderLog, expected model.ReminderStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.logs[log.ID]
	if !ok || stored.UserID != log.UserID || stored.Status != expected {
		return false, nil
	}
	stored.Status = log.Status
	stored.TakenAt = log.TakenAt
	stored.SnoozedUntil = log.SnoozedUntil
	return true, nil
}

type MedicationRepository struct {
	mu   sync.Mutex
	meds map[uuid.UUID]*model.Medication
}

func NewMedicationRepository() *MedicationRepository {
	return &MedicationRepository{meds: make(map[uuid.UUID]*model.Medication)}
}

var _ repository.MedicationRepository = (*MedicationRepository)(nil)

func (r *MedicationRepository) Create(_ context.Context, med *model.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *med
	r.meds[cp.ID] = &cp
	return nil
}

func (r *MedicationRepository) Get(_ context.Context, userID, id uuid.UUID) (*model.Medication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	med, ok := r.meds[id]
	if !ok || med.UserID != userID {
		return nil, apperrors.NewNotFound("medication", nil)
	}
	cp := *med
	return &cp, nil
}

func (r *MedicationRepository) Update(_ context.Context, med *model.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.meds[med.ID]
	if !ok || stored.UserID != med.UserID {
		return apperrors.NewNotFound("medication", nil)
	}
	cp := *med
	cp.UpdatedAt = time.Now()
	r.meds[cp.ID] = &cp
	return nil
}

func (r *MedicationRepository) List(_ context.Context, userID uuid.UUID, activeOnly bool) ([]*model.Medication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Medication
	for _, med := range r.meds {
		if med.UserID != userID {
			continue
		}
		if activeOnly && !med.IsActive {
			continue
		}
		cp := *med
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MedicationRepository) Deactivate(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	med, ok := r.meds[id]
	if !ok || med.UserID != userID {
		return apperrors.NewNotFound("medication", nil)
	}
	med.IsActive = false
	med.UpdatedAt = time.Now()
	return nil
}

type UserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[uuid.UUID]*model.User)}
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return apperrors.NewConflict("email already registered", nil)
		}
	}
	cp := *user
	r.users[cp.ID] = &cp
	return nil
}

func (r *UserRepository) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.NewNotFound("user", nil)
	}
	cp := *user
	return &cp, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, apperrors.NewNotFound("user", nil)
}

func (r *UserRepository) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return apperrors.NewNotFound("user", nil)
	}
	cp := *user
	cp.UpdatedAt = time.Now()
	r.users[cp.ID] = &cp
	return nil
}

type OutboxRepository struct {
	mu     sync.Mutex
	events []*model.OutboxEvent
}

func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{}
}

var _ repository.OutboxRepository = (*OutboxRepository)(nil)

func (r *OutboxRepository) Create(_ context.Context, event *model.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *event
	r.events = append(r.events, &cp)
	return nil
}

func (r *OutboxRepository) GetPendingEvents(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.OutboxEvent
	for _, event := range r.events {
		if event.Status != model.OutboxStatusPending {
			continue
		}
		cp := *event
		out = append(out, &cp)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *OutboxRepository) UpdateStatus(_ context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, event := range r.events {
		if event.ID == id {
			now := time.Now()
			event.Status = status
			event.ErrorMessage = errMsg
			event.ProcessedAt = &now
			event.RetryCount++
			return nil
		}
	}
	return apperrors.NewNotFound("outbox event", nil)
}

func (r *OutboxRepository) DeleteProcessedBefore(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var kept []*model.OutboxEvent
	var deleted int64
	for _, event := range r.events {
		if event.Status == model.OutboxStatusProcessed && event.ProcessedAt != nil && event.ProcessedAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, event)
	}
	r.events = kept
	return deleted, nil
}

// Events returns a snapshot of everything recorded, oldest first.
func (r *OutboxRepository) Events() []*model.OutboxEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*model.OutboxEvent, 0, len(r.events))
	for _, event := range r.events {
		cp := *event
		out = append(out, &cp)
	}
	return out
}
