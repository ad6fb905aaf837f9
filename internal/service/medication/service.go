// Package medication manages the medication catalog. Schedules are validated
// here, before anything reaches the store; deletion is a soft isActive flip
// so historical dose events keep their reference.
package medication

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medpal/medpal-api/internal/model"
	"github.com/medpal/medpal-api/internal/repository"
	"github.com/medpal/medpal-api/pkg/logger"
)

type Service struct {
	meds   repository.MedicationRepository
	logger *logger.Logger
}

func NewService(meds repository.MedicationRepository, log *logger.Logger) *Service {
	return &Service{meds: meds, logger: log}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *model.CreateMedicationRequest) (*model.Medication, error) {
	if err := req.Schedule.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	med := &model.Medication{
		Base:      model.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		UserID:    userID,
		Name:      req.Name,
		Brand:     req.Brand,
		Form:      req.Form,
		Color:     req.Color,
		Shape:     req.Shape,
		Dosage:    req.Dosage,
		Schedule:  req.Schedule,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
		IsActive:  true,
	}
	if err := s.meds.Create(ctx, med); err != nil {
		return nil, err
	}
	s.logger.Info("medication created", "medication_id", med.ID.String(), "user_id", userID.String())
	return med, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*model.Medication, error) {
	return s.meds.Get(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*model.Medication, error) {
	return s.meds.List(ctx, userID, activeOnly)
}

// Update applies the non-nil fields of the request. A changed schedule is
// re-validated before it is stored.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req *model.UpdateMedicationRequest) (*model.Medication, error) {
	med, err := s.meds.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Schedule != nil {
		if err := req.Schedule.Validate(); err != nil {
			return nil, err
		}
		med.Schedule = *req.Schedule
	}
	if req.Name != nil {
		med.Name = *req.Name
	}
	if req.Brand != nil {
		med.Brand = req.Brand
	}
	if req.Form != nil {
		med.Form = req.Form
	}
	if req.Color != nil {
		med.Color = req.Color
	}
	if req.Shape != nil {
		med.Shape = req.Shape
	}
	if req.Dosage != nil {
		med.Dosage = *req.Dosage
	}
	if req.StartDate != nil {
		med.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		med.EndDate = req.EndDate
	}
	if req.Notes != nil {
		med.Notes = req.Notes
	}
	if req.IsActive != nil {
		med.IsActive = *req.IsActive
	}

	if err := s.meds.Update(ctx, med); err != nil {
		return nil, err
	}
	return med, nil
}

// Deactivate soft-deletes: the row stays, reminder logs keep pointing at it.
func (s *Service) Deactivate(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.meds.Deactivate(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info("medication deactivated", "medication_id", id.String(), "user_id", userID.String())
	return nil
}
