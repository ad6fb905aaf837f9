// Package appointment manages doctor appointments.
package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medpal/medpal-api/internal/model"
	"github.com/medpal/medpal-api/internal/repository"
	"github.com/medpal/medpal-api/pkg/logger"
)

type Service struct {
	appointments repository.AppointmentRepository
	logger       *logger.Logger
}

func NewService(appointments repository.AppointmentRepository, log *logger.Logger) *Service {
	return &Service{appointments: appointments, logger: log}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	aptType := req.Type
	if aptType == "" {
		aptType = "checkup"
	}

	now := time.Now()
	apt := &model.Appointment{
		Base:       model.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		UserID:     userID,
		DoctorName: req.DoctorName,
		Specialty:  req.Specialty,
		Clinic:     req.Clinic,
		Location:   req.Location,
		Datetime:   req.Datetime,
		Notes:      req.Notes,
		Type:       aptType,
		Status:     model.AppointmentStatusScheduled,
	}
	if err := s.appointments.Create(ctx, apt); err != nil {
		return nil, err
	}
	return apt, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*model.Appointment, error) {
	return s.appointments.Get(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*model.Appointment, error) {
	return s.appointments.List(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.appointments.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.DoctorName != nil {
		apt.DoctorName = req.DoctorName
	}
	if req.Specialty != nil {
		apt.Specialty = req.Specialty
	}
	if req.Clinic != nil {
		apt.Clinic = req.Clinic
	}
	if req.Location != nil {
		apt.Location = req.Location
	}
	if req.Datetime != nil {
		apt.Datetime = *req.Datetime
	}
	if req.Notes != nil {
		apt.Notes = req.Notes
	}
	if req.Type != nil {
		apt.Type = *req.Type
	}
	if req.Status != nil {
		apt.Status = *req.Status
	}

	if err := s.appointments.Update(ctx, apt); err != nil {
		return nil, err
	}
	return apt, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.appointments.Delete(ctx, userID, id)
}
