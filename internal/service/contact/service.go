// Package contact manages emergency contacts.
package contact

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medpal/medpal-api/internal/model"
	"github.com/medpal/medpal-api/internal/repository"
	"github.com/medpal/medpal-api/pkg/logger"
)

type Service struct {
	contacts repository.ContactRepository
	logger   *logger.Logger
}

func NewService(contacts repository.ContactRepository, log *logger.Logger) *Service {
	return &Service{contacts: contacts, logger: log}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *model.CreateContactRequest) (*model.EmergencyContact, error) {
	now := time.Now()
	contact := &model.EmergencyContact{
		Base:      model.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		UserID:    userID,
		Name:      req.Name,
		Relation:  req.Relation,
		Phone:     req.Phone,
		Email:     req.Email,
		IsPrimary: req.IsPrimary,
	}
	if err := s.contacts.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*model.EmergencyContact, error) {
	return s.contacts.List(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req *model.UpdateContactRequest) (*model.EmergencyContact, error) {
	contact, err := s.contacts.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		contact.Name = *req.Name
	}
	if req.Relation != nil {
		contact.Relation = req.Relation
	}
	if req.Phone != nil {
		contact.Phone = *req.Phone
	}
	if req.Email != nil {
		contact.Email = req.Email
	}
	if req.IsPrimary != nil {
		contact.IsPrimary = *req.IsPrimary
	}

	if err := s.contacts.Update(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.contacts.Delete(ctx, userID, id)
}
