// Package emergency assembles and dispatches SOS alerts: the user's profile,
// active medications and emergency contacts, plus an optional location, mailed
// to the primary contacts and recorded as an outbox event.
package emergency

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medpal/medpal-api/internal/email"
	"github.com/medpal/medpal-api/internal/model"
	"github.com/medpal/medpal-api/internal/repository"
	apperrors "github.com/medpal/medpal-api/pkg/errors"
	"github.com/medpal/medpal-api/pkg/logger"
)

type SOSRequest struct {
	Location *string `json:"location"`
	Message  *string `json:"message"`
}

type SOSResult struct {
	AlertID   uuid.UUID `json:"alert_id"`
	Notified  []string  `json:"notified"`
	CreatedAt time.Time `json:"created_at"`
}

type Service struct {
	users    repository.UserRepository
	meds     repository.MedicationRepository
	contacts repository.ContactRepository
	outbox   repository.OutboxRepository
	mailer   email.Service
	logger   *logger.Logger
}

func NewService(
	users repository.UserRepository,
	meds repository.MedicationRepository,
	contacts repository.ContactRepository,
	outbox repository.OutboxRepository,
	mailer email.Service,
	log *logger.Logger,
) *Service {
	return &Service{users: users, meds: meds, contacts: contacts, outbox: outbox, mailer: mailer, logger: log}
}

// TriggerSOS requires at least one emergency contact. Primary contacts with an
// email address are mailed; when none is primary every contact with an email
// is.
func (s *Service) TriggerSOS(ctx context.Context, userID uuid.UUID, req *SOSRequest) (*SOSResult, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	contacts, err := s.contacts.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, apperrors.NewBadRequest("no emergency contacts configured", nil)
	}

	meds, err := s.meds.List(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	recipients := recipientEmails(contacts)
	alertID := uuid.New()
	now := time.Now()

	s.recordSOSEvent(ctx, alertID, user, meds, contacts, req, now)

	if len(recipients) > 0 {
		subject := fmt.Sprintf("SOS alert from %s", displayName(user))
		if err := s.mailer.SendSOSAlert(ctx, recipients, subject, sosBody(user, meds, req)); err != nil {
			s.logger.Error(err, "failed to send sos mail", "alert_id", alertID.String())
		}
	}

	s.logger.Warn("sos triggered",
		"user_id", userID.String(), "alert_id", alertID.String(), "notified", len(recipients))
	return &SOSResult{AlertID: alertID, Notified: recipients, CreatedAt: now}, nil
}

func recipientEmails(contacts []*model.EmergencyContact) []string {
	var primary, all []string
	for _, c := range contacts {
		if c.Email == nil || *c.Email == "" {
			continue
		}
		all = append(all, *c.Email)
		if c.IsPrimary {
			primary = append(primary, *c.Email)
		}
	}
	if len(primary) > 0 {
		return primary
	}
	return all
}

func sosBody(user *model.User, meds []*model.Medication, req *SOSRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s has triggered an emergency alert.\n\n", displayName(user))
	if req.Message != nil && *req.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n\n", *req.Message)
	}
	if req.Location != nil && *req.Location != "" {
		fmt.Fprintf(&b, "Last known location: %s\n\n", *req.Location)
	}
	if len(meds) > 0 {
		b.WriteString("Current medications:\n")
		for _, m := range meds {
			fmt.Fprintf(&b, "  - %s (%s)\n", m.Name, m.Dosage)
		}
	}
	return b.String()
}

func (s *Service) recordSOSEvent(ctx context.Context, alertID uuid.UUID, user *model.User, meds []*model.Medication, contacts []*model.EmergencyContact, req *SOSRequest, at time.Time) {
	medNames := make([]string, 0, len(meds))
	for _, m := range meds {
		medNames = append(medNames, m.Name)
	}
	contactIDs := make([]uuid.UUID, 0, len(contacts))
	for _, c := range contacts {
		contactIDs = append(contactIDs, c.ID)
	}

	payload, err := json.Marshal(map[string]interface{}{
		"alert_id":    alertID,
		"user_id":     user.ID,
		"location":    req.Location,
		"message":     req.Message,
		"medications": medNames,
		"contact_ids": contactIDs,
		"triggered":   at,
	})
	if err != nil {
		s.logger.Error(err, "failed to encode sos payload")
		return
	}

	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: model.EventEmergencySOS,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
		CreatedAt: at,
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to record sos event", "alert_id", alertID.String())
	}
}

func displayName(u *model.User) string {
	if u.FirstName != nil && *u.FirstName != "" {
		if u.LastName != nil && *u.LastName != "" {
			return *u.FirstName + " " + *u.LastName
		}
		return *u.FirstName
	}
	return u.Email
}
