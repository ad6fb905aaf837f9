// Package family manages sharing a user's medication plan with family
// members: invite by email, accept or decline with an invite token.
package family

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/medpal/medpal-api/internal/email"
	"github.com/medpal/medpal-api/internal/model"
	"github.com/medpal/medpal-api/internal/repository"
	apperrors "github.com/medpal/medpal-api/pkg/errors"
	"github.com/medpal/medpal-api/pkg/logger"
)

type Service struct {
	shares repository.FamilyShareRepository
	users  repository.UserRepository
	outbox repository.OutboxRepository
	mailer email.Service
	logger *logger.Logger
}

func NewService(
	shares repository.FamilyShareRepository,
	users repository.UserRepository,
	outbox repository.OutboxRepository,
	mailer email.Service,
	log *logger.Logger,
) *Service {
	return &Service{shares: shares, users: users, outbox: outbox, mailer: mailer, logger: log}
}

// Invite creates a pending share and mails the invite token to the member.
// Mail delivery failure does not roll the share back; the token can be
// re-sent out of band.
func (s *Service) Invite(ctx context.Context, ownerID uuid.UUID, req *model.CreateFamilyShareRequest) (*model.FamilyShare, error) {
	owner, err := s.users.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner.Email == req.MemberEmail {
		return nil, apperrors.NewBadRequest("cannot share with yourself", nil)
	}

	role := req.Role
	if role == "" {
		role = model.FamilyShareRoleViewer
	}

	token, err := inviteToken()
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}

	now := time.Now()
	share := &model.FamilyShare{
		Base:        model.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		OwnerID:     ownerID,
		MemberEmail: req.MemberEmail,
		Role:        role,
		Status:      model.FamilyShareStatusPending,
		InviteToken: token,
	}
	if err := s.shares.Create(ctx, share); err != nil {
		return nil, err
	}

	s.recordInviteEvent(ctx, share)

	if err := s.mailer.SendFamilyInvite(ctx, share.MemberEmail, displayName(owner), token); err != nil {
		s.logger.Error(err, "failed to send family invite", "share_id", share.ID.String())
	}
	return share, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*model.FamilyShare, error) {
	return s.shares.ListForUser(ctx, userID)
}

// Respond accepts or declines a pending invite. Only the invited account may
// respond: the responder's email must match the invite. Accepting binds the
// share to the responder's user id.
func (s *Service) Respond(ctx context.Context, userID, shareID uuid.UUID, accept bool) (*model.FamilyShare, error) {
	share, err := s.shares.Get(ctx, shareID)
	if err != nil {
		return nil, err
	}

	responder, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if share.MemberEmail != responder.Email {
		return nil, apperrors.NewNotFound("family share", nil)
	}
	if share.Status != model.FamilyShareStatusPending {
		return nil, apperrors.NewConflict("invite already answered", nil)
	}

	if accept {
		share.Status = model.FamilyShareStatusAccepted
		share.MemberID = &responder.ID
	} else {
		share.Status = model.FamilyShareStatusDeclined
	}

	if err := s.shares.Update(ctx, share); err != nil {
		return nil, err
	}
	s.logger.Info("family share answered",
		"share_id", share.ID.String(), "status", string(share.Status))
	return share, nil
}

func (s *Service) recordInviteEvent(ctx context.Context, share *model.FamilyShare) {
	payload, err := json.Marshal(map[string]interface{}{
		"share_id":     share.ID,
		"owner_id":     share.OwnerID,
		"member_email": share.MemberEmail,
		"role":         share.Role,
	})
	if err != nil {
		s.logger.Error(err, "failed to encode invite payload")
		return
	}
	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: model.EventFamilyInvite,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to record invite event", "share_id", share.ID.String())
	}
}

func inviteToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func displayName(u *model.User) string {
	if u.FirstName != nil && *u.FirstName != "" {
		return *u.FirstName
	}
	return u.Email
}
