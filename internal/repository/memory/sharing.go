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

type ContactRepository struct {
	mu       sync.Mutex
	contacts map[uuid.UUID]*model.EmergencyContact
}

func NewContactRepository() *ContactRepository {
	return &ContactRepository{contacts: make(map[uuid.UUID]*model.EmergencyContact)}
}

var _ repository.ContactRepository = (*ContactRepository)(nil)

func (r *ContactRepository) Create(_ context.Context, contact *model.EmergencyContact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *contact
	r.contacts[cp.ID] = &cp
	return nil
}

func (r *ContactRepository) Get(_ context.Context, userID, id uuid.UUID) (*model.EmergencyContact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contact, ok := r.contacts[id]
	if !ok || contact.UserID != userID {
		return nil, apperrors.NewNotFound("emergency contact", nil)
	}
	cp := *contact
	return &cp, nil
}

func (r *ContactRepository) Update(_ context.Context, contact *model.EmergencyContact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.contacts[contact.ID]
	if !ok || stored.UserID != contact.UserID {
		return apperrors.NewNotFound("emergency contact", nil)
	}
	cp := *contact
	cp.UpdatedAt = time.Now()
	r.contacts[cp.ID] = &cp
	return nil
}

func (r *ContactRepository) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	contact, ok := r.contacts[id]
	if !ok || contact.UserID != userID {
		return apperrors.NewNotFound("emergency contact", nil)
	}
	delete(r.contacts, id)
	return nil
}

func (r *ContactRepository) List(_ context.Context, userID uuid.UUID) ([]*model.EmergencyContact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.EmergencyContact
	for _, contact := range r.contacts {
		if contact.UserID != userID {
			continue
		}
		cp := *contact
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPrimary != out[j].IsPrimary {
			return out[i].IsPrimary
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

type FamilyShareRepository struct {
	mu     sync.Mutex
	shares map[uuid.UUID]*model.FamilyShare
}

func NewFamilyShareRepository() *FamilyShareRepository {
	return &FamilyShareRepository{shares: make(map[uuid.UUID]*model.FamilyShare)}
}

var _ repository.FamilyShareRepository = (*FamilyShareRepository)(nil)

func (r *FamilyShareRepository) Create(_ context.Context, share *model.FamilyShare) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *share
	r.shares[cp.ID] = &cp
	return nil
}

func (r *FamilyShareRepository) Get(_ context.Context, id uuid.UUID) (*model.FamilyShare, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	share, ok := r.shares[id]
	if !ok {
		return nil, apperrors.NewNotFound("family share", nil)
	}
	cp := *share
	return &cp, nil
}

func (r *FamilyShareRepository) Update(_ context.Context, share *model.FamilyShare) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shares[share.ID]; !ok {
		return apperrors.NewNotFound("family share", nil)
	}
	cp := *share
	cp.UpdatedAt = time.Now()
	r.shares[cp.ID] = &cp
	return nil
}

func (r *FamilyShareRepository) ListForUser(_ context.Context, userID uuid.UUID) ([]*model.FamilyShare, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.FamilyShare
	for _, share := range r.shares {
		if share.OwnerID != userID && (share.MemberID == nil || *share.MemberID != userID) {
			continue
		}
		cp := *share
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
