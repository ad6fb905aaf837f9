package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medpal/medpal-api/internal/model"
	apperrors "github.com/medpal/medpal-api/pkg/errors"
)

const contactColumns = `id, user_id, name, relation, phone, email, is_primary, created_at, updated_at`

func (r *contactRepository) Create(ctx context.Context, contact *model.EmergencyContact) error {
	query := `
		INSERT INTO emergency_contacts (
			id, user_id, name, relation, phone, email, is_primary, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		contact.ID,
		contact.UserID,
		contact.Name,
		contact.Relation,
		contact.Phone,
		contact.Email,
		contact.IsPrimary,
		contact.CreatedAt,
		contact.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewStoreUnavailable(fmt.Errorf("failed to create emergency contact: %w", err))
	}
	return nil
}

func (r *contactRepository) Get(ctx context.Context, userID, id uuid.UUID) (*model.EmergencyContact, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM emergency_contacts
		WHERE id = $1 AND user_id = $2
	`, contactColumns)

	var contact model.EmergencyContact
	err := r.db.GetContext(ctx, &contact, query, id, userID)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFound("emergency contact", err)
	}
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(fmt.Errorf("failed to get emergency contact: %w", err))
	}
	return &contact, nil
}

func (r *contactRepository) Update(ctx context.Context, contact *model.EmergencyContact) error {
	query := `
		UPDATE emergency_contacts
		SET name = $1, relation = $2, phone = $3, email = $4, is_primary = $5, updated_at = $6
		WHERE id = $7 AND user_id = $8
	`
	contact.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		contact.Name,
		contact.Relation,
		contact.Phone,
		contact.Email,
		contact.IsPrimary,
		contact.UpdatedAt,
		contact.ID,
		contact.UserID,
	)
	if err != nil {
		return apperrors.NewStoreUnavailable(fmt.Errorf("failed to update emergency contact: %w", err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewStoreUnavailable(fmt.Errorf("failed to get rows affected: %w", err))
	}
	if rows == 0 {
		return apperrors.NewNotFound("emergency contact", nil)
	}
	return nil
}

func (r *contactRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM emergency_contacts WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return apperrors.NewStoreUnavailable(fmt.Errorf("failed to delete emergency contact: %w", err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewStoreUnavailable(fmt.Errorf("failed to get rows affected: %w", err))
	}
	if rows == 0 {
		return apperrors.NewNotFound("emergency contact", nil)
	}
	return nil
}

func (r *contactRepository) List(ctx context.Context, userID uuid.UUID) ([]*model.EmergencyContact, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM emergency_contacts
		WHERE user_id = $1
		ORDER BY is_primary DESC, name ASC
	`, contactColumns)

	var contacts []*model.EmergencyContact
	if err := r.db.SelectContext(ctx, &contacts, query, userID); err != nil {
		return nil, apperrors.NewStoreUnavailable(fmt.Errorf("failed to list emergency contacts: %w", err))
	}
	return contacts, nil
}
