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

const medicationColumns = `id, user_id, name, brand, form, color, shape, dosage, schedule,
	start_date, end_date, notes, is_active, created_at, updated_at`

func (r *medicationRepository) Create(ctx context.Context, med *model.Medication) error {
	query := `
		INSERT INTO medications (
			id, user_id, name, brand, form, color, shape, dosage, schedule,
			start_date, end_date, notes, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.ExecContext(ctx, query,
		med.ID,
		med.UserID,
		med.Name,
		med.Brand,
		med.Form,
		med.Color,
		med.Shape,
		med.Dosage,
		med.Schedule,
		med.StartDate,
		med.EndDate,
		med.Notes,
		med.IsActive,
		med.CreatedAt,
		med.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewStoreUnavailable(fmt.Errorf("failed to create medication: %w", err))
	}
	return nil
}

func (r *medicationRepository) Get(ctx context.Context, userID, id uuid.UUID) (*model.Medication, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM medications
		WHERE id = $1 AND user_id = $2
	`, medicationColumns)

	var med model.Medication
	err := r.db.GetContext(ctx, &med, query, id, userID)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFound("medication", err)
	}
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(fmt.Errorf("failed to get medication: %w", err))
	}
	return &med, nil
}

func (r *medicationRepository) Update(ctx context.Context, med *model.Medication) error {
	query := `
		UPDATE medications
		SET name = $1, brand = $2, form = $3, color = $4, shape = $5, dosage = $6,
			schedule = $7, start_date = $8, end_date = $9, notes = $10, is_active = $11,
			updated_at = $12
		WHERE id = $13 AND user_id = $14
	`
	med.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		med.Name,
		med.Brand,
		med.Form,
		med.Color,
		med.Shape,
		med.Dosage,
		med.Schedule,
		med.StartDate,
		med.EndDate,
		med.Notes,
		med.IsActive,
		med.UpdatedAt,
		med.ID,
		med.UserID,
	)
	if err != nil {
		return apperrors.NewStoreUnavailable(fmt.Errorf("failed to update medication: %w", err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewStoreUnavailable(fmt.Errorf("failed to get rows affected: %w", err))
	}
	if rows == 0 {
		return apperrors.NewNotFound("medication", nil)
	}
	return nil
}

func (r *medicationRepository) List(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*model.Medication, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM medications
		WHERE user_id = $1
	`, medicationColumns)
	if activeOnly {
		query += " AND is_active = true"
	}
	query += " ORDER BY name ASC"

	var meds []*model.Medication
	if err := r.db.SelectContext(ctx, &meds, query, userID); err != nil {
		return nil, apperrors.NewStoreUnavailable(fmt.Errorf("failed to list medications: %w", err))
	}
	return meds, nil
}

// Deactivate performs the soft delete. Reminder logs that reference the
// medication stay untouched; they remain the historical record for analytics.
func (r *medicationRepository) Deactivate(ctx context.Context, userID, id uuid.UUID) error {
	query := `
		UPDATE medications
		SET is_active = false, updated_at = $1
		WHERE id = $2 AND user_id = $3
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id, userID)
	if err != nil {
		return apperrors.NewStoreUnavailable(fmt.Errorf("failed to deactivate medication: %w", err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewStoreUnavailable(fmt.Errorf("failed to get rows affected: %w", err))
	}
	if rows == 0 {
		return apperrors.NewNotFound("medication", nil)
	}
	return nil
}
