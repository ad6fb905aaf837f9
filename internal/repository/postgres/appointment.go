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

const appointmentColumns = `id, user_id, doctor_name, specialty, clinic, location, datetime,
	notes, type, status, created_at, updated_at`

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, user_id, doctor_name, specialty, clinic, location, datetime,
			notes, type, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		apt.ID,
		apt.UserID,
		apt.DoctorName,
		apt.Specialty,
		apt.Clinic,
		apt.Location,
		apt.Datetime,
		apt.Notes,
		apt.Type,
		apt.Status,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewStoreUnavailable(fmt.Errorf("failed to create appointment: %w", err))
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, userID, id uuid.UUID) (*model.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM appointments
		WHERE id = $1 AND user_id = $2
	`, appointmentColumns)

	var apt model.Appointment
	err := r.db.GetContext(ctx, &apt, query, id, userID)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFound("appointment", err)
	}
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(fmt.Errorf("failed to get appointment: %w", err))
	}
	return &apt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET doctor_name = $1, specialty = $2, clinic = $3, location = $4, datetime = $5,
			notes = $6, type = $7, status = $8, updated_at = $9
		WHERE id = $10 AND user_id = $11
	`
	apt.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		apt.DoctorName,
		apt.Specialty,
		apt.Clinic,
		apt.Location,
		apt.Datetime,
		apt.Notes,
		apt.Type,
		apt.Status,
		apt.UpdatedAt,
		apt.ID,
		apt.UserID,
	)
	if err != nil {
		return apperrors.NewStoreUnavailable(fmt.Errorf("failed to update appointment: %w", err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewStoreUnavailable(fmt.Errorf("failed to get rows affected: %w", err))
	}
	if rows == 0 {
		return apperrors.NewNotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM appointments WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return apperrors.NewStoreUnavailable(fmt.Errorf("failed to delete appointment: %w", err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewStoreUnavailable(fmt.Errorf("failed to get rows affected: %w", err))
	}
	if rows == 0 {
		return apperrors.NewNotFound("appointment", nil)
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, userID uuid.UUID) ([]*model.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM appointments
		WHERE user_id = $1
		ORDER BY datetime ASC
	`, appointmentColumns)

	var apts []*model.Appointment
	if err := r.db.SelectContext(ctx, &apts, query, userID); err != nil {
		return nil, apperrors.NewStoreUnavailable(fmt.Errorf("failed to list appointments: %w", err))
	}
	return apts, nil
}
