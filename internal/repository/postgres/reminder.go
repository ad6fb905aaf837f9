package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/medpal/medpal-api/internal/model"
	apperrors "github.com/medpal/medpal-api/pkg/errors"
)

const reminderColumns = `id, medication_id, user_id, scheduled_at, taken_at, snoozed_until, status, created_at`

// CreateBatch inserts the candidate dose events, relying on the unique index
// on (medication_id, scheduled_at) to drop candidates that already exist.
// Only the rows actually inserted are returned, so concurrent calls over the
// same window converge to one event per candidate instant.
func (r *reminderRepository) CreateBatch(ctx context.Context, logs []*model.ReminderLog) ([]*model.ReminderLog, error) {
	if len(logs) == 0 {
		return nil, nil
	}

	values := make([]string, 0, len(logs))
	args := make([]interface{}, 0, len(logs)*6)
	for i, log := range logs {
		base := i * 6
		values = append(values, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6))
		args = append(args,
			log.ID,
			log.MedicationID,
			log.UserID,
			log.ScheduledAt,
			log.Status,
			log.CreatedAt,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO reminder_logs (id, medication_id, user_id, scheduled_at, status, created_at)
		VALUES %s
		ON CONFLICT (medication_id, scheduled_at) DO NOTHING
		RETURNING %s
	`, strings.Join(values, ", "), reminderColumns)

	var created []*model.ReminderLog
	if err := r.db.SelectContext(ctx, &created, query, args...); err != nil {
		return nil, apperrors.NewStoreUnavailable(fmt.Errorf("failed to create reminder logs: %w", err))
	}
	return created, nil
}

func (r *reminderRepository) Get(ctx context.Context, userID, id uuid.UUID) (*model.ReminderLog, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM reminder_logs
		WHERE id = $1 AND user_id = $2
	`, reminderColumns)

	var log model.ReminderLog
	err := r.db.GetContext(ctx, &log, query, id, userID)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFound("reminder", err)
	}
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(fmt.Errorf("failed to get reminder log: %w", err))
	}
	return &log, nil
}

func (r *reminderRepository) List(ctx context.Context, userID uuid.UUID, filters *model.ReminderFilters) ([]*model.ReminderLog, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM reminder_logs
		WHERE user_id = $1
	`, reminderColumns)
	args := []interface{}{userID}
	argCount := 2

	if filters != nil {
		if filters.MedicationID != nil {
			query += fmt.Sprintf(" AND medication_id = $%d", argCount)
			args = append(args, *filters.MedicationID)
			argCount++
		}
		if filters.From != nil {
			query += fmt.Sprintf(" AND scheduled_at >= $%d", argCount)
			args = append(args, *filters.From)
			argCount++
		}
		if filters.To != nil {
			// To is exclusive: a dose scheduled exactly at a range end belongs
			// to the next range, never to both.
			query += fmt.Sprintf(" AND scheduled_at < $%d", argCount)
			args = append(args, *filters.To)
			argCount++
		}
	}

	query += " ORDER BY scheduled_at DESC"

	var logs []*model.ReminderLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, apperrors.NewStoreUnavailable(fmt.Errorf("failed to list reminder logs: %w", err))
	}
	return logs, nil
}

// UpdateStatus is a compare-and-set: the row is written only when its status
// still equals the status the caller read. A false return means the caller
// lost a race and must re-read before retrying.
func (r *reminderRepository) UpdateStatus(ctx context.Context, log *model.ReminderLog, expected model.ReminderStatus) (bool, error) {
	query := `
		UPDATE reminder_logs
		SET status = $1, taken_at = $2, snoozed_until = $3
		WHERE id = $4 AND user_id = $5 AND status = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		log.Status,
		log.TakenAt,
		log.SnoozedUntil,
		log.ID,
		log.UserID,
		expected,
	)
	if err != nil {
		return false, apperrors.NewStoreUnavailable(fmt.Errorf("failed to update reminder log: %w", err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.NewStoreUnavailable(fmt.Errorf("failed to get rows affected: %w", err))
	}
	return rows == 1, nil
}
