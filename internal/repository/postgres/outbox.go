package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medpal/medpal-api/internal/model"
	apperrors "github.com/medpal/medpal-api/pkg/errors"
)

func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	query := `
		INSERT INTO outbox_events (id, event_type, payload, status, created_at, retry_count)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.EventType,
		event.Payload,
		event.Status,
		event.CreatedAt,
		event.RetryCount,
	)
	if err != nil {
		return apperrors.NewStoreUnavailable(fmt.Errorf("failed to create outbox event: %w", err))
	}
	return nil
}

// GetPendingEvents claims a batch with FOR UPDATE SKIP LOCKED so multiple
// worker instances never publish the same event twice.
func (r *outboxRepository) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	query := `
		SELECT id, event_type, payload, status, error_message, created_at, processed_at, retry_count
		FROM outbox_events
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`
	var events []*model.OutboxEvent
	if err := r.db.SelectContext(ctx, &events, query, model.OutboxStatusPending, limit); err != nil {
		return nil, apperrors.NewStoreUnavailable(fmt.Errorf("failed to get pending events: %w", err))
	}
	return events, nil
}

func (r *outboxRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	query := `
		UPDATE outbox_events
		SET status = $1, error_message = $2, processed_at = $3, retry_count = retry_count + 1
		WHERE id = $4
	`
	now := time.Now()
	_, err := r.db.ExecContext(ctx, query, status, errMsg, now, id)
	if err != nil {
		return apperrors.NewStoreUnavailable(fmt.Errorf("failed to update outbox event: %w", err))
	}
	return nil
}

func (r *outboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM outbox_events WHERE status = $1 AND processed_at < $2`

	result, err := r.db.ExecContext(ctx, query, model.OutboxStatusProcessed, before)
	if err != nil {
		return 0, apperrors.NewStoreUnavailable(fmt.Errorf("failed to delete processed events: %w", err))
	}
	return result.RowsAffected()
}
