package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medpal/medpal-api/internal/model"
	apperrors "github.com/medpal/medpal-api/pkg/errors"
)

func (r *healthMetricRepository) Create(ctx context.Context, metric *model.HealthMetric) error {
	query := `
		INSERT INTO health_metrics (
			id, user_id, type, value, unit, recorded_at, source, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		metric.ID,
		metric.UserID,
		metric.Type,
		metric.Value,
		metric.Unit,
		metric.RecordedAt,
		metric.Source,
		metric.CreatedAt,
		metric.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewStoreUnavailable(fmt.Errorf("failed to create health metric: %w", err))
	}
	return nil
}

func (r *healthMetricRepository) List(ctx context.Context, userID uuid.UUID, metricType string) ([]*model.HealthMetric, error) {
	query := `
		SELECT id, user_id, type, value, unit, recorded_at, source, created_at, updated_at
		FROM health_metrics
		WHERE user_id = $1
	`
	args := []interface{}{userID}

	if metricType != "" {
		query += " AND type = $2"
		args = append(args, metricType)
	}

	query += " ORDER BY recorded_at DESC"

	var metrics []*model.HealthMetric
	if err := r.db.SelectContext(ctx, &metrics, query, args...); err != nil {
		return nil, apperrors.NewStoreUnavailable(fmt.Errorf("failed to list health metrics: %w", err))
	}
	return metrics, nil
}
