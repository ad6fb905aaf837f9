// Package metric records and lists health metrics (blood pressure, blood
// sugar, weight, heart rate).
package metric

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medpal/medpal-api/internal/model"
	"github.com/medpal/medpal-api/internal/repository"
	"github.com/medpal/medpal-api/pkg/logger"
)

type Service struct {
	metrics repository.HealthMetricRepository
	logger  *logger.Logger
}

func NewService(metrics repository.HealthMetricRepository, log *logger.Logger) *Service {
	return &Service{metrics: metrics, logger: log}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *model.CreateHealthMetricRequest) (*model.HealthMetric, error) {
	source := req.Source
	if source == "" {
		source = "manual"
	}

	now := time.Now()
	metric := &model.HealthMetric{
		Base:       model.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		UserID:     userID,
		Type:       req.Type,
		Value:      req.Value,
		Unit:       req.Unit,
		RecordedAt: req.RecordedAt,
		Source:     source,
	}
	if err := s.metrics.Create(ctx, metric); err != nil {
		return nil, err
	}
	return metric, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, metricType string) ([]*model.HealthMetric, error) {
	return s.metrics.List(ctx, userID, metricType)
}
