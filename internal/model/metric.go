package model

import (
	"time"

	"github.com/google/uuid"
)

// HealthMetric is a recorded vital: blood pressure, blood sugar, weight,
// heart rate. Value is structured per metric type.
type HealthMetric struct {
	Base
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	Type       string    `db:"type" json:"type"`
	Value      JSONMap   `db:"value" json:"value"`
	Unit       *string   `db:"unit" json:"unit,omitempty"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
	Source     string    `db:"source" json:"source"`
}

type CreateHealthMetricRequest struct {
	Type       string    `json:"type" binding:"required"`
	Value      JSONMap   `json:"value" binding:"required"`
	Unit       *string   `json:"unit"`
	RecordedAt time.Time `json:"recorded_at" binding:"required"`
	Source     string    `json:"source" binding:"omitempty,oneof=manual device import"`
}
