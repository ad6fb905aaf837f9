package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	Base
	UserID     uuid.UUID         `db:"user_id" json:"user_id"`
	DoctorName *string           `db:"doctor_name" json:"doctor_name,omitempty"`
	Specialty  *string           `db:"specialty" json:"specialty,omitempty"`
	Clinic     *string           `db:"clinic" json:"clinic,omitempty"`
	Location   *string           `db:"location" json:"location,omitempty"`
	Datetime   time.Time         `db:"datetime" json:"datetime"`
	Notes      *string           `db:"notes" json:"notes,omitempty"`
	Type       string            `db:"type" json:"type"`
	Status     AppointmentStatus `db:"status" json:"status"`
}

type CreateAppointmentRequest struct {
	DoctorName *string   `json:"doctor_name"`
	Specialty  *string   `json:"specialty"`
	Clinic     *string   `json:"clinic"`
	Location   *string   `json:"location"`
	Datetime   time.Time `json:"datetime" binding:"required"`
	Notes      *string   `json:"notes"`
	Type       string    `json:"type" binding:"omitempty,oneof=checkup lab consultation followup"`
}

type UpdateAppointmentRequest struct {
	DoctorName *string            `json:"doctor_name"`
	Specialty  *string            `json:"specialty"`
	Clinic     *string            `json:"clinic"`
	Location   *string            `json:"location"`
	Datetime   *time.Time         `json:"datetime"`
	Notes      *string            `json:"notes"`
	Type       *string            `json:"type" binding:"omitempty,oneof=checkup lab consultation followup"`
	Status     *AppointmentStatus `json:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
}
