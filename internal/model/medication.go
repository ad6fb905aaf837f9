package model

import (
	"time"

	"github.com/google/uuid"
)

// Medication represents one medication tracked by a user. Deactivation is a
// soft delete; existing reminder logs keep referencing the row.
type Medication struct {
	Base
	UserID    uuid.UUID  `db:"user_id" json:"user_id"`
	Name      string     `db:"name" json:"name"`
	Brand     *string    `db:"brand" json:"brand,omitempty"`
	Form      *string    `db:"form" json:"form,omitempty"`
	Color     *string    `db:"color" json:"color,omitempty"`
	Shape     *string    `db:"shape" json:"shape,omitempty"`
	Dosage    string     `db:"dosage" json:"dosage"`
	Schedule  Schedule   `db:"schedule" json:"schedule"`
	StartDate time.Time  `db:"start_date" json:"start_date"`
	EndDate   *time.Time `db:"end_date" json:"end_date,omitempty"`
	Notes     *string    `db:"notes" json:"notes,omitempty"`
	IsActive  bool       `db:"is_active" json:"is_active"`
}

// ActiveOn reports whether the medication's active range covers the given day.
func (m *Medication) ActiveOn(day time.Time) bool {
	if day.Before(m.StartDate) && !sameDay(day, m.StartDate) {
		return false
	}
	if m.EndDate != nil && day.After(*m.EndDate) && !sameDay(day, *m.EndDate) {
		return false
	}
	return true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

type CreateMedicationRequest struct {
	Name      string     `json:"name" binding:"required"`
	Brand     *string    `json:"brand"`
	Form      *string    `json:"form"`
	Color     *string    `json:"color"`
	Shape     *string    `json:"shape"`
	Dosage    string     `json:"dosage" binding:"required"`
	Schedule  Schedule   `json:"schedule" binding:"required"`
	StartDate time.Time  `json:"start_date" binding:"required"`
	EndDate   *time.Time `json:"end_date"`
	Notes     *string    `json:"notes"`
}

type UpdateMedicationRequest struct {
	Name      *string    `json:"name"`
	Brand     *string    `json:"brand"`
	Form      *string    `json:"form"`
	Color     *string    `json:"color"`
	Shape     *string    `json:"shape"`
	Dosage    *string    `json:"dosage"`
	Schedule  *Schedule  `json:"schedule"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Notes     *string    `json:"notes"`
	IsActive  *bool      `json:"is_active"`
}
