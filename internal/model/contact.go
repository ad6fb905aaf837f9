package model

import (
	"github.com/google/uuid"
)

// EmergencyContact is a person notified when the user triggers an SOS.
type EmergencyContact struct {
	Base
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Relation  *string   `db:"relation" json:"relation,omitempty"`
	Phone     string    `db:"phone" json:"phone"`
	Email     *string   `db:"email" json:"email,omitempty"`
	IsPrimary bool      `db:"is_primary" json:"is_primary"`
}

type CreateContactRequest struct {
	Name      string  `json:"name" binding:"required"`
	Relation  *string `json:"relation"`
	Phone     string  `json:"phone" binding:"required"`
	Email     *string `json:"email" binding:"omitempty,email"`
	IsPrimary bool    `json:"is_primary"`
}

type UpdateContactRequest struct {
	Name      *string `json:"name"`
	Relation  *string `json:"relation"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email" binding:"omitempty,email"`
	IsPrimary *bool   `json:"is_primary"`
}
