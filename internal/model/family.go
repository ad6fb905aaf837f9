package model

import (
	"github.com/google/uuid"
)

type FamilyShareRole string

const (
	FamilyShareRoleViewer  FamilyShareRole = "viewer"
	FamilyShareRoleManager FamilyShareRole = "manager"
)

type FamilyShareStatus string

const (
	FamilyShareStatusPending  FamilyShareStatus = "pending"
	FamilyShareStatusAccepted FamilyShareStatus = "accepted"
	FamilyShareStatusDeclined FamilyShareStatus = "declined"
)

// FamilyShare links an owner's data to a family member. Members read
// medication lists and adherence summaries through the same query surface as
// the owner.
type FamilyShare struct {
	Base
	OwnerID     uuid.UUID         `db:"owner_id" json:"owner_id"`
	MemberID    *uuid.UUID        `db:"member_id" json:"member_id,omitempty"`
	MemberEmail string            `db:"member_email" json:"member_email"`
	Role        FamilyShareRole   `db:"role" json:"role"`
	Status      FamilyShareStatus `db:"status" json:"status"`
	InviteToken string            `db:"invite_token" json:"-"`
}

type CreateFamilyShareRequest struct {
	MemberEmail string          `json:"member_email" binding:"required,email"`
	Role        FamilyShareRole `json:"role" binding:"omitempty,oneof=viewer manager"`
}

type RespondFamilyShareRequest struct {
	Accept bool `json:"accept"`
}
