package model

import (
	"time"
)

// User represents an account holder. Timezone is the IANA zone name used when
// expanding medication schedules into concrete dose instants.
type User struct {
	Base
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FirstName    *string    `json:"first_name" db:"first_name"`
	LastName     *string    `json:"last_name" db:"last_name"`
	DateOfBirth  *time.Time `json:"date_of_birth" db:"date_of_birth"`
	Timezone     string     `json:"timezone" db:"timezone"`
}

// Location resolves the user's configured time zone, falling back to UTC when
// the stored name is empty or no longer resolvable.
func (u *User) Location() *time.Location {
	if u.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type RegisterRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Timezone  string  `json:"timezone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        *User     `json:"user"`
}
