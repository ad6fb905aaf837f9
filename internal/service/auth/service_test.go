package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medpal/medpal-api/internal/model"
	"github.com/medpal/medpal-api/internal/repository/memory"
	pkgauth "github.com/medpal/medpal-api/pkg/auth"
	apperrors "github.com/medpal/medpal-api/pkg/errors"
	"github.com/medpal/medpal-api/pkg/logger"
)

func newService(t *testing.T) (*Service, *memory.UserRepository) {
	t.Helper()
	return newServiceWithDefaultTimezone(t, "UTC")
}

func newServiceWithDefaultTimezone(t *testing.T, timezone string) (*Service, *memory.UserRepository) {
	t.Helper()

	users := memory.NewUserRepository()
	jwt := pkgauth.NewJWTService("test-secret", time.Hour)
	return NewService(users, jwt, time.Hour, timezone, logger.NewLogger(nil)), users
}

func TestRegisterIssuesToken(t *testing.T) {
	svc, _ := newService(t)

	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "pat@example.com",
		Password: "correct-horse",
		Timezone: "America/New_York",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "pat@example.com", resp.User.Email)
	assert.Equal(t, "America/New_York", resp.User.Timezone)
	assert.NotEqual(t, "correct-horse", resp.User.PasswordHash, "password must be hashed")
}

func TestRegisterDefaultsTimezoneToUTC(t *testing.T) {
	svc, _ := newService(t)

	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "pat@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "UTC", resp.User.Timezone)
}

func TestRegisterUsesConfiguredDefaultTimezone(t *testing.T) {
	svc, _ := newServiceWithDefaultTimezone(t, "Europe/Madrid")

	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "pat@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "Europe/Madrid", resp.User.Timezone)

	// An explicit timezone still wins over the configured default.
	resp, err = svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "pat2@example.com",
		Password: "correct-horse",
		Timezone: "Asia/Tokyo",
	})
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", resp.User.Timezone)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newService(t)

	req := &model.RegisterRequest{Email: "pat@example.com", Password: "correct-horse"}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.True(t, apperrors.IsConflict(err))
}

func TestLogin(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "pat@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "pat@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "pat@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:    "pat@example.com",
		Password: "wrong",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestLoginUnknownEmailReadsAsUnauthorized(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized),
		"must not leak whether the account exists")
}

func TestGetUser(t *testing.T) {
	svc, _ := newService(t)

	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "pat@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	user, err := svc.GetUser(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "pat@example.com", user.Email)

	_, err = svc.GetUser(context.Background(), uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}
