// Package auth registers accounts and issues access tokens.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/medpal/medpal-api/internal/model"
	"github.com/medpal/medpal-api/internal/repository"
	pkgauth "github.com/medpal/medpal-api/pkg/auth"
	apperrors "github.com/medpal/medpal-api/pkg/errors"
	"github.com/medpal/medpal-api/pkg/logger"
)

type Service struct {
	users           repository.UserRepository
	jwt             pkgauth.JWTService
	tokenExpiry     time.Duration
	defaultTimezone string
	logger          *logger.Logger
}

func NewService(users repository.UserRepository, jwt pkgauth.JWTService, tokenExpiry time.Duration, defaultTimezone string, log *logger.Logger) *Service {
	if defaultTimezone == "" {
		defaultTimezone = "UTC"
	}
	return &Service{users: users, jwt: jwt, tokenExpiry: tokenExpiry, defaultTimezone: defaultTimezone, logger: log}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = s.defaultTimezone
	}

	now := time.Now()
	user := &model.User{
		Base:         model.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Timezone:     timezone,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID.String())
	return s.issueToken(user)
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized(nil)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthorized(nil)
	}

	return s.issueToken(user)
}

func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.users.Get(ctx, userID)
}

func (s *Service) issueToken(user *model.User) (*model.TokenResponse, error) {
	token, err := s.jwt.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	return &model.TokenResponse{
		AccessToken: token,
		ExpiresAt:   time.Now().Add(s.tokenExpiry),
		User:        user,
	}, nil
}
