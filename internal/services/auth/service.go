package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"vendora/internal/models"
	"vendora/internal/repositories"
	"vendora/internal/utils"
)

// ErrInvalidCredentials is returned for any failed login; the cause is
// deliberately not distinguished.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service issues tokens for the affiliate dashboard and admin back
// office.
type Service interface {
	Login(ctx context.Context, email, password string) (*models.User, string, string, error)
	Logout(ctx context.Context, userID uint) error
	TokenVersion(ctx context.Context, userID uint) (int, error)
}

type service struct {
	store repositories.Store
}

// NewService creates the auth service.
func NewService(store repositories.Store) Service {
	if store == nil {
		panic("store is required")
	}
	return &service{store: store}
}

func (s *service) Login(ctx context.Context, email, password string) (*models.User, string, string, error) {
	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	access, refresh, err := utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh, nil
}

func (s *service) Logout(ctx context.Context, userID uint) error {
	return s.store.Users().IncrementTokenVersion(ctx, userID)
}

// TokenVersion returns the user's current token version. Tokens minted
// before the last logout carry an older version and are rejected by the
// auth middleware.
func (s *service) TokenVersion(ctx context.Context, userID uint) (int, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.TokenVersion, nil
}
