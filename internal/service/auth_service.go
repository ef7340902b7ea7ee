package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"researchhub/internal/auth"
	apperrors "researchhub/internal/errors"
	"researchhub/internal/model"
	"researchhub/internal/repository"
)

const defaultTokenExpirySeconds = 3600

// SyncUserInput carries the identity-provider fields for a user sync.
type SyncUserInput struct {
	UID           string
	Email         string
	DisplayName   string
	Provider      string
	EmailVerified bool
}

// UpdateTokensInput carries a provider OAuth token refresh.
type UpdateTokensInput struct {
	UID          string
	AccessToken  string
	RefreshToken string
	Scope        string
	ExpiresIn    int
}

// AuthService handles the token lifecycle against the local user tables.
type AuthService interface {
	SyncUser(ctx context.Context, in SyncUserInput) (*model.User, error)
	VerifyToken(ctx context.Context, rawToken string) (*model.User, error)
	UpdateTokens(ctx context.Context, in UpdateTokensInput) (*model.AuthToken, bool, error)
}

type authService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	verifier  auth.Verifier
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, verifier auth.Verifier) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		verifier:  verifier,
	}
}

// SyncUser creates the local user row on first sync from the identity
// provider, or refreshes the identity fields on later logins.
func (s *authService) SyncUser(ctx context.Context, in SyncUserInput) (*model.User, error) {
	user := &model.User{
		ExternalUID:   in.UID,
		Email:         in.Email,
		DisplayName:   in.DisplayName,
		AuthProvider:  in.Provider,
		EmailVerified: in.EmailVerified,
		IsActive:      true,
	}
	synced, err := s.userRepo.Upsert(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("sync user: %w", err)
	}
	return synced, nil
}

// VerifyToken verifies the credential, maps its subject to a local user,
// and records the login.
func (s *authService) VerifyToken(ctx context.Context, rawToken string) (*model.User, error) {
	claims, err := s.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByExternalUID(ctx, claims.UID())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserNotFound
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	now := time.Now()
	user.LastLogin = &now
	return user, nil
}

// UpdateTokens upserts the user's provider OAuth tokens. The boolean
// reports whether a new token row was created.
func (s *authService) UpdateTokens(ctx context.Context, in UpdateTokensInput) (*model.AuthToken, bool, error) {
	user, err := s.userRepo.FindByExternalUID(ctx, in.UID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apperrors.ErrUserNotFound
		}
		return nil, false, fmt.Errorf("find user: %w", err)
	}

	expiresIn := in.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = defaultTokenExpirySeconds
	}

	token := &model.AuthToken{
		UserID:       user.ID,
		AccessToken:  in.AccessToken,
		RefreshToken: in.RefreshToken,
		Scope:        in.Scope,
		ExpiresAt:    time.Now().Add(time.Duration(expiresIn) * time.Second),
	}
	return s.tokenRepo.Upsert(ctx, token)
}
