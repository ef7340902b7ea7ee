package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"researchhub/internal/model"
)

// TokenRepository defines persistence for provider OAuth tokens.
type TokenRepository interface {
	LatestByUserID(ctx context.Context, userID uint) (*model.AuthToken, error)
	Create(ctx context.Context, token *model.AuthToken) error
	Update(ctx context.Context, token *model.AuthToken) error
	Upsert(ctx context.Context, token *model.AuthToken) (*model.AuthToken, bool, error)
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new token repository.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) LatestByUserID(ctx context.Context, userID uint) (*model.AuthToken, error) {
	var token model.AuthToken
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) Create(ctx context.Context, token *model.AuthToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *tokenRepository) Update(ctx context.Context, token *model.AuthToken) error {
	return r.db.WithContext(ctx).Save(token).Error
}

// Upsert updates the user's newest token row in place, creating one when
// none exists. The boolean reports whether a row was created.
func (r *tokenRepository) Upsert(ctx context.Context, token *model.AuthToken) (*model.AuthToken, bool, error) {
	existing, err := r.LatestByUserID(ctx, token.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.Create(ctx, token); err != nil {
			return nil, false, err
		}
		return token, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	existing.AccessToken = token.AccessToken
	existing.RefreshToken = token.RefreshToken
	existing.Scope = token.Scope
	existing.ExpiresAt = token.ExpiresAt
	if err := r.Update(ctx, existing); err != nil {
		return nil, false, err
	}
	return existing, false, nil
}
