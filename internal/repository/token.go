package repository

import (
	"context"
	"errors"
	"strings"

	"recipebox/internal/cache"
	"recipebox/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenRepository defines persistence operations for auth tokens.
type TokenRepository interface {
	// GetOrCreate returns the user's token, creating it on first use.
	GetOrCreate(ctx context.Context, userID uint) (*models.AuthToken, error)
	// GetByKey resolves a token key to its row, or an unauthorized error.
	GetByKey(ctx context.Context, key string) (*models.AuthToken, error)
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository returns a new TokenRepository implementation.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) GetOrCreate(ctx context.Context, userID uint) (*models.AuthToken, error) {
	var token models.AuthToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error
	if err == nil {
		return &token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	token = models.AuthToken{Key: newTokenKey(), UserID: userID}
	if err := r.db.WithContext(ctx).Create(&token).Error; err != nil {
		if isUniqueConstraintError(err) {
			// Lost a create race; the winner's token is the token.
			var existing models.AuthToken
			if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error; err != nil {
				return nil, models.NewInternalError(err)
			}
			return &existing, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &token, nil
}

// cachedAuthToken is the cache representation of a token. The model's json
// tags shape API output and hide the owner, so the cache carries its own
// serialization with every field the auth path needs.
type cachedAuthToken struct {
	ID     uint   `json:"id"`
	Key    string `json:"key"`
	UserID uint   `json:"user_id"`
}

func (r *tokenRepository) GetByKey(ctx context.Context, key string) (*models.AuthToken, error) {
	var cached cachedAuthToken

	err := cache.Aside(ctx, cache.TokenKey(key), &cached, cache.TokenTTL, func() error {
		var token models.AuthToken
		if err := r.db.WithContext(ctx).Where("key = ?", key).First(&token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewUnauthorizedError("Invalid authentication token")
			}
			return models.NewInternalError(err)
		}
		cached = cachedAuthToken{ID: token.ID, Key: token.Key, UserID: token.UserID}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &models.AuthToken{ID: cached.ID, Key: cached.Key, UserID: cached.UserID}, nil
}

// newTokenKey builds an opaque 64-character key from two UUIDs.
func newTokenKey() string {
	raw := uuid.NewString() + uuid.NewString()
	return strings.ReplaceAll(raw, "-", "")
}
