package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"researchhub/internal/model"
)

// SearchCacheRepository defines persistence for cached search result sets.
type SearchCacheRepository interface {
	FindByKey(ctx context.Context, key string) (*model.SearchCacheEntry, error)
	FindLive(ctx context.Context, key string, now time.Time) (*model.SearchCacheEntry, error)
	Create(ctx context.Context, entry *model.SearchCacheEntry) error
	Refresh(ctx context.Context, key string, results datatypes.JSON, expiresAt time.Time) error
	Touch(ctx context.Context, key string) error
}

type searchCacheRepository struct {
	db *gorm.DB
}

// NewSearchCacheRepository creates a new search cache repository.
func NewSearchCacheRepository(db *gorm.DB) SearchCacheRepository {
	return &searchCacheRepository{db: db}
}

func (r *searchCacheRepository) FindByKey(ctx context.Context, key string) (*model.SearchCacheEntry, error) {
	var entry model.SearchCacheEntry
	if err := r.db.WithContext(ctx).Where("cache_key = ?", key).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindLive returns the entry only while it has not expired. Expired rows
// stay in place and simply stop matching.
func (r *searchCacheRepository) FindLive(ctx context.Context, key string, now time.Time) (*model.SearchCacheEntry, error) {
	var entry model.SearchCacheEntry
	err := r.db.WithContext(ctx).
		Where("cache_key = ? AND expires_at > ?", key, now).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *searchCacheRepository) Create(ctx context.Context, entry *model.SearchCacheEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Refresh overwrites the stored results and pushes the expiry forward,
// counting the write as a hit.
func (r *searchCacheRepository) Refresh(ctx context.Context, key string, results datatypes.JSON, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Model(&model.SearchCacheEntry{}).
		Where("cache_key = ?", key).
		Updates(map[string]interface{}{
			"results":       results,
			"hit_count":     gorm.Expr("hit_count + 1"),
			"last_accessed": time.Now(),
			"expires_at":    expiresAt,
		}).Error
}

// Touch records a cache hit.
func (r *searchCacheRepository) Touch(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Model(&model.SearchCacheEntry{}).
		Where("cache_key = ?", key).
		Updates(map[string]interface{}{
			"hit_count":     gorm.Expr("hit_count + 1"),
			"last_accessed": time.Now(),
		}).Error
}
