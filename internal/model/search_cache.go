package model

import (
	"time"

	"gorm.io/datatypes"
)

// SearchCacheEntry is one cached search result set, keyed by the hash of
// the normalized query. At most one row exists per key. Expired rows are
// inert but never purged automatically.
type SearchCacheEntry struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	CacheKey     string         `json:"cache_key" gorm:"uniqueIndex;size:32;not null"`
	Query        string         `json:"query" gorm:"size:512;not null"`
	Results      datatypes.JSON `json:"results" gorm:"not null"`
	Source       string         `json:"source" gorm:"size:50;default:'semantic_scholar'"`
	CreatedAt    time.Time      `json:"created_at"`
	LastAccessed time.Time      `json:"last_accessed"`
	ExpiresAt    time.Time      `json:"expires_at" gorm:"index"`
	HitCount     int            `json:"hit_count" gorm:"default:1"`
}

// TableName keeps the legacy table name.
func (SearchCacheEntry) TableName() string {
	return "search_cache"
}
