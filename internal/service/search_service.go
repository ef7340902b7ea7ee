package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "researchhub/internal/errors"
	"researchhub/internal/model"
	"researchhub/internal/repository"
	"researchhub/internal/scholar"
)

// CacheTTL is how long a cached result set stays live. Every write,
// insert or refresh, pushes the expiry this far into the future.
const CacheTTL = 7 * 24 * time.Hour

const searchSource = "semantic_scholar"

// CacheKey normalizes a query (trim + lowercase) and hashes it. One cache
// row exists per key.
func CacheKey(query string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(query))))
	return hex.EncodeToString(sum[:])
}

// CachedResults is a cache hit.
type CachedResults struct {
	Results  json.RawMessage `json:"results"`
	Source   string          `json:"source"`
	CachedAt time.Time       `json:"cached_at"`
	HitCount int             `json:"hit_count"`
}

// SearchResults is the outcome of a paper search, cached or fresh.
type SearchResults struct {
	Query   string          `json:"query"`
	Results json.RawMessage `json:"results"`
	Total   int             `json:"total"`
	Cached  bool            `json:"cached"`
	Sources []string        `json:"sources"`
}

// PaperSearcher is the upstream academic search provider.
type PaperSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]scholar.Paper, error)
}

// SearchService handles the relational search cache and cache-first
// paper search against the upstream provider.
type SearchService interface {
	Lookup(ctx context.Context, query string) (*CachedResults, error)
	Store(ctx context.Context, query string, results json.RawMessage, source string) (string, error)
	SearchPapers(ctx context.Context, userID uint, query string, limit int) (*SearchResults, error)
}

type searchService struct {
	cacheRepo    repository.SearchCacheRepository
	activityRepo repository.ActivityRepository
	provider     PaperSearcher
}

// NewSearchService creates a new search service.
func NewSearchService(cacheRepo repository.SearchCacheRepository, activityRepo repository.ActivityRepository, provider PaperSearcher) SearchService {
	return &searchService{
		cacheRepo:    cacheRepo,
		activityRepo: activityRepo,
		provider:     provider,
	}
}

// Lookup returns the cached result set for the query. A row counts as a
// hit only while unexpired; a hit bumps hit_count and last_accessed, so
// the read is deliberately not idempotent. Expired rows stay in place and
// report a miss.
func (s *searchService) Lookup(ctx context.Context, query string) (*CachedResults, error) {
	key := CacheKey(query)
	entry, err := s.cacheRepo.FindLive(ctx, key, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("cache lookup: %w", err)
	}

	if err := s.cacheRepo.Touch(ctx, key); err != nil {
		return nil, fmt.Errorf("cache touch: %w", err)
	}

	return &CachedResults{
		Results:  json.RawMessage(entry.Results),
		Source:   entry.Source,
		CachedAt: entry.CreatedAt,
		HitCount: entry.HitCount + 1,
	}, nil
}

// Store upserts the result set under the query's cache key and returns the
// key. An insert starts hit_count at 1; a refresh counts as another hit
// and resets the expiry.
func (s *searchService) Store(ctx context.Context, query string, results json.RawMessage, source string) (string, error) {
	if source == "" {
		source = searchSource
	}
	key := CacheKey(query)

	_, err := s.cacheRepo.FindByKey(ctx, key)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		now := time.Now()
		entry := &model.SearchCacheEntry{
			CacheKey:     key,
			Query:        query,
			Results:      datatypes.JSON(results),
			Source:       source,
			LastAccessed: now,
			ExpiresAt:    now.Add(CacheTTL),
			HitCount:     1,
		}
		if err := s.cacheRepo.Create(ctx, entry); err != nil {
			return "", fmt.Errorf("cache insert: %w", err)
		}
	case err != nil:
		return "", fmt.Errorf("cache lookup: %w", err)
	default:
		if err := s.cacheRepo.Refresh(ctx, key, datatypes.JSON(results), time.Now().Add(CacheTTL)); err != nil {
			return "", fmt.Errorf("cache refresh: %w", err)
		}
	}
	return key, nil
}

// SearchPapers serves the query from cache when possible, otherwise hits
// the upstream provider, caches the result set, and logs the search.
// Two concurrent misses may both fetch; the second cache write wins.
func (s *searchService) SearchPapers(ctx context.Context, userID uint, query string, limit int) (*SearchResults, error) {
	cached, err := s.Lookup(ctx, query)
	if err == nil {
		return &SearchResults{
			Query:   query,
			Results: cached.Results,
			Cached:  true,
			Sources: []string{cached.Source},
		}, nil
	}
	if !errors.Is(err, apperrors.ErrCacheMiss) {
		return nil, err
	}

	papers, err := s.provider.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(papers)
	if err != nil {
		return nil, fmt.Errorf("marshal results: %w", err)
	}

	// A failed cache write must not fail the search.
	_, _ = s.Store(ctx, query, payload, searchSource)

	if userID != 0 {
		_ = s.activityRepo.CreateSearchLog(ctx, &model.SearchLog{
			UserID:       userID,
			Query:        query,
			ResultsCount: len(papers),
			Source:       searchSource,
		})
	}

	return &SearchResults{
		Query:   query,
		Results: payload,
		Total:   len(papers),
		Cached:  false,
		Sources: []string{searchSource},
	}, nil
}
