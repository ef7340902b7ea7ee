package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	apperrors "researchhub/internal/errors"
	"researchhub/internal/model"
	"researchhub/internal/scholar"
)

// fakeSearchCacheRepository is an in-memory SearchCacheRepository that
// mirrors the MySQL hit-count and expiry behavior.
type fakeSearchCacheRepository struct {
	entries map[string]*model.SearchCacheEntry
}

func newFakeSearchCacheRepository() *fakeSearchCacheRepository {
	return &fakeSearchCacheRepository{entries: map[string]*model.SearchCacheEntry{}}
}

func (f *fakeSearchCacheRepository) FindByKey(_ context.Context, key string) (*model.SearchCacheEntry, error) {
	entry, ok := f.entries[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeSearchCacheRepository) FindLive(_ context.Context, key string, now time.Time) (*model.SearchCacheEntry, error) {
	entry, ok := f.entries[key]
	if !ok || !entry.ExpiresAt.After(now) {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeSearchCacheRepository) Create(_ context.Context, entry *model.SearchCacheEntry) error {
	copied := *entry
	f.entries[entry.CacheKey] = &copied
	return nil
}

func (f *fakeSearchCacheRepository) Refresh(_ context.Context, key string, results datatypes.JSON, expiresAt time.Time) error {
	entry := f.entries[key]
	entry.Results = results
	entry.HitCount++
	entry.LastAccessed = time.Now()
	entry.ExpiresAt = expiresAt
	return nil
}

func (f *fakeSearchCacheRepository) Touch(_ context.Context, key string) error {
	entry := f.entries[key]
	entry.HitCount++
	entry.LastAccessed = time.Now()
	return nil
}

// fakeActivityRepository records created rows and no more.
type fakeActivityRepository struct {
	searchLogs   []model.SearchLog
	interactions []model.PaperInteraction
	activities   []model.TeamActivity
	timeSpent    map[uint]int
}

func newFakeActivityRepository() *fakeActivityRepository {
	return &fakeActivityRepository{timeSpent: map[uint]int{}}
}

func (f *fakeActivityRepository) CreateSearchLog(_ context.Context, log *model.SearchLog) error {
	f.searchLogs = append(f.searchLogs, *log)
	return nil
}

func (f *fakeActivityRepository) CreatePaperInteraction(_ context.Context, interaction *model.PaperInteraction) error {
	interaction.ID = uint(len(f.interactions) + 1)
	f.interactions = append(f.interactions, *interaction)
	return nil
}

func (f *fakeActivityRepository) AddTimeSpent(_ context.Context, interactionID uint, seconds int) error {
	f.timeSpent[interactionID] += seconds
	return nil
}

func (f *fakeActivityRepository) CreateTeamActivity(_ context.Context, activity *model.TeamActivity) error {
	f.activities = append(f.activities, *activity)
	return nil
}

func (f *fakeActivityRepository) SearchLogsSince(_ context.Context, userID uint, since time.Time) ([]model.SearchLog, error) {
	var out []model.SearchLog
	for _, l := range f.searchLogs {
		if l.UserID == userID && !l.CreatedAt.Before(since) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeActivityRepository) PaperInteractionsSince(_ context.Context, userID uint, since time.Time) ([]model.PaperInteraction, error) {
	var out []model.PaperInteraction
	for _, p := range f.interactions {
		if p.UserID == userID && !p.CreatedAt.Before(since) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeActivityRepository) TeamActivitiesSince(_ context.Context, userID uint, since time.Time, limit int) ([]model.TeamActivity, error) {
	var out []model.TeamActivity
	for _, a := range f.activities {
		if a.UserID == userID && !a.CreatedAt.Before(since) && len(out) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeSearcher struct {
	papers []scholar.Paper
	err    error
	calls  int
}

func (f *fakeSearcher) Search(_ context.Context, _ string, _ int) ([]scholar.Paper, error) {
	f.calls++
	return f.papers, f.err
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, CacheKey("machine learning"), CacheKey("  Machine Learning  "))
	assert.NotEqual(t, CacheKey("machine learning"), CacheKey("deep learning"))
	assert.Len(t, CacheKey("anything"), 32)
}

func TestSearchService_StoreAndLookup(t *testing.T) {
	cacheRepo := newFakeSearchCacheRepository()
	svc := NewSearchService(cacheRepo, newFakeActivityRepository(), &fakeSearcher{})
	ctx := context.Background()
	results := json.RawMessage(`[{"title":"a"}]`)

	key, err := svc.Store(ctx, "Machine Learning", results, "")
	assert.NoError(t, err)
	assert.Equal(t, CacheKey("machine learning"), key)
	assert.Equal(t, 1, cacheRepo.entries[key].HitCount)

	// First read is a hit and counts as one.
	hit, err := svc.Lookup(ctx, "  machine learning ")
	assert.NoError(t, err)
	assert.JSONEq(t, string(results), string(hit.Results))
	assert.Equal(t, "semantic_scholar", hit.Source)
	assert.Equal(t, 2, hit.HitCount)
	assert.Equal(t, 2, cacheRepo.entries[key].HitCount)

	// A second store refreshes in place and counts as another hit.
	fresh := json.RawMessage(`[{"title":"b"}]`)
	_, err = svc.Store(ctx, "machine learning", fresh, "semantic_scholar")
	assert.NoError(t, err)
	assert.Len(t, cacheRepo.entries, 1)
	assert.Equal(t, 3, cacheRepo.entries[key].HitCount)
	assert.JSONEq(t, string(fresh), string(cacheRepo.entries[key].Results))
}

func TestSearchService_LookupMisses(t *testing.T) {
	cacheRepo := newFakeSearchCacheRepository()
	svc := NewSearchService(cacheRepo, newFakeActivityRepository(), &fakeSearcher{})
	ctx := context.Background()

	t.Run("absent row", func(t *testing.T) {
		_, err := svc.Lookup(ctx, "nothing here")
		assert.ErrorIs(t, err, apperrors.ErrCacheMiss)
	})

	t.Run("expired row stays in place but misses", func(t *testing.T) {
		key := CacheKey("stale query")
		cacheRepo.entries[key] = &model.SearchCacheEntry{
			CacheKey:  key,
			Query:     "stale query",
			Results:   datatypes.JSON(`[]`),
			ExpiresAt: time.Now().Add(-time.Hour),
			HitCount:  4,
		}

		_, err := svc.Lookup(ctx, "stale query")
		assert.ErrorIs(t, err, apperrors.ErrCacheMiss)
		// The miss neither deletes the row nor counts a hit.
		assert.Equal(t, 4, cacheRepo.entries[key].HitCount)
	})
}

func TestSearchService_SearchPapers(t *testing.T) {
	ctx := context.Background()
	papers := []scholar.Paper{{ID: "p1", Title: "Attention Is All You Need"}}

	t.Run("miss fetches upstream, caches, and logs", func(t *testing.T) {
		cacheRepo := newFakeSearchCacheRepository()
		activityRepo := newFakeActivityRepository()
		searcher := &fakeSearcher{papers: papers}
		svc := NewSearchService(cacheRepo, activityRepo, searcher)

		out, err := svc.SearchPapers(ctx, 7, "transformers", 10)
		assert.NoError(t, err)
		assert.False(t, out.Cached)
		assert.Equal(t, 1, out.Total)
		assert.Equal(t, 1, searcher.calls)
		assert.Len(t, cacheRepo.entries, 1)
		assert.Len(t, activityRepo.searchLogs, 1)
		assert.Equal(t, uint(7), activityRepo.searchLogs[0].UserID)
		assert.Equal(t, 1, activityRepo.searchLogs[0].ResultsCount)
	})

	t.Run("second search is served from cache", func(t *testing.T) {
		cacheRepo := newFakeSearchCacheRepository()
		activityRepo := newFakeActivityRepository()
		searcher := &fakeSearcher{papers: papers}
		svc := NewSearchService(cacheRepo, activityRepo, searcher)

		_, err := svc.SearchPapers(ctx, 7, "transformers", 10)
		assert.NoError(t, err)
		out, err := svc.SearchPapers(ctx, 7, "Transformers", 10)
		assert.NoError(t, err)
		assert.True(t, out.Cached)
		assert.Equal(t, 1, searcher.calls)
	})

	t.Run("anonymous search is not logged", func(t *testing.T) {
		activityRepo := newFakeActivityRepository()
		svc := NewSearchService(newFakeSearchCacheRepository(), activityRepo, &fakeSearcher{papers: papers})

		_, err := svc.SearchPapers(ctx, 0, "transformers", 10)
		assert.NoError(t, err)
		assert.Empty(t, activityRepo.searchLogs)
	})

	t.Run("upstream failure surfaces", func(t *testing.T) {
		searcher := &fakeSearcher{err: apperrors.ErrUpstreamProvider}
		svc := NewSearchService(newFakeSearchCacheRepository(), newFakeActivityRepository(), searcher)

		_, err := svc.SearchPapers(ctx, 0, "transformers", 10)
		assert.True(t, errors.Is(err, apperrors.ErrUpstreamProvider))
	})
}
