package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/news"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/sources"
)

type stubNewsSource struct {
	name  string
	items []news.Article
	err   error
	calls atomic.Int64
}

func (s *stubNewsSource) Name() string { return s.name }

func (s *stubNewsSource) FetchNews(context.Context) ([]news.Article, error) {
	s.calls.Add(1)
	return s.items, s.err
}

func TestNewsService_PlayerNewsRanksAndDeduplicates(t *testing.T) {
	primary := &stubNewsSource{name: "Primary", items: []news.Article{
		{ID: "1", Title: "David Raya signs new Arsenal contract", PublishedAt: "2025-08-10T09:00:00Z"},
		{ID: "2", Title: "Raya keeps another clean sheet", PublishedAt: "2025-08-12T09:00:00Z"},
		{ID: "3", Title: "Premier League fixture roundup", PublishedAt: "2025-08-12T10:00:00Z"},
	}}
	secondary := &stubNewsSource{name: "Secondary", items: []news.Article{
		{ID: "4", Title: "David Raya signs new Arsenal contract", PublishedAt: "2025-08-10T11:00:00Z"},
	}}

	svc := NewNewsService(NewsServiceConfig{Sources: []sources.NewsSource{primary, secondary}})

	got, err := svc.PlayerNews(context.Background(), "David Raya")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Exact-name article outranks the surname-only one; the duplicate
	// headline from the secondary feed is gone.
	assert.Equal(t, "David Raya signs new Arsenal contract", got[0].Title)
	assert.Equal(t, "Raya keeps another clean sheet", got[1].Title)
	assert.Greater(t, got[0].RelevanceScore, got[1].RelevanceScore)
}

func TestNewsService_AbbreviatedNameStillMatches(t *testing.T) {
	src := &stubNewsSource{name: "Feed", items: []news.Article{
		{ID: "1", Title: "D. Raya stars again for Arsenal", PublishedAt: "2025-08-01T00:00:00Z"},
	}}

	svc := NewNewsService(NewsServiceConfig{Sources: []sources.NewsSource{src}})

	got, err := svc.PlayerNews(context.Background(), "David Raya")
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestNewsService_FailedSourceDegrades(t *testing.T) {
	good := &stubNewsSource{name: "Good", items: []news.Article{
		{ID: "1", Title: "Bukayo Saka injury update", PublishedAt: "2025-08-01T00:00:00Z"},
	}}
	bad := &stubNewsSource{name: "Bad", err: errors.New("upstream 503")}

	svc := NewNewsService(NewsServiceConfig{Sources: []sources.NewsSource{bad, good}})

	got, err := svc.PlayerNews(context.Background(), "Bukayo Saka")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestNewsService_AllSourcesFailedCycleNotCached(t *testing.T) {
	src := &stubNewsSource{name: "Flaky", err: errors.New("upstream 503")}

	svc := NewNewsService(NewsServiceConfig{Sources: []sources.NewsSource{src}})
	ctx := context.Background()

	got, err := svc.PlayerNews(ctx, "Martin Odegaard")
	require.NoError(t, err)
	assert.Empty(t, got)

	// The source recovers; the failed cycle must not pin an empty pool.
	src.err = nil
	src.items = []news.Article{
		{ID: "1", Title: "Martin Odegaard named captain", PublishedAt: "2025-08-01T00:00:00Z"},
	}

	got, err = svc.PlayerNews(ctx, "Martin Odegaard")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestNewsService_EmptyPlayerNameIsInvalid(t *testing.T) {
	svc := NewNewsService(NewsServiceConfig{})

	_, err := svc.PlayerNews(context.Background(), "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewsService_FanOutSharedAcrossPlayers(t *testing.T) {
	src := &stubNewsSource{name: "Feed", items: []news.Article{
		{ID: "1", Title: "Declan Rice scores screamer", PublishedAt: "2025-08-01T00:00:00Z"},
		{ID: "2", Title: "William Saliba contract talks", PublishedAt: "2025-08-02T00:00:00Z"},
	}}

	svc := NewNewsService(NewsServiceConfig{Sources: []sources.NewsSource{src}})
	ctx := context.Background()

	_, err := svc.PlayerNews(ctx, "Declan Rice")
	require.NoError(t, err)
	_, err = svc.PlayerNews(ctx, "William Saliba")
	require.NoError(t, err)

	assert.EqualValues(t, 1, src.calls.Load())
}

func TestNewsService_ClearCacheForcesRefetch(t *testing.T) {
	src := &stubNewsSource{name: "Feed", items: []news.Article{
		{ID: "1", Title: "Martin Odegaard named captain", PublishedAt: "2025-08-01T00:00:00Z"},
	}}

	svc := NewNewsService(NewsServiceConfig{Sources: []sources.NewsSource{src}})
	ctx := context.Background()

	_, err := svc.PlayerNews(ctx, "Martin Odegaard")
	require.NoError(t, err)
	svc.ClearCache(ctx)
	_, err = svc.PlayerNews(ctx, "Martin Odegaard")
	require.NoError(t, err)

	assert.EqualValues(t, 2, src.calls.Load())
}
