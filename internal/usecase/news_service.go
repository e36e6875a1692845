package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/news"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/cache"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/logging"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/relevance"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/sources"
)

const (
	defaultNewsCacheTTL = 2 * time.Minute

	// minPlayerNewsScore keeps articles with at least a partial name hit.
	minPlayerNewsScore = 0.4
)

// errNoNewsAvailable marks a cycle where every source failed. Such a
// cycle is never cached, so the next read retries immediately.
var errNoNewsAvailable = errors.New("every news source failed")

// NewsService fans out to every configured news source and projects the
// combined pool onto a single player. Failed sources contribute nothing.
type NewsService struct {
	sources []sources.NewsSource
	cache   *cache.Store
	logger  *logging.Logger
	metrics *Metrics
}

type NewsServiceConfig struct {
	Sources  []sources.NewsSource
	CacheTTL time.Duration
	Logger   *logging.Logger
	Metrics  *Metrics
}

func NewNewsService(cfg NewsServiceConfig) *NewsService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultNewsCacheTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	return &NewsService{
		sources: cfg.Sources,
		cache:   cache.NewStore(cfg.CacheTTL),
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// PlayerNews returns articles mentioning the player, most relevant first.
// Duplicate headlines from different feeds collapse to the first seen.
func (s *NewsService) PlayerNews(ctx context.Context, playerName string) ([]news.Article, error) {
	ctx, span := startUsecaseSpan(ctx, "NewsService.PlayerNews")
	defer span.End()

	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		return nil, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}

	key := "player:" + relevance.Slugify(playerName)
	value, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		all, err := s.AllArticles(ctx)
		if err != nil {
			return nil, err
		}
		return s.projectOntoPlayer(all, playerName), nil
	})
	if err != nil {
		if errors.Is(err, errNoNewsAvailable) {
			s.logger.WarnContext(ctx, "news pool unavailable, serving empty result", "player", playerName)
			return []news.Article{}, nil
		}
		return nil, err
	}
	return value.([]news.Article), nil
}

// AllArticles settles a fetch across every news source and merges the
// results. The combined pool is cached briefly so player and team
// projections within the same window share one fan-out. A cycle where
// every source fails bypasses the cache entirely.
func (s *NewsService) AllArticles(ctx context.Context) ([]news.Article, error) {
	value, err := s.cache.GetOrLoad(ctx, "all", func(ctx context.Context) (any, error) {
		merged, delivered := s.fetchAll(ctx)
		if !delivered {
			return nil, errNoNewsAvailable
		}
		return merged, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]news.Article), nil
}

// ClearCache drops the shared pool and every per-player projection.
func (s *NewsService) ClearCache(ctx context.Context) {
	s.cache.Clear(ctx)
}

// fetchAll reports delivered=false only when every configured source
// returned an error.
func (s *NewsService) fetchAll(ctx context.Context) ([]news.Article, bool) {
	var settled atomic.Int32
	p := pool.NewWithResults[[]news.Article]()
	for _, src := range s.sources {
		src := src
		p.Go(func() []news.Article {
			items, err := src.FetchNews(ctx)
			if err != nil {
				s.logger.WarnContext(ctx, "news source failed", "source", src.Name(), "error", err)
				s.metrics.recordOutcome(src.Name(), outcomeFailed)
				return nil
			}
			settled.Add(1)
			if len(items) == 0 {
				s.metrics.recordOutcome(src.Name(), outcomeEmpty)
				return nil
			}
			s.metrics.recordOutcome(src.Name(), outcomeSuccess)
			return items
		})
	}

	var merged []news.Article
	for _, batch := range p.Wait() {
		merged = append(merged, batch...)
	}
	return merged, len(s.sources) == 0 || settled.Load() > 0
}

func (s *NewsService) projectOntoPlayer(all []news.Article, playerName string) []news.Article {
	seen := make(map[string]struct{}, len(all))
	matched := make([]news.Article, 0, 8)
	for _, art := range all {
		score := relevance.ScoreStructured(art.Title, art.Summary, playerName)
		if score < minPlayerNewsScore && !relevance.MatchesPlayer(art.Title, playerName) {
			continue
		}
		titleKey := relevance.Normalize(art.Title)
		if _, dup := seen[titleKey]; dup {
			continue
		}
		seen[titleKey] = struct{}{}
		art.RelevanceScore = score
		matched = append(matched, art)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].RelevanceScore != matched[j].RelevanceScore {
			return matched[i].RelevanceScore > matched[j].RelevanceScore
		}
		return matched[i].PublishedAt > matched[j].PublishedAt
	})
	return matched
}
