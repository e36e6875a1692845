package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/news"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/cache"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/id"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/logging"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/resilience"
)

const (
	newsAPIName         = "NewsAPI"
	newsAPIDefaultURL   = "https://newsapi.example.org/v2"
	newsAPICacheKey     = "articles"
	newsAPIDefaultQuery = "premier league transfer"
	newsAPIPageSize     = 50
)

type NewsAPIConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Query          string
	Timeout        time.Duration
	MaxRetries     int
	CacheTTL       time.Duration
	Logger         *logging.Logger
	IDs            id.Generator
	CircuitBreaker resilience.BreakerConfig
}

// NewsAPI consumes a generic football news API. It emits articles only;
// transfer facts are extracted later if another component wants them.
type NewsAPI struct {
	client  *feedClient
	baseURL string
	apiKey  string
	query   string
	logger  *logging.Logger
	cache   *cache.Store
	ids     id.Generator
}

func NewNewsAPI(cfg NewsAPIConfig) *NewsAPI {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = newsAPIDefaultURL
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}

	ids := cfg.IDs
	if ids == nil {
		ids = id.NewRandomGenerator()
	}

	query := strings.TrimSpace(cfg.Query)
	if query == "" {
		query = newsAPIDefaultQuery
	}

	return &NewsAPI{
		client:  newFeedClient(cfg.HTTPClient, cfg.Timeout, cfg.MaxRetries, cfg.CircuitBreaker),
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		query:   query,
		logger:  logger.With("adapter", newsAPIName),
		cache:   cache.NewStore(cacheTTL),
		ids:     ids,
	}
}

func (a *NewsAPI) Name() string { return newsAPIName }

type newsAPIEnvelope struct {
	Status   string        `json:"status"`
	Articles []newsAPIItem `json:"articles"`
}

type newsAPIItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URLToImage  string `json:"urlToImage"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Category    string `json:"category"`
	SourceName  string `json:"sourceName"`
}

func (a *NewsAPI) FetchNews(ctx context.Context) ([]news.Article, error) {
	out, err := a.cache.GetOrLoad(ctx, newsAPICacheKey, func(ctx context.Context) (any, error) {
		return a.fetchUpstream(ctx)
	})
	if err != nil {
		a.logger.WarnContext(ctx, "fetch failed, adapter contributes nothing this cycle", "error", err)
		return nil, err
	}

	items, ok := out.([]news.Article)
	if !ok {
		return nil, fmt.Errorf("unexpected cached payload type %T", out)
	}

	return items, nil
}

func (a *NewsAPI) fetchUpstream(ctx context.Context) ([]news.Article, error) {
	values := url.Values{}
	values.Set("q", a.query)
	values.Set("pageSize", strconv.Itoa(newsAPIPageSize))
	values.Set("sortBy", "publishedAt")
	if a.apiKey != "" {
		values.Set("apiKey", a.apiKey)
	}
	fullURL := a.baseURL + "/everything?" + values.Encode()

	var envelope newsAPIEnvelope
	if err := a.client.getJSON(ctx, fullURL, &envelope); err != nil {
		return nil, fmt.Errorf("fetch articles: %w", err)
	}
	if envelope.Status != "" && envelope.Status != "ok" {
		return nil, fmt.Errorf("news feed reported status %q", envelope.Status)
	}

	out := make([]news.Article, 0, len(envelope.Articles))
	for _, item := range envelope.Articles {
		mapped, ok := a.mapItem(item)
		if !ok {
			continue
		}
		out = append(out, mapped)
	}

	return out, nil
}

func (a *NewsAPI) mapItem(item newsAPIItem) (news.Article, bool) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return news.Article{}, false
	}

	articleID := strings.TrimSpace(item.ID)
	if articleID == "" {
		minted, err := a.ids.NewID()
		if err != nil {
			return news.Article{}, false
		}
		articleID = minted
	}

	source := strings.TrimSpace(item.SourceName)
	if source == "" {
		source = newsAPIName
	}

	return news.Article{
		ID:          "newsapi-" + articleID,
		Title:       title,
		Summary:     strings.TrimSpace(item.Description),
		Image:       strings.TrimSpace(item.URLToImage),
		URL:         strings.TrimSpace(item.URL),
		PublishedAt: strings.TrimSpace(item.PublishedAt),
		Source:      source,
		Category:    strings.TrimSpace(item.Category),
	}, true
}

func (a *NewsAPI) ClearCache(ctx context.Context) {
	a.cache.Delete(ctx, newsAPICacheKey)
}
