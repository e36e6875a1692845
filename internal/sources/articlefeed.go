package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/transfer"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/cache"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/id"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/logging"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/resilience"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/relevance"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/textparse"
)

const (
	articleFeedName       = "Article Feed"
	articleFeedDefaultURL = "https://articles.example.net/feed"
	articleFeedCacheKey   = "parsed-transfers"
)

// transferAllowList bounds the extraction workload: only headlines
// mentioning one of these terms are handed to the parser.
var transferAllowList = []string{
	"transfer", "signing", "sign", "deal", "rumour", "rumor",
	"linked", "bid", "medical", "fee", "swoop", "move",
}

type ArticleFeedConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	CacheTTL       time.Duration
	Logger         *logging.Logger
	Parser         *textparse.Parser
	IDs            id.Generator
	CircuitBreaker resilience.BreakerConfig
}

// ArticleFeed consumes a free-text article feed whose items carry no
// structured transfer fields. Candidate items pass a keyword allow-list,
// have HTML stripped from their excerpts, and then go through headline
// extraction; only parses clearing the confidence gate become transfers.
type ArticleFeed struct {
	client  *feedClient
	baseURL string
	logger  *logging.Logger
	cache   *cache.Store
	parser  *textparse.Parser
	ids     id.Generator
	now     func() time.Time
}

func NewArticleFeed(cfg ArticleFeedConfig) *ArticleFeed {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = articleFeedDefaultURL
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}

	parser := cfg.Parser
	if parser == nil {
		parser = textparse.NewParser()
		parser.IsClubName = relevance.IsKnownClub
	}

	ids := cfg.IDs
	if ids == nil {
		ids = id.NewRandomGenerator()
	}

	return &ArticleFeed{
		client:  newFeedClient(cfg.HTTPClient, cfg.Timeout, cfg.MaxRetries, cfg.CircuitBreaker),
		baseURL: baseURL,
		logger:  logger.With("adapter", articleFeedName),
		cache:   cache.NewStore(cacheTTL),
		parser:  parser,
		ids:     ids,
		now:     time.Now,
	}
}

func (a *ArticleFeed) Name() string { return articleFeedName }

type articleFeedEnvelope struct {
	Items []articleFeedItem `json:"items"`
}

type articleFeedItem struct {
	GUID        string `json:"guid"`
	Headline    string `json:"headline"`
	Excerpt     string `json:"excerpt"`
	Tag         string `json:"tag"`
	SourceLabel string `json:"source_label"`
	PublishedAt string `json:"published_at"`
}

func (a *ArticleFeed) FetchTransfers(ctx context.Context) ([]transfer.Transfer, error) {
	out, err := a.cache.GetOrLoad(ctx, articleFeedCacheKey, func(ctx context.Context) (any, error) {
		return a.fetchUpstream(ctx)
	})
	if err != nil {
		a.logger.WarnContext(ctx, "fetch failed, adapter contributes nothing this cycle", "error", err)
		return nil, err
	}

	items, ok := out.([]transfer.Transfer)
	if !ok {
		return nil, fmt.Errorf("unexpected cached payload type %T", out)
	}

	return items, nil
}

func (a *ArticleFeed) fetchUpstream(ctx context.Context) ([]transfer.Transfer, error) {
	var envelope articleFeedEnvelope
	if err := a.client.getJSON(ctx, a.baseURL+"/latest.json", &envelope); err != nil {
		return nil, fmt.Errorf("fetch articles: %w", err)
	}

	out := make([]transfer.Transfer, 0, len(envelope.Items))
	filtered := 0
	for _, item := range envelope.Items {
		headline := strings.TrimSpace(item.Headline)
		if headline == "" || !passesAllowList(headline) {
			filtered++
			continue
		}

		parsed, ok := a.parser.Parse(textparse.Input{
			Headline:    headline,
			Excerpt:     stripHTML(item.Excerpt),
			CategoryTag: strings.TrimSpace(item.Tag),
			SourceTag:   strings.TrimSpace(item.SourceLabel),
		})
		if !ok || !a.parser.Promotable(parsed) {
			filtered++
			continue
		}

		mapped, err := a.promote(item, parsed)
		if err != nil {
			a.logger.WarnContext(ctx, "promote parsed transfer failed", "error", err)
			continue
		}
		out = append(out, mapped)
	}

	a.logger.InfoContext(ctx, "article extraction cycle complete",
		"items", len(envelope.Items),
		"promoted", len(out),
		"filtered", filtered,
	)

	return out, nil
}

func (a *ArticleFeed) promote(item articleFeedItem, parsed textparse.ParsedInfo) (transfer.Transfer, error) {
	upstreamID := strings.TrimSpace(item.GUID)
	if upstreamID == "" {
		minted, err := a.ids.NewID()
		if err != nil {
			return transfer.Transfer{}, fmt.Errorf("mint article id: %w", err)
		}
		upstreamID = minted
	}

	date := strings.TrimSpace(item.PublishedAt)
	if date == "" {
		date = a.now().UTC().Format(time.RFC3339)
	}

	return transfer.Transfer{
		ID:          "articles-" + upstreamID,
		PlayerName:  parsed.PlayerName,
		FromClub:    clubOrUnknown(parsed.FromClub),
		ToClub:      clubOrUnknown(parsed.ToClub),
		Fee:         parsed.Fee,
		Status:      parsed.Status,
		Date:        date,
		Source:      articleFeedName,
		Category:    strings.TrimSpace(item.Tag),
		Description: strings.TrimSpace(item.Headline),
	}, nil
}

func (a *ArticleFeed) ClearCache(ctx context.Context) {
	a.cache.Delete(ctx, articleFeedCacheKey)
}

func passesAllowList(headline string) bool {
	lowered := strings.ToLower(headline)
	for _, keyword := range transferAllowList {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// stripHTML reduces an HTML excerpt to its text content. Malformed
// markup falls back to the raw string rather than dropping the item.
func stripHTML(excerpt string) string {
	trimmed := strings.TrimSpace(excerpt)
	if trimmed == "" || !strings.Contains(trimmed, "<") {
		return trimmed
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
	if err != nil {
		return trimmed
	}

	return strings.Join(strings.Fields(doc.Text()), " ")
}
