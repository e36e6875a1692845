package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/transfer"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/cache"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/logging"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/resilience"
)

const (
	transferAPIName       = "TransferAPI"
	transferAPIDefaultURL = "https://api.transferfeed.example.com/v2"
	transferAPICacheKey   = "transfers"
)

type TransferAPIConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	CacheTTL       time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.BreakerConfig
}

// TransferAPI consumes the structured transfer feed: player, clubs, fee
// and category arrive as fields, so mapping is a straight projection.
type TransferAPI struct {
	client  *feedClient
	baseURL string
	apiKey  string
	logger  *logging.Logger
	cache   *cache.Store
	now     func() time.Time
}

func NewTransferAPI(cfg TransferAPIConfig) *TransferAPI {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = transferAPIDefaultURL
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}

	return &TransferAPI{
		client:  newFeedClient(cfg.HTTPClient, cfg.Timeout, cfg.MaxRetries, cfg.CircuitBreaker),
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		logger:  logger.With("adapter", transferAPIName),
		cache:   cache.NewStore(cacheTTL),
		now:     time.Now,
	}
}

func (a *TransferAPI) Name() string { return transferAPIName }

// transferAPIEnvelope is the narrow upstream shape this adapter accepts.
// Every field is optional; presence checks happen during mapping.
type transferAPIEnvelope struct {
	Transfers []transferAPIItem `json:"transfers"`
}

type transferAPIItem struct {
	ID          string `json:"id"`
	PlayerName  string `json:"player_name"`
	FromClub    string `json:"from_club"`
	ToClub      string `json:"to_club"`
	Fee         string `json:"fee"`
	Category    string `json:"category"`
	Description string `json:"description"`
	PublishedAt string `json:"published_at"`
}

func (a *TransferAPI) FetchTransfers(ctx context.Context) ([]transfer.Transfer, error) {
	out, err := a.cache.GetOrLoad(ctx, transferAPICacheKey, func(ctx context.Context) (any, error) {
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

func (a *TransferAPI) fetchUpstream(ctx context.Context) ([]transfer.Transfer, error) {
	values := url.Values{}
	values.Set("league", "premier-league")
	if a.apiKey != "" {
		values.Set("api_key", a.apiKey)
	}
	fullURL := a.baseURL + "/transfers?" + values.Encode()

	var envelope transferAPIEnvelope
	if err := a.client.getJSON(ctx, fullURL, &envelope); err != nil {
		return nil, fmt.Errorf("fetch transfers: %w", err)
	}

	out := make([]transfer.Transfer, 0, len(envelope.Transfers))
	dropped := 0
	for _, item := range envelope.Transfers {
		mapped, ok := a.mapItem(item)
		if !ok {
			dropped++
			continue
		}
		out = append(out, mapped)
	}

	if dropped > 0 {
		a.logger.InfoContext(ctx, "dropped records failing required-field checks", "dropped", dropped, "kept", len(out))
	}

	return out, nil
}

func (a *TransferAPI) mapItem(item transferAPIItem) (transfer.Transfer, bool) {
	playerName := strings.TrimSpace(item.PlayerName)
	if playerName == "" {
		return transfer.Transfer{}, false
	}

	upstreamID := strings.TrimSpace(item.ID)
	if upstreamID == "" {
		return transfer.Transfer{}, false
	}

	date := strings.TrimSpace(item.PublishedAt)
	if date == "" {
		date = a.now().UTC().Format(time.RFC3339)
	}

	return transfer.Transfer{
		ID:          "transferapi-" + upstreamID,
		PlayerName:  playerName,
		FromClub:    clubOrUnknown(item.FromClub),
		ToClub:      clubOrUnknown(item.ToClub),
		Fee:         strings.TrimSpace(item.Fee),
		Status:      transfer.StatusFromCategory(strings.TrimSpace(item.Category)),
		Date:        date,
		Source:      transferAPIName,
		Category:    strings.TrimSpace(item.Category),
		Description: strings.TrimSpace(item.Description),
	}, true
}

// ClearCache drops the adapter-local response cache.
func (a *TransferAPI) ClearCache(ctx context.Context) {
	a.cache.Delete(ctx, transferAPICacheKey)
}

func clubOrUnknown(club string) string {
	if trimmed := strings.TrimSpace(club); trimmed != "" {
		return trimmed
	}
	return transfer.UnknownClub
}
