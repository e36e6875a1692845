package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"

	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/domain/transfer"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/cache"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/logging"
	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/resilience"
)

const (
	dealWireName       = "DealWire"
	dealWireDefaultURL = "https://dealwire.example.io/api"
	dealWireCacheKey   = "staged-deals"

	dealWireStageRumour   = "rumours"
	dealWireStageDoneDeal = "done-deals"
)

type DealWireConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	CacheTTL       time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.BreakerConfig
}

// DealWire consumes the staged rumour/done-deal API: the same upstream
// exposes its pipeline as two endpoints with identical item shapes, and
// the stage name decides the mapped status.
type DealWire struct {
	httpClient     *fasthttp.Client
	baseURL        string
	token          string
	timeout        time.Duration
	logger         *logging.Logger
	cache          *cache.Store
	breaker        *resilience.Breaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	now            func() time.Time
}

func NewDealWire(cfg DealWireConfig) *DealWire {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = dealWireDefaultURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}

	return &DealWire{
		httpClient: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		logger:         logger.With("adapter", dealWireName),
		cache:          cache.NewStore(cacheTTL),
		breaker:        resilience.NewBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
		now:            time.Now,
	}
}

func (a *DealWire) Name() string { return dealWireName }

type dealWireEnvelope struct {
	Deals []dealWireItem `json:"deals"`
}

type dealWireItem struct {
	Ref      string `json:"ref"`
	Player   string `json:"player"`
	Selling  string `json:"selling_club"`
	Buying   string `json:"buying_club"`
	Fee      string `json:"fee"`
	Stage    string `json:"stage"`
	Reported string `json:"reported_at"`
}

func (a *DealWire) FetchTransfers(ctx context.Context) ([]transfer.Transfer, error) {
	out, err := a.cache.GetOrLoad(ctx, dealWireCacheKey, func(ctx context.Context) (any, error) {
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

// fetchUpstream settles both stages independently: one failing endpoint
// degrades the adapter to the other's records, not to nothing.
func (a *DealWire) fetchUpstream(ctx context.Context) ([]transfer.Transfer, error) {
	stages := []string{dealWireStageDoneDeal, dealWireStageRumour}

	var out []transfer.Transfer
	var lastErr error
	for _, stage := range stages {
		deals, err := a.fetchStage(ctx, stage)
		if err != nil {
			a.logger.WarnContext(ctx, "stage fetch failed", "stage", stage, "error", err)
			lastErr = err
			continue
		}
		out = append(out, deals...)
	}

	if len(out) == 0 && lastErr != nil {
		return nil, lastErr
	}

	return out, nil
}

func (a *DealWire) fetchStage(ctx context.Context, stage string) ([]transfer.Transfer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.circuitEnabled {
		if err := a.breaker.Allow(); err != nil {
			return nil, fmt.Errorf("%w: upstream feed circuit is %s", ErrFeedTransient, a.breaker.State())
		}
	}

	fullURL := a.baseURL + "/" + stage

	raw, err, _ := a.flight.Do(fullURL, func() (any, error) {
		body, reqErr := a.execute(fullURL)
		if a.circuitEnabled {
			if reqErr != nil {
				a.breaker.RecordFailure()
			} else {
				a.breaker.RecordSuccess()
			}
		}
		return body, reqErr
	})
	if err != nil {
		return nil, err
	}

	body, ok := raw.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", raw)
	}

	var envelope dealWireEnvelope
	if err := sonic.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", stage, err)
	}

	out := make([]transfer.Transfer, 0, len(envelope.Deals))
	for _, item := range envelope.Deals {
		mapped, ok := a.mapItem(stage, item)
		if !ok {
			continue
		}
		out = append(out, mapped)
	}

	return out, nil
}

func (a *DealWire) execute(fullURL string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	if err := a.httpClient.DoTimeout(req, resp, a.timeout); err != nil {
		return nil, fmt.Errorf("%w: send request: %v", ErrFeedTransient, err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		if isRetryableStatus(status) {
			return nil, fmt.Errorf("%w: feed status=%d", ErrFeedTransient, status)
		}
		return nil, fmt.Errorf("feed status=%d", status)
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())

	return body, nil
}

func (a *DealWire) mapItem(stage string, item dealWireItem) (transfer.Transfer, bool) {
	playerName := strings.TrimSpace(item.Player)
	ref := strings.TrimSpace(item.Ref)
	if playerName == "" || ref == "" {
		return transfer.Transfer{}, false
	}

	status := transfer.StatusRumored
	category := "Rumours"
	if stage == dealWireStageDoneDeal {
		status = transfer.StatusConfirmed
		category = "Done Deal"
	}

	date := strings.TrimSpace(item.Reported)
	if date == "" {
		date = a.now().UTC().Format(time.RFC3339)
	}

	return transfer.Transfer{
		ID:         "dealwire-" + ref,
		PlayerName: playerName,
		FromClub:   clubOrUnknown(item.Selling),
		ToClub:     clubOrUnknown(item.Buying),
		Fee:        strings.TrimSpace(item.Fee),
		Status:     status,
		Date:       date,
		Source:     dealWireName,
		Category:   category,
	}, true
}

func (a *DealWire) ClearCache(ctx context.Context) {
	a.cache.Delete(ctx, dealWireCacheKey)
}
