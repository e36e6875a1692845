package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/DJazzTest/Teamtalk-transfers-sub001/internal/platform/resilience"
)

const maxFeedBodyBytes = 6 << 20

// feedClient is the shared HTTP plumbing behind the net/http adapters:
// bounded body, retry with linear backoff on transient statuses, and an
// optional circuit breaker in front of the upstream.
type feedClient struct {
	httpClient     *http.Client
	maxRetries     int
	breaker        *resilience.Breaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func newFeedClient(httpClient *http.Client, timeout time.Duration, maxRetries int, breakerCfg resilience.BreakerConfig) *feedClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &feedClient{
		httpClient:     httpClient,
		maxRetries:     maxRetries,
		breaker:        resilience.NewBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// getJSON fetches fullURL and decodes the payload into target. Requests
// for the same URL are single-flighted.
func (c *feedClient) getJSON(ctx context.Context, fullURL string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			return fmt.Errorf("%w: upstream feed circuit is %s", ErrFeedTransient, c.breaker.State())
		}
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.execute(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}

	return nil
}

func (c *feedClient) execute(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", ErrFeedTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxFeedBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", ErrFeedTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: feed status=%d", ErrFeedTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("feed status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}

		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
