package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// Rates is a USD-based exchange-rate snapshot.
type Rates struct {
	Rates     map[string]float64 `json:"rates"`
	UpdatedAt string             `json:"updated_at"`
	Source    string             `json:"source"`
}

const (
	SourceLive     = "Frankfurter API"
	SourceFallback = "Fallback"
)

// fallbackRates keeps quoting usable when the rate provider is down.
// Values are refreshed by hand now and then.
var fallbackRates = map[string]float64{
	"USD": 1.0,
	"ARS": 1473.17,
	"EUR": 0.87,
	"GBP": 0.77,
	"BRL": 5.40,
}

// cacheKey holds the last live snapshot in Redis.
const cacheKey = "fx:rates:usd"

// Client fetches USD-based rates from a Frankfurter-compatible API.
type Client struct {
	baseURL  string
	httpc    *http.Client
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
		now:     time.Now,
	}
}

// WithCache keeps live snapshots in Redis so the provider is not hit on
// every request.
func (c *Client) WithCache(rdb *redis.Client, ttl time.Duration) *Client {
	c.cache = rdb
	c.cacheTTL = ttl
	return c
}

// WithClock overrides the client clock. Tests only.
func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	return c
}

// Latest returns the current rates. Any provider failure degrades to
// the cached snapshot if one is fresh, then to the fallback table,
// never an error.
func (c *Client) Latest(ctx context.Context) Rates {
	if cached, ok := c.fromCache(ctx); ok {
		return cached
	}
	out := Rates{
		Rates:     make(map[string]float64, len(fallbackRates)),
		UpdatedAt: c.now().Format(time.RFC3339),
		Source:    SourceFallback,
	}
	for cur, rate := range fallbackRates {
		out.Rates[cur] = rate
	}

	fetched, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn("fx provider unavailable, serving fallback rates", slog.Any("error", err))
		return out
	}

	for cur := range out.Rates {
		if cur == "USD" {
			continue
		}
		if rate, ok := fetched[cur]; ok {
			out.Rates[cur] = rate
		}
	}
	out.Source = SourceLive
	c.toCache(ctx, out)
	return out
}

func (c *Client) fromCache(ctx context.Context) (Rates, bool) {
	if c.cache == nil {
		return Rates{}, false
	}
	raw, err := c.cache.Get(ctx, cacheKey).Bytes()
	if err != nil {
		return Rates{}, false
	}
	var rates Rates
	if err := json.Unmarshal(raw, &rates); err != nil {
		return Rates{}, false
	}
	return rates, true
}

func (c *Client) toCache(ctx context.Context, rates Rates) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(rates)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, cacheKey, raw, c.cacheTTL).Err(); err != nil {
		c.logger.Warn("fx cache write failed", slog.Any("error", err))
	}
}

func (c *Client) fetch(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/latest?from=USD", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fx: provider returned %d", resp.StatusCode)
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("fx: decode response: %w", err)
	}
	return payload.Rates, nil
}
