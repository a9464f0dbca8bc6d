package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/navid-fn/coinboard/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL        = "https://api.coingecko.com/api/v3"
	DefaultRequestTimeout = 30 * time.Second
	MarketsPerPage        = 100

	apiKeyHeader = "x-cg-demo-api-key"
	maxErrorBody = 512
)

type ClientConfig struct {
	BaseURL           string
	APIKey            string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
}

// StatusError is returned for any non-2xx provider answer.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

// Client issues plain GETs against the provider. It never retries and never caches.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logrus.Entry
}

func NewClient(cfg ClientConfig, logger *logrus.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		limiter:    limiter,
		logger:     logger.WithField("component", "coingecko"),
	}
}

// Markets returns the top coins by market cap, in provider order.
func (c *Client) Markets(ctx context.Context) ([]CoinSummary, error) {
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("order", "market_cap_desc")
	q.Set("per_page", strconv.Itoa(MarketsPerPage))
	q.Set("page", "1")
	q.Set("sparkline", "false")

	var coins []CoinSummary
	if err := c.get(ctx, "/coins/markets", q, &coins); err != nil {
		return nil, fmt.Errorf("fetch markets: %w", err)
	}
	return coins, nil
}

// Coin returns metadata and USD market data for one coin.
func (c *Client) Coin(ctx context.Context, id string) (*CoinDetail, error) {
	q := url.Values{}
	q.Set("localization", "false")
	q.Set("tickers", "false")
	q.Set("market_data", "true")
	q.Set("community_data", "false")
	q.Set("developer_data", "false")
	q.Set("sparkline", "false")

	var detail CoinDetail
	if err := c.get(ctx, "/coins/"+url.PathEscape(id), q, &detail); err != nil {
		return nil, fmt.Errorf("fetch coin %s: %w", id, err)
	}
	return &detail, nil
}

// MarketChart returns the USD price history of a coin over the last days.
func (c *Client) MarketChart(ctx context.Context, id string, days int) (PriceSeries, error) {
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("days", strconv.Itoa(days))

	var resp marketChartResponse
	if err := c.get(ctx, "/coins/"+url.PathEscape(id)+"/market_chart", q, &resp); err != nil {
		return nil, fmt.Errorf("fetch chart %s/%dd: %w", id, days, err)
	}

	series := make(PriceSeries, 0, len(resp.Prices))
	dropped := 0
	for _, sample := range resp.Prices {
		if len(sample) < 2 {
			dropped++
			continue
		}
		series = append(series, PricePoint{
			Time:  utils.TimestampIn(int64(sample[0]), time.UTC),
			Price: sample[1],
		})
	}
	if dropped > 0 {
		c.logger.WithFields(logrus.Fields{
			"coin":     id,
			"days":     days,
			"dropped":  dropped,
			"returned": len(resp.Prices),
		}).Debug("dropped malformed chart samples")
	}
	return series, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"path":    path,
		"status":  resp.StatusCode,
		"elapsed": time.Since(start),
	}).Debug("provider request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal: %w", err)
	}
	return nil
}
