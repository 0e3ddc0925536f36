package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ajmikallu/signalist-stock-tracker-app/internal/cache"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/config"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/model"

	"go.uber.org/zap"
)

const (
	// FinnhubAPIBaseURL is the default market data endpoint
	FinnhubAPIBaseURL = "https://finnhub.io/api/v1"

	// maxErrorBody bounds how much of a failed response is kept in UpstreamError
	maxErrorBody = 4096
)

// UpstreamError is returned when the market data API answers with a non-2xx status
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream fetch failed %d: %s", e.StatusCode, e.Body)
}

// FinnhubClient handles communication with the Finnhub API
type FinnhubClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	store      cache.Store
	prefixKey  string
	logger     *zap.Logger
}

// NewFinnhubClient creates a new Finnhub API client. store may be nil, in
// which case every call is a live request.
func NewFinnhubClient(cfg config.FinnhubConfig, store cache.Store, prefixKey string, logger *zap.Logger) *FinnhubClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = FinnhubAPIBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FinnhubClient{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		store:     store,
		prefixKey: prefixKey,
		logger:    logger,
	}
}

// HasCredentials reports whether an API token is configured
func (c *FinnhubClient) HasCredentials() bool {
	return c.apiKey != ""
}

// FetchJSON GETs reqURL and decodes the JSON body into out. With a positive
// revalidate window the raw body may be served from the shared store for up
// to that long; otherwise the request always goes to the network.
func (c *FinnhubClient) FetchJSON(ctx context.Context, reqURL string, revalidate time.Duration, out any) error {
	cacheable := revalidate > 0 && c.store != nil
	var key string

	if cacheable {
		key = cache.MakeKey(c.prefixKey, reqURL)
		if body, ok := c.store.Get(ctx, key); ok {
			if err := json.Unmarshal(body, out); err == nil {
				return nil
			}
			c.logger.Warn("discarding undecodable cached response", zap.String("cache_key", key))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// *url.Error repeats the full URL, token included
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("failed to fetch %s: %w", redactToken(reqURL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &UpstreamError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if cacheable {
		c.store.Set(ctx, key, body, revalidate)
	}

	return nil
}

// Quote retrieves the latest quote for a symbol
func (c *FinnhubClient) Quote(ctx context.Context, symbol string, revalidate time.Duration) (*model.FinnhubQuote, error) {
	var quote model.FinnhubQuote
	params := url.Values{}
	params.Set("symbol", symbol)
	if err := c.FetchJSON(ctx, c.endpoint("/quote", params), revalidate, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// Profile retrieves the company profile for a symbol
func (c *FinnhubClient) Profile(ctx context.Context, symbol string, revalidate time.Duration) (*model.FinnhubProfile, error) {
	var profile model.FinnhubProfile
	params := url.Values{}
	params.Set("symbol", symbol)
	if err := c.FetchJSON(ctx, c.endpoint("/stock/profile2", params), revalidate, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Metrics retrieves basic financial metrics for a symbol
func (c *FinnhubClient) Metrics(ctx context.Context, symbol string, revalidate time.Duration) (*model.FinnhubMetrics, error) {
	var metrics model.FinnhubMetrics
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("metric", "all")
	if err := c.FetchJSON(ctx, c.endpoint("/stock/metric", params), revalidate, &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}

// Search runs a symbol lookup
func (c *FinnhubClient) Search(ctx context.Context, query string, revalidate time.Duration) (*model.FinnhubSearchResponse, error) {
	var resp model.FinnhubSearchResponse
	params := url.Values{}
	params.Set("q", query)
	if err := c.FetchJSON(ctx, c.endpoint("/search", params), revalidate, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CompanyNews retrieves news for a symbol between two YYYY-MM-DD dates
func (c *FinnhubClient) CompanyNews(ctx context.Context, symbol, from, to string, revalidate time.Duration) ([]model.FinnhubNewsArticle, error) {
	var articles []model.FinnhubNewsArticle
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("from", from)
	params.Set("to", to)
	if err := c.FetchJSON(ctx, c.endpoint("/company-news", params), revalidate, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// GeneralNews retrieves general market news
func (c *FinnhubClient) GeneralNews(ctx context.Context, revalidate time.Duration) ([]model.FinnhubNewsArticle, error) {
	var articles []model.FinnhubNewsArticle
	params := url.Values{}
	params.Set("category", "general")
	if err := c.FetchJSON(ctx, c.endpoint("/news", params), revalidate, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// endpoint builds a request URL with the API token appended
func (c *FinnhubClient) endpoint(path string, params url.Values) string {
	params.Set("token", c.apiKey)
	return c.baseURL + path + "?" + params.Encode()
}

// redactToken strips the token value from a URL before it is logged or wrapped
func redactToken(reqURL string) string {
	u, err := url.Parse(reqURL)
	if err != nil {
		return reqURL
	}
	q := u.Query()
	if q.Has("token") {
		q.Set("token", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
