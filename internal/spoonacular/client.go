package spoonacular

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/smartplates/smartplates-api/internal/logger"
	"github.com/smartplates/smartplates-api/internal/query"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.spoonacular.com"

// QuotaStatus is a point-in-time view of upstream API quota usage, read from
// the quota headers of the most recent response.
type QuotaStatus struct {
	Used      float64   `json:"used"`
	Remaining float64   `json:"remaining"`
	Exhausted bool      `json:"exhausted"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Client talks to the upstream recipe API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	exhausted  atomic.Bool
	quotaUsed  atomic.Value // float64
	quotaLeft  atomic.Value // float64
	quotaSeen  atomic.Value // time.Time
}

// NewClient creates a client against the production endpoint.
func NewClient(apiKey string) *Client {
	return NewClientWithBaseURL(apiKey, defaultBaseURL)
}

// NewClientWithBaseURL creates a client against a specific endpoint. Tests
// point this at an httptest server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SearchPage runs a complexSearch with upstream-delegated facet narrowing and
// pagination.
func (c *Client) SearchPage(ctx context.Context, params query.SearchParams) (*query.PageResult, error) {
	values := url.Values{}
	if params.Query != "" {
		values.Set("query", params.Query)
	}
	if params.MealType != "" {
		values.Set("type", params.MealType)
	}
	if params.Diet != "" {
		values.Set("diet", params.Diet)
	}
	if params.Intolerances != "" {
		values.Set("intolerances", params.Intolerances)
	}
	if params.MaxReadyMinutes > 0 {
		values.Set("maxReadyTime", strconv.Itoa(params.MaxReadyMinutes))
	}
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	page := params.Page
	if page < 1 {
		page = 1
	}
	values.Set("number", strconv.Itoa(pageSize))
	values.Set("offset", strconv.Itoa((page-1)*pageSize))
	values.Set("addRecipeInformation", "true")

	body, err := c.get(ctx, "/recipes/complexSearch", values)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, query.UpstreamError{Err: fmt.Errorf("failed to parse search response: %w", err)}
	}

	items := make([]query.Recipe, 0, len(resp.Results))
	for _, r := range resp.Results {
		items = append(items, r.toQueryRecipe())
	}
	return &query.PageResult{Items: items, Total: resp.TotalResults}, nil
}

// FetchBatch returns a bounded unfiltered candidate pool for local-filtered
// queries, sorted by upstream popularity so the pool covers the common case.
func (c *Client) FetchBatch(ctx context.Context, limit int) ([]query.Recipe, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	values := url.Values{}
	values.Set("number", strconv.Itoa(limit))
	values.Set("sort", "popularity")
	values.Set("addRecipeInformation", "true")

	body, err := c.get(ctx, "/recipes/complexSearch", values)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, query.UpstreamError{Err: fmt.Errorf("failed to parse batch response: %w", err)}
	}

	items := make([]query.Recipe, 0, len(resp.Results))
	for _, r := range resp.Results {
		items = append(items, r.toQueryRecipe())
	}
	return items, nil
}

// GetRecipe fetches the full record for one upstream recipe.
func (c *Client) GetRecipe(ctx context.Context, id int64) (*RecipeDetail, error) {
	body, err := c.get(ctx, fmt.Sprintf("/recipes/%d/information", id), url.Values{})
	if err != nil {
		return nil, err
	}

	var r apiRecipe
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, query.UpstreamError{Err: fmt.Errorf("failed to parse recipe response: %w", err)}
	}
	return r.toDetail(), nil
}

// RandomBatch fetches random recipes, optionally constrained to tags.
// Used by the admin backfill worker.
func (c *Client) RandomBatch(ctx context.Context, tags string, count int) ([]*RecipeDetail, error) {
	if count <= 0 || count > 100 {
		count = 10
	}
	values := url.Values{}
	values.Set("number", strconv.Itoa(count))
	if tags != "" {
		values.Set("include-tags", tags)
	}

	body, err := c.get(ctx, "/recipes/random", values)
	if err != nil {
		return nil, err
	}

	var resp randomResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, query.UpstreamError{Err: fmt.Errorf("failed to parse random response: %w", err)}
	}

	details := make([]*RecipeDetail, 0, len(resp.Recipes))
	for _, r := range resp.Recipes {
		details = append(details, r.toDetail())
	}
	return details, nil
}

// Quota returns the latest quota reading. Zero values mean no request has
// completed yet.
func (c *Client) Quota() QuotaStatus {
	status := QuotaStatus{Exhausted: c.exhausted.Load()}
	if v, ok := c.quotaUsed.Load().(float64); ok {
		status.Used = v
	}
	if v, ok := c.quotaLeft.Load().(float64); ok {
		status.Remaining = v
	}
	if v, ok := c.quotaSeen.Load().(time.Time); ok {
		status.UpdatedAt = v
	}
	return status
}

// Exhausted reports whether the daily quota latch is set. It resets only on
// process restart; the upstream quota resets daily anyway.
func (c *Client) Exhausted() bool {
	return c.exhausted.Load()
}

func (c *Client) get(ctx context.Context, path string, values url.Values) ([]byte, error) {
	values.Set("apiKey", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, values.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, query.UpstreamError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, query.UpstreamError{Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	c.recordQuota(resp.Header)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, query.UpstreamError{Status: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	// 402 = daily points exhausted, 429 = rate limited
	if resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusTooManyRequests {
		c.exhausted.Store(true)
		return nil, query.UpstreamError{Status: resp.StatusCode, Err: fmt.Errorf("quota exhausted")}
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorBody
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return nil, query.UpstreamError{Status: resp.StatusCode, Err: fmt.Errorf("%s", apiErr.Message)}
		}
		return nil, query.UpstreamError{Status: resp.StatusCode, Err: fmt.Errorf("unexpected status")}
	}

	return body, nil
}

// recordQuota parses the quota headers the upstream attaches to every
// response.
func (c *Client) recordQuota(header http.Header) {
	used, usedErr := strconv.ParseFloat(header.Get("X-API-Quota-Used"), 64)
	left, leftErr := strconv.ParseFloat(header.Get("X-API-Quota-Left"), 64)
	if usedErr != nil && leftErr != nil {
		return
	}
	if usedErr == nil {
		c.quotaUsed.Store(used)
	}
	if leftErr == nil {
		c.quotaLeft.Store(left)
		if left <= 0 {
			c.exhausted.Store(true)
		}
	}
	c.quotaSeen.Store(time.Now())

	logger.Get().Debug("upstream quota",
		zap.Float64("used", used),
		zap.Float64("left", left),
	)
}
