// Package backend is the typed client for the upstream web feature status
// API. All list endpoints are paginated with opaque page tokens so they can
// feed chart aggregation as lazy page sequences.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrUnauthorized is returned when the upstream API rejects the caller's
// credentials. Handlers translate it into a login redirect.
var ErrUnauthorized = errors.New("backend: unauthorized")

// APIError is a non-2xx upstream response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the upstream API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets a default bearer token for user endpoints.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ping verifies the upstream API answers at all. It asks for a single
// feature, the cheapest request the API serves.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("page_size", "1")

	var page FeaturePage
	return c.get(ctx, "/v1/features", params, "", &page)
}

// FeatureSearchQuery narrows and orders a feature search.
type FeatureSearchQuery struct {
	Query    string
	Sort     string
	Start    int
	PageSize int
}

// ListFeatures runs a paginated feature search.
func (c *Client) ListFeatures(ctx context.Context, q FeatureSearchQuery) (*FeaturePage, error) {
	params := url.Values{}
	if q.Query != "" {
		params.Set("q", q.Query)
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	if q.Start > 0 {
		params.Set("start", strconv.Itoa(q.Start))
	}
	if q.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(q.PageSize))
	}

	var page FeaturePage
	if err := c.get(ctx, "/v1/features", params, "", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetFeature fetches one feature by id.
func (c *Client) GetFeature(ctx context.Context, featureID string) (*Feature, error) {
	var feature Feature
	path := "/v1/features/" + url.PathEscape(featureID)
	if err := c.get(ctx, path, nil, "", &feature); err != nil {
		return nil, err
	}
	return &feature, nil
}

// ListChromiumDailyUsageStats returns one page of daily Chromium usage for a
// feature within [start, end].
func (c *Client) ListChromiumDailyUsageStats(ctx context.Context, featureID string, start, end time.Time, pageToken *string) (*ChromiumDailyStatPage, error) {
	params := rangeParams(start, end, pageToken)

	var page ChromiumDailyStatPage
	path := "/v1/features/" + url.PathEscape(featureID) + "/stats/usage/chromium/daily_stats"
	if err := c.get(ctx, path, params, "", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListWPTMetrics returns one page of WPT run metrics for a feature in one
// browser and channel within [start, end].
func (c *Client) ListWPTMetrics(ctx context.Context, featureID, browser, channel string, start, end time.Time, pageToken *string) (*WPTRunMetricPage, error) {
	params := rangeParams(start, end, pageToken)

	var page WPTRunMetricPage
	path := "/v1/features/" + url.PathEscape(featureID) +
		"/stats/wpt/browsers/" + url.PathEscape(browser) +
		"/channels/" + url.PathEscape(channel) + "/subtest_counts"
	if err := c.get(ctx, path, params, "", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListFeatureCounts returns one page of cumulative supported-feature counts
// for one browser within [start, end].
func (c *Client) ListFeatureCounts(ctx context.Context, browser string, start, end time.Time, pageToken *string) (*CountPage, error) {
	params := rangeParams(start, end, pageToken)

	var page CountPage
	path := "/v1/stats/features/browsers/" + url.PathEscape(browser) + "/feature_counts"
	if err := c.get(ctx, path, params, "", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListBaselineStatusCounts returns one page of cumulative Baseline status
// counts within [start, end].
func (c *Client) ListBaselineStatusCounts(ctx context.Context, start, end time.Time, pageToken *string) (*CountPage, error) {
	params := rangeParams(start, end, pageToken)

	var page CountPage
	if err := c.get(ctx, "/v1/stats/baseline_status/low_date_feature_counts", params, "", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListSavedSearches returns the signed-in user's saved searches.
func (c *Client) ListSavedSearches(ctx context.Context, token string) ([]SavedSearch, error) {
	var searches []SavedSearch
	if err := c.get(ctx, "/v1/users/me/saved-searches", nil, token, &searches); err != nil {
		return nil, err
	}
	return searches, nil
}

// CreateSavedSearch creates a saved search for the signed-in user.
func (c *Client) CreateSavedSearch(ctx context.Context, token string, req CreateSavedSearchRequest) (*SavedSearch, error) {
	var search SavedSearch
	if err := c.do(ctx, http.MethodPost, "/v1/users/me/saved-searches", nil, token, req, &search); err != nil {
		return nil, err
	}
	return &search, nil
}

// DeleteSavedSearch deletes one of the signed-in user's saved searches.
func (c *Client) DeleteSavedSearch(ctx context.Context, token, searchID string) error {
	path := "/v1/users/me/saved-searches/" + url.PathEscape(searchID)
	return c.do(ctx, http.MethodDelete, path, nil, token, nil, nil)
}

// PutBookmark subscribes the signed-in user to a saved search.
func (c *Client) PutBookmark(ctx context.Context, token, searchID string) error {
	path := "/v1/users/me/saved-searches/" + url.PathEscape(searchID) + "/bookmark_status"
	return c.do(ctx, http.MethodPut, path, nil, token, nil, nil)
}

// RemoveBookmark unsubscribes the signed-in user from a saved search.
func (c *Client) RemoveBookmark(ctx context.Context, token, searchID string) error {
	path := "/v1/users/me/saved-searches/" + url.PathEscape(searchID) + "/bookmark_status"
	return c.do(ctx, http.MethodDelete, path, nil, token, nil, nil)
}

// ListNotificationChannels returns the signed-in user's notification channels.
func (c *Client) ListNotificationChannels(ctx context.Context, token string) ([]NotificationChannel, error) {
	var channels []NotificationChannel
	if err := c.get(ctx, "/v1/users/me/notification-channels", nil, token, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

// UpdateNotificationChannel enables or disables one notification channel.
func (c *Client) UpdateNotificationChannel(ctx context.Context, token, channelID string, req UpdateNotificationChannelRequest) (*NotificationChannel, error) {
	var channel NotificationChannel
	path := "/v1/users/me/notification-channels/" + url.PathEscape(channelID)
	if err := c.do(ctx, http.MethodPut, path, nil, token, req, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

func rangeParams(start, end time.Time, pageToken *string) url.Values {
	params := url.Values{}
	params.Set("startAt", start.Format("2006-01-02"))
	params.Set("endAt", end.Format("2006-01-02"))
	if pageToken != nil {
		params.Set("page_token", *pageToken)
	}
	return params
}

func (c *Client) get(ctx context.Context, path string, params url.Values, token string, out any) error {
	return c.do(ctx, http.MethodGet, path, params, token, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, token string, body, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token == "" {
		token = c.token
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func readErrorMessage(body io.Reader) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return "upstream request failed"
}
