package backend

import "time"

// PageMetadata is the paging envelope returned by every list endpoint.
type PageMetadata struct {
	Total         int     `json:"total"`
	NextPageToken *string `json:"next_page_token,omitempty"`
}

// BaselineInfo is the Baseline classification of a feature: how widely it is
// supported across the core browser set (none/newly/widely).
type BaselineInfo struct {
	Status   string     `json:"status"`
	LowDate  *time.Time `json:"low_date,omitempty"`
	HighDate *time.Time `json:"high_date,omitempty"`
}

// BrowserImplementation records one browser's support for a feature.
type BrowserImplementation struct {
	Status string     `json:"status"`
	Date   *time.Time `json:"date,omitempty"`
}

// Feature is one web-platform feature as returned by the feature search.
type Feature struct {
	FeatureID       string                           `json:"feature_id"`
	Name            string                           `json:"name"`
	Baseline        *BaselineInfo                    `json:"baseline,omitempty"`
	Implementations map[string]BrowserImplementation `json:"browser_implementations,omitempty"`
}

// FeaturePage is one page of feature search results.
type FeaturePage struct {
	Metadata PageMetadata `json:"metadata"`
	Data     []Feature    `json:"data"`
}

// ChromiumDailyStat is one day of Chromium usage for a feature.
type ChromiumDailyStat struct {
	Timestamp time.Time `json:"timestamp"`
	Usage     float64   `json:"usage"`
}

// ChromiumDailyStatPage is one page of daily usage records.
type ChromiumDailyStatPage struct {
	Metadata PageMetadata        `json:"metadata"`
	Data     []ChromiumDailyStat `json:"data"`
}

// WPTRunMetric is one WPT run's pass counts for a feature in one browser.
type WPTRunMetric struct {
	RunTimestamp    time.Time `json:"run_timestamp"`
	TestPassCount   int64     `json:"test_pass_count"`
	TotalTestsCount int64     `json:"total_tests_count"`
}

// WPTRunMetricPage is one page of WPT run metrics.
type WPTRunMetricPage struct {
	Metadata PageMetadata   `json:"metadata"`
	Data     []WPTRunMetric `json:"data"`
}

// CountPoint is a timestamped count, used both for supported-feature counts
// per browser and Baseline status counts.
type CountPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Count     int64     `json:"count"`
}

// CountPage is one page of count points.
type CountPage struct {
	Metadata PageMetadata `json:"metadata"`
	Data     []CountPoint `json:"data"`
}

// SavedSearch is a signed-in user's saved feature query.
type SavedSearch struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Query        string     `json:"query"`
	Description  string     `json:"description,omitempty"`
	Bookmarked   bool       `json:"bookmarked"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	OwnerIsUser  bool       `json:"owner_is_user"`
	SubscriberID string     `json:"subscriber_id,omitempty"`
}

// CreateSavedSearchRequest is the payload for creating a saved search.
type CreateSavedSearchRequest struct {
	Name        string `json:"name"`
	Query       string `json:"query"`
	Description string `json:"description,omitempty"`
}

// NotificationChannel is one delivery target for subscription notifications.
type NotificationChannel struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Target  string `json:"target"`
	Enabled bool   `json:"enabled"`
}

// UpdateNotificationChannelRequest toggles a channel on or off.
type UpdateNotificationChannelRequest struct {
	Enabled bool `json:"enabled"`
}
