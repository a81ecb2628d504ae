package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListFeatures(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(FeaturePage{
			Metadata: PageMetadata{Total: 2},
			Data: []Feature{
				{FeatureID: "grid", Name: "CSS Grid"},
				{FeatureID: "subgrid", Name: "CSS Subgrid"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	page, err := client.ListFeatures(context.Background(), FeatureSearchQuery{
		Query:    "grid",
		Sort:     "name_asc",
		Start:    25,
		PageSize: 25,
	})
	require.NoError(t, err)

	assert.Equal(t, "/v1/features", gotPath)
	assert.Contains(t, gotQuery, "q=grid")
	assert.Contains(t, gotQuery, "sort=name_asc")
	assert.Contains(t, gotQuery, "start=25")
	assert.Contains(t, gotQuery, "page_size=25")
	assert.Equal(t, 2, page.Metadata.Total)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "grid", page.Data[0].FeatureID)
}

func TestListWPTMetricsPaging(t *testing.T) {
	var tokens []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokens = append(tokens, r.URL.Query().Get("page_token"))
		next := "token-2"
		page := WPTRunMetricPage{Metadata: PageMetadata{NextPageToken: &next}}
		if r.URL.Query().Get("page_token") == "token-2" {
			page = WPTRunMetricPage{
				Data: []WPTRunMetric{{
					RunTimestamp:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
					TestPassCount:   120,
					TotalTestsCount: 150,
				}},
			}
		}
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	first, err := client.ListWPTMetrics(context.Background(), "grid", "chrome", "stable", start, end, nil)
	require.NoError(t, err)
	require.NotNil(t, first.Metadata.NextPageToken)

	second, err := client.ListWPTMetrics(context.Background(), "grid", "chrome", "stable", start, end, first.Metadata.NextPageToken)
	require.NoError(t, err)
	assert.Nil(t, second.Metadata.NextPageToken)
	require.Len(t, second.Data, 1)
	assert.Equal(t, int64(120), second.Data[0].TestPassCount)

	require.Equal(t, []string{"", "token-2"}, tokens)
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("page_size"))
		_ = json.NewEncoder(w).Encode(FeaturePage{})
	}))
	defer server.Close()

	require.NoError(t, NewClient(server.URL).Ping(context.Background()))

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()

	require.Error(t, NewClient(down.URL).Ping(context.Background()))
}

func TestDateRangeParams(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(CountPage{})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	_, err := client.ListFeatureCounts(context.Background(), "firefox", start, end, nil)
	require.NoError(t, err)

	assert.Contains(t, query, "startAt=2026-01-01")
	assert.Contains(t, query, "endAt=2026-01-31")
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.ListSavedSearches(context.Background(), "expired-token")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAPIErrorCarriesUpstreamMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid search query"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.ListFeatures(context.Background(), FeatureSearchQuery{Query: "))("})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "invalid search query", apiErr.Message)
}

func TestBearerTokenForwarded(t *testing.T) {
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]SavedSearch{})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.ListSavedSearches(context.Background(), "user-token")
	require.NoError(t, err)
	assert.Equal(t, "Bearer user-token", authHeader)
}

func TestDefaultTokenUsedWhenNoneProvided(t *testing.T) {
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(FeaturePage{})
	}))
	defer server.Close()

	client := NewClient(server.URL, WithToken("service-token"))
	_, err := client.ListFeatures(context.Background(), FeatureSearchQuery{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer service-token", authHeader)
}

func TestDeleteSavedSearch(t *testing.T) {
	var method, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.DeleteSavedSearch(context.Background(), "tok", "3f0f4f40-8c7a-4f6e-9a3d-2f9a64c1a111")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/v1/users/me/saved-searches/3f0f4f40-8c7a-4f6e-9a3d-2f9a64c1a111", path)
}
