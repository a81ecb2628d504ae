package handlers

import (
	"time"

	"github.com/GoogleChrome/webstatus-dashboard/internal/backend"
	"github.com/GoogleChrome/webstatus-dashboard/internal/config"
	"github.com/GoogleChrome/webstatus-dashboard/internal/pagination"
	"github.com/GoogleChrome/webstatus-dashboard/internal/panel"
)

// ChartRow is one timestamp's values across all series. Series without an
// observation at that timestamp are absent from the map, not zero.
type ChartRow struct {
	Timestamp time.Time          `json:"timestamp"`
	Values    map[string]float64 `json:"values"`
}

// ChartResponse is a chart panel's aggregated table plus display metadata.
type ChartResponse struct {
	PanelID     string     `json:"panel_id"`
	Description string     `json:"description,omitempty"`
	YAxisTitle  string     `json:"y_axis_title,omitempty"`
	View        string     `json:"view,omitempty"`
	Status      string     `json:"status"`
	Series      []string   `json:"series"`
	Rows        []ChartRow `json:"rows"`
}

// PaginationBlock carries the rendered page strip for a listing.
type PaginationBlock struct {
	Total           int               `json:"total"`
	Start           int               `json:"start"`
	PageSize        int               `json:"page_size"`
	PageSizeChoices []int             `json:"page_size_choices"`
	Pages           []pagination.Item `json:"pages"`
	Prev            *string           `json:"prev,omitempty"`
	Next            *string           `json:"next,omitempty"`
}

// FeatureListResponse is one page of feature search results with navigation.
type FeatureListResponse struct {
	Data       []backend.Feature `json:"data"`
	Pagination PaginationBlock   `json:"pagination"`
}

// CreateSavedSearchRequest is the payload for creating a saved search.
type CreateSavedSearchRequest struct {
	Name        string `json:"name"`
	Query       string `json:"query"`
	Description string `json:"description,omitempty"`
}

// UpdateChannelRequest toggles a notification channel.
type UpdateChannelRequest struct {
	Enabled bool `json:"enabled"`
}

func chartResponse(info config.PanelInfo, view string, snap panel.Snapshot) ChartResponse {
	resp := ChartResponse{
		PanelID:     info.ID,
		Description: info.Description,
		YAxisTitle:  info.YAxisTitle,
		View:        view,
		Status:      snap.Status.String(),
	}
	if snap.Table == nil {
		return resp
	}
	resp.Series = snap.Table.Labels()
	resp.Rows = make([]ChartRow, 0, snap.Table.Len())
	for _, row := range snap.Table.Rows() {
		resp.Rows = append(resp.Rows, ChartRow{
			Timestamp: row.Timestamp,
			Values:    row.Values(),
		})
	}
	return resp
}
