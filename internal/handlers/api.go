// Package handlers exposes the dashboard HTTP API: chart panels aggregated
// from the upstream feature-status service, the paginated feature listing,
// and the signed-in user's saved searches and notification channels.
package handlers

import (
	"github.com/GoogleChrome/webstatus-dashboard/internal/backend"
	"github.com/GoogleChrome/webstatus-dashboard/internal/config"
	"github.com/GoogleChrome/webstatus-dashboard/internal/panel"
	"github.com/GoogleChrome/webstatus-dashboard/internal/realtime"
)

// API bundles the handler dependencies. Panels that are not feature-scoped
// (feature counts, Baseline counts) keep long-lived controllers so a newer
// dashboard load supersedes an older one still in flight.
type API struct {
	client   *backend.Client
	layout   config.PanelLayout
	hub      *realtime.Hub
	loginURL string

	featureCounts *panel.Controller
	baseline      *panel.Controller
}

// NewAPI wires the handler set.
func NewAPI(client *backend.Client, layout config.PanelLayout, hub *realtime.Hub, loginURL string) *API {
	a := &API{
		client:   client,
		layout:   layout,
		hub:      hub,
		loginURL: loginURL,
	}
	a.featureCounts = panel.New(a.featureCountsConfig(), a.panelNotifier("feature-counts", ""))
	a.baseline = panel.New(a.baselineConfig(), a.panelNotifier("baseline", ""))
	return a
}

// panelNotifier broadcasts a refresh event whenever a panel load completes.
func (a *API) panelNotifier(panelID, featureID string) func(panel.Snapshot) {
	if a.hub == nil {
		return nil
	}
	return func(snap panel.Snapshot) {
		if snap.Status != panel.StatusComplete {
			return
		}
		a.hub.BroadcastEvent(realtime.Event{
			Kind:      realtime.EventStatsRefreshed,
			PanelID:   panelID,
			FeatureID: featureID,
		})
	}
}
