package handlers

import (
	"context"
	"regexp"
	"slices"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/GoogleChrome/webstatus-dashboard/internal/backend"
	"github.com/GoogleChrome/webstatus-dashboard/internal/chartdata"
	"github.com/GoogleChrome/webstatus-dashboard/internal/panel"
)

var featureIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

func validFeatureID(id string) bool {
	return len(id) <= 128 && featureIDPattern.MatchString(id)
}

// HandleUsageChart returns the Chromium daily usage chart for one feature.
func (a *API) HandleUsageChart(c fiber.Ctx) error {
	featureID := c.Params("feature_id")
	if !validFeatureID(featureID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid feature ID",
		})
	}
	r, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctrl := panel.New(a.usageConfig(featureID), a.panelNotifier("usage", featureID))
	snap := ctrl.Load(c.Context(), panel.LoadRequest{Range: r})
	if snap.Status == panel.StatusError {
		return a.respondBackendError(c, snap.Err)
	}

	info, _ := a.layout.Panel("usage")
	return c.JSON(chartResponse(info, "", snap))
}

// HandleWPTChart returns per-browser WPT pass counts for one feature. The
// channel query parameter selects the stable or experimental tab.
func (a *API) HandleWPTChart(c fiber.Ctx) error {
	featureID := c.Params("feature_id")
	if !validFeatureID(featureID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid feature ID",
		})
	}
	r, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	channel := c.Query("channel", a.layout.WPTChannels[0])
	if !slices.Contains(a.layout.WPTChannels, channel) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown WPT channel",
		})
	}

	configs := make([]panel.Config, 0, len(a.layout.WPTChannels))
	for _, ch := range a.layout.WPTChannels {
		configs = append(configs, a.wptConfig(featureID, ch))
	}
	tabbed := panel.NewTabbed(configs, nil)
	tabbed.Select(channel)

	snap := tabbed.Load(c.Context(), panel.LoadRequest{Range: r})
	if snap.Status == panel.StatusError {
		return a.respondBackendError(c, snap.Err)
	}

	info, _ := a.layout.Panel("wpt")
	return c.JSON(chartResponse(info, channel, snap))
}

// HandleFeatureCountsChart returns the global supported-feature counts per
// browser over time.
func (a *API) HandleFeatureCountsChart(c fiber.Ctx) error {
	r, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	snap := a.featureCounts.Load(c.Context(), panel.LoadRequest{Range: r})
	if snap.Status == panel.StatusError {
		return a.respondBackendError(c, snap.Err)
	}

	info, _ := a.layout.Panel("feature-counts")
	return c.JSON(chartResponse(info, "", snap))
}

// HandleBaselineChart returns the cumulative count of features reaching
// Baseline over time.
func (a *API) HandleBaselineChart(c fiber.Ctx) error {
	r, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	snap := a.baseline.Load(c.Context(), panel.LoadRequest{Range: r})
	if snap.Status == panel.StatusError {
		return a.respondBackendError(c, snap.Err)
	}

	info, _ := a.layout.Panel("baseline")
	return c.JSON(chartResponse(info, "", snap))
}

func (a *API) usageConfig(featureID string) panel.Config {
	info, _ := a.layout.Panel("usage")
	return panel.Config{
		ID:          info.ID,
		Description: info.Description,
		Options:     panel.ChartOptions{YAxisTitle: info.YAxisTitle},
		Sources: func(req panel.LoadRequest) ([]chartdata.SeriesSource, []chartdata.Option) {
			src := chartdata.Source("chromium",
				func(ctx context.Context, token *string) (chartdata.Page[backend.ChromiumDailyStat], error) {
					page, err := a.client.ListChromiumDailyUsageStats(ctx, featureID, req.Range.Start, req.Range.End, token)
					if err != nil {
						return chartdata.Page[backend.ChromiumDailyStat]{}, err
					}
					return chartdata.Page[backend.ChromiumDailyStat]{
						Data:          page.Data,
						NextPageToken: page.Metadata.NextPageToken,
					}, nil
				},
				func(s backend.ChromiumDailyStat) time.Time { return s.Timestamp },
				// upstream reports a fraction of page loads
				func(s backend.ChromiumDailyStat) float64 { return s.Usage * 100 },
			)
			return []chartdata.SeriesSource{src}, nil
		},
	}
}

func (a *API) wptConfig(featureID, channel string) panel.Config {
	info, _ := a.layout.Panel("wpt")
	return panel.Config{
		ID:          channel,
		Description: info.Description,
		Options:     panel.ChartOptions{YAxisTitle: info.YAxisTitle},
		Sources: func(req panel.LoadRequest) ([]chartdata.SeriesSource, []chartdata.Option) {
			sources := make([]chartdata.SeriesSource, 0, len(a.layout.Browsers))
			for _, browser := range a.layout.Browsers {
				sources = append(sources, chartdata.Source(browser,
					func(ctx context.Context, token *string) (chartdata.Page[backend.WPTRunMetric], error) {
						page, err := a.client.ListWPTMetrics(ctx, featureID, browser, channel, req.Range.Start, req.Range.End, token)
						if err != nil {
							return chartdata.Page[backend.WPTRunMetric]{}, err
						}
						return chartdata.Page[backend.WPTRunMetric]{
							Data:          page.Data,
							NextPageToken: page.Metadata.NextPageToken,
						}, nil
					},
					func(m backend.WPTRunMetric) time.Time { return m.RunTimestamp },
					func(m backend.WPTRunMetric) float64 { return float64(m.TestPassCount) },
				))
			}
			opts := []chartdata.Option{
				chartdata.WithDerived(chartdata.Derived{Label: "Total", Reduce: chartdata.Max}),
			}
			return sources, opts
		},
	}
}

func (a *API) featureCountsConfig() panel.Config {
	info, _ := a.layout.Panel("feature-counts")
	return panel.Config{
		ID:          info.ID,
		Description: info.Description,
		Options:     panel.ChartOptions{YAxisTitle: info.YAxisTitle},
		Sources: func(req panel.LoadRequest) ([]chartdata.SeriesSource, []chartdata.Option) {
			sources := make([]chartdata.SeriesSource, 0, len(a.layout.Browsers))
			for _, browser := range a.layout.Browsers {
				sources = append(sources, chartdata.Source(browser,
					func(ctx context.Context, token *string) (chartdata.Page[backend.CountPoint], error) {
						page, err := a.client.ListFeatureCounts(ctx, browser, req.Range.Start, req.Range.End, token)
						if err != nil {
							return chartdata.Page[backend.CountPoint]{}, err
						}
						return chartdata.Page[backend.CountPoint]{
							Data:          page.Data,
							NextPageToken: page.Metadata.NextPageToken,
						}, nil
					},
					func(p backend.CountPoint) time.Time { return p.Timestamp },
					func(p backend.CountPoint) float64 { return float64(p.Count) },
				))
			}
			return sources, nil
		},
	}
}

func (a *API) baselineConfig() panel.Config {
	info, _ := a.layout.Panel("baseline")
	return panel.Config{
		ID:          info.ID,
		Description: info.Description,
		Options:     panel.ChartOptions{YAxisTitle: info.YAxisTitle},
		Sources: func(req panel.LoadRequest) ([]chartdata.SeriesSource, []chartdata.Option) {
			src := chartdata.Source("newly",
				func(ctx context.Context, token *string) (chartdata.Page[backend.CountPoint], error) {
					page, err := a.client.ListBaselineStatusCounts(ctx, req.Range.Start, req.Range.End, token)
					if err != nil {
						return chartdata.Page[backend.CountPoint]{}, err
					}
					return chartdata.Page[backend.CountPoint]{
						Data:          page.Data,
						NextPageToken: page.Metadata.NextPageToken,
					}, nil
				},
				func(p backend.CountPoint) time.Time { return p.Timestamp },
				func(p backend.CountPoint) float64 { return float64(p.Count) },
			)
			return []chartdata.SeriesSource{src}, nil
		},
	}
}
