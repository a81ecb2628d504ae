package handlers

import (
	"github.com/gofiber/fiber/v3"

	"github.com/GoogleChrome/webstatus-dashboard/internal/middleware"
)

// Register mounts the dashboard API routes.
func (a *API) Register(app *fiber.App) {
	app.Get("/api/features", a.HandleFeatureList)
	app.Get("/api/features/:feature_id", a.HandleFeature)

	app.Get("/api/charts/usage/:feature_id", a.HandleUsageChart)
	app.Get("/api/charts/wpt/:feature_id", a.HandleWPTChart)
	app.Get("/api/charts/feature-counts", a.HandleFeatureCountsChart)
	app.Get("/api/charts/baseline", a.HandleBaselineChart)

	auth := middleware.RequireAuth(a.loginURL)
	app.Get("/api/users/me/saved-searches", a.HandleListSavedSearches, auth)
	app.Post("/api/users/me/saved-searches", a.HandleCreateSavedSearch, auth)
	app.Delete("/api/users/me/saved-searches/:search_id", a.HandleDeleteSavedSearch, auth)
	app.Put("/api/users/me/saved-searches/:search_id/bookmark", a.HandleSubscribe, auth)
	app.Delete("/api/users/me/saved-searches/:search_id/bookmark", a.HandleUnsubscribe, auth)
	app.Get("/api/users/me/notification-channels", a.HandleListNotificationChannels, auth)
	app.Put("/api/users/me/notification-channels/:channel_id", a.HandleUpdateNotificationChannel, auth)
}
