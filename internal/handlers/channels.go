package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/GoogleChrome/webstatus-dashboard/internal/backend"
	"github.com/GoogleChrome/webstatus-dashboard/internal/middleware"
)

// HandleListNotificationChannels returns the signed-in user's notification
// channels.
func (a *API) HandleListNotificationChannels(c fiber.Ctx) error {
	channels, err := a.client.ListNotificationChannels(c.Context(), middleware.Token(c))
	if err != nil {
		return a.respondBackendError(c, err)
	}
	return c.JSON(channels)
}

// HandleUpdateNotificationChannel enables or disables one channel.
func (a *API) HandleUpdateNotificationChannel(c fiber.Ctx) error {
	channelID, err := uuid.Parse(c.Params("channel_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid channel ID",
		})
	}

	var req UpdateChannelRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	channel, err := a.client.UpdateNotificationChannel(c.Context(), middleware.Token(c), channelID.String(), backend.UpdateNotificationChannelRequest{
		Enabled: req.Enabled,
	})
	if err != nil {
		return a.respondBackendError(c, err)
	}
	return c.JSON(channel)
}
