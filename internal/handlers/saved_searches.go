package handlers

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/GoogleChrome/webstatus-dashboard/internal/backend"
	"github.com/GoogleChrome/webstatus-dashboard/internal/middleware"
	"github.com/GoogleChrome/webstatus-dashboard/internal/realtime"
)

// HandleListSavedSearches returns the signed-in user's saved searches.
func (a *API) HandleListSavedSearches(c fiber.Ctx) error {
	searches, err := a.client.ListSavedSearches(c.Context(), middleware.Token(c))
	if err != nil {
		return a.respondBackendError(c, err)
	}
	return c.JSON(searches)
}

// HandleCreateSavedSearch creates a saved search for the signed-in user.
func (a *API) HandleCreateSavedSearch(c fiber.Ctx) error {
	var req CreateSavedSearchRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Query = strings.TrimSpace(req.Query)
	if req.Name == "" || req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and query are required",
		})
	}

	search, err := a.client.CreateSavedSearch(c.Context(), middleware.Token(c), backend.CreateSavedSearchRequest{
		Name:        req.Name,
		Query:       req.Query,
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		return a.respondBackendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(search)
}

// HandleDeleteSavedSearch deletes one of the signed-in user's saved searches.
func (a *API) HandleDeleteSavedSearch(c fiber.Ctx) error {
	searchID, err := uuid.Parse(c.Params("search_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid saved search ID",
		})
	}

	if err := a.client.DeleteSavedSearch(c.Context(), middleware.Token(c), searchID.String()); err != nil {
		return a.respondBackendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSubscribe bookmarks a saved search for the signed-in user and
// notifies open dashboards.
func (a *API) HandleSubscribe(c fiber.Ctx) error {
	searchID, err := uuid.Parse(c.Params("search_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid saved search ID",
		})
	}

	if err := a.client.PutBookmark(c.Context(), middleware.Token(c), searchID.String()); err != nil {
		return a.respondBackendError(c, err)
	}

	a.broadcastSubscriptionChanged(searchID.String())
	return c.SendStatus(fiber.StatusOK)
}

// HandleUnsubscribe removes a saved-search bookmark for the signed-in user.
func (a *API) HandleUnsubscribe(c fiber.Ctx) error {
	searchID, err := uuid.Parse(c.Params("search_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid saved search ID",
		})
	}

	if err := a.client.RemoveBookmark(c.Context(), middleware.Token(c), searchID.String()); err != nil {
		return a.respondBackendError(c, err)
	}

	a.broadcastSubscriptionChanged(searchID.String())
	return c.SendStatus(fiber.StatusNoContent)
}

func (a *API) broadcastSubscriptionChanged(searchID string) {
	if a.hub == nil {
		return
	}
	a.hub.BroadcastEvent(realtime.Event{
		Kind:          realtime.EventSubscriptionChanged,
		SavedSearchID: searchID,
	})
}
