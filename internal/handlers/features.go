package handlers

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/GoogleChrome/webstatus-dashboard/internal/backend"
	"github.com/GoogleChrome/webstatus-dashboard/internal/pagination"
)

// HandleFeatureList proxies the paginated feature search and decorates the
// result with a rendered page strip. All non-pagination query state (search
// query, sort, baseline filter) is preserved in every generated link.
func (a *API) HandleFeatureList(c fiber.Ctx) error {
	u, err := requestURL(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request URL"})
	}

	query := c.Query("q")
	if level := c.Query("baseline"); level != "" {
		if !slices.Contains(a.layout.BaselineLevels, level) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown baseline level",
			})
		}
		filter := "baseline_status:" + level
		if query == "" {
			query = filter
		} else {
			query = query + " AND " + filter
		}
	}

	win := pagination.FromURL(u, pagination.TotalUnknown)
	page, err := a.client.ListFeatures(c.Context(), backend.FeatureSearchQuery{
		Query:    strings.TrimSpace(query),
		Sort:     c.Query("sort"),
		Start:    win.Start,
		PageSize: win.PageSize,
	})
	if err != nil {
		return a.respondBackendError(c, err)
	}
	win.TotalCount = page.Metadata.Total

	block := PaginationBlock{
		Total:           win.TotalCount,
		Start:           win.Start,
		PageSize:        win.PageSize,
		PageSizeChoices: win.PageSizeChoices(),
		Pages:           win.Pages(u),
	}
	if prev, ok := win.URLForRelativeOffset(u, -win.PageSize); ok {
		block.Prev = &prev
	}
	if next, ok := win.URLForRelativeOffset(u, win.PageSize); ok {
		block.Next = &next
	}

	return c.JSON(FeatureListResponse{
		Data:       page.Data,
		Pagination: block,
	})
}

// HandleFeature returns one feature's metadata.
func (a *API) HandleFeature(c fiber.Ctx) error {
	featureID := c.Params("feature_id")
	if !validFeatureID(featureID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid feature ID",
		})
	}

	feature, err := a.client.GetFeature(c.Context(), featureID)
	if err != nil {
		return a.respondBackendError(c, err)
	}
	return c.JSON(feature)
}
