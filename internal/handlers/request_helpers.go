package handlers

import (
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/GoogleChrome/webstatus-dashboard/internal/backend"
	"github.com/GoogleChrome/webstatus-dashboard/internal/panel"
)

const defaultRangeDays = 30

// dateRange parses the startDate/endDate query parameters. The default
// window is the last 30 days ending today (UTC).
func dateRange(c fiber.Ctx) (panel.DateRange, error) {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	r := panel.DateRange{
		Start: now.AddDate(0, 0, -defaultRangeDays),
		End:   now,
	}

	if raw := c.Query("startDate"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return panel.DateRange{}, errors.New("invalid startDate, expected YYYY-MM-DD")
		}
		r.Start = parsed
	}
	if raw := c.Query("endDate"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return panel.DateRange{}, errors.New("invalid endDate, expected YYYY-MM-DD")
		}
		r.End = parsed
	}
	if r.Start.After(r.End) {
		return panel.DateRange{}, errors.New("startDate must not be after endDate")
	}
	return r, nil
}

// requestURL reconstructs the request URL for pagination link building.
func requestURL(c fiber.Ctx) (*url.URL, error) {
	return url.Parse(c.OriginalURL())
}

// respondBackendError maps an upstream client error onto the response.
// Authentication failures redirect to sign-in with a toast rather than
// rendering a hard error; everything else is a local inline error.
func (a *API) respondBackendError(c fiber.Ctx, err error) error {
	if errors.Is(err, backend.ErrUnauthorized) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":     "Sign-in required",
			"login_url": a.loginURL,
			"toast":     "Your session has expired. Please sign in again.",
		})
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case fiber.StatusNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Not found",
			})
		case fiber.StatusBadRequest:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": apiErr.Message,
			})
		}
	}

	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"error": "Upstream request failed",
	})
}
