package cli

import (
	"strings"

	fiberzap "github.com/gofiber/contrib/v3/zap"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	recoverMW "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/GoogleChrome/webstatus-dashboard/internal/backend"
	"github.com/GoogleChrome/webstatus-dashboard/internal/config"
	"github.com/GoogleChrome/webstatus-dashboard/internal/handlers"
	"github.com/GoogleChrome/webstatus-dashboard/internal/logging"
	"github.com/GoogleChrome/webstatus-dashboard/internal/realtime"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	Long: `Start the webstatus dashboard server.

The serve command starts the web server that aggregates feature status
data from the upstream webstatus API and serves the dashboard.

Environment variables:
  BACKEND_URL  Upstream webstatus API base URL (default: https://api.webstatus.dev)
  PORT         Server port (default: 3000)
  LOGIN_URL    Sign-in URL surfaced to unauthenticated clients (default: /login)
  API_TOKEN    Default bearer token for upstream requests (optional)

Example:
  BACKEND_URL="https://api.webstatus.dev" webstatus serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		backendURL, _ := cmd.Flags().GetString("backend-url")
		port, _ := cmd.Flags().GetString("port")
		return serveDashboardWith(DashboardTemplate, backendURL, port)
	},
}

// serveDashboard runs the dashboard server until the listener fails.
func serveDashboard(dashboardTemplate []byte) error {
	return serveDashboardWith(dashboardTemplate, "", "")
}

func serveDashboardWith(dashboardTemplate []byte, backendURL, port string) error {
	cfg, err := config.LoadWithOverrides(backendURL, port)
	if err != nil {
		return err
	}

	var clientOpts []backend.Option
	if cfg.APIToken != "" {
		clientOpts = append(clientOpts, backend.WithToken(cfg.APIToken))
	}
	client := backend.NewClient(cfg.BackendURL, clientOpts...)

	app, err := newServerApp(client, cfg, dashboardTemplate)
	if err != nil {
		return err
	}

	logging.L().Info("webstatus dashboard starting",
		"port", cfg.Port,
		"backend", cfg.BackendURL,
	)
	return app.Listen(":" + cfg.Port)
}

// newServerApp assembles the Fiber app: middleware, static pages, the
// dashboard API, and the realtime event socket.
func newServerApp(client *backend.Client, cfg *config.Config, dashboardTemplate []byte) (*fiber.App, error) {
	layout, err := config.DefaultPanelLayout()
	if err != nil {
		return nil, err
	}

	hub := realtime.NewHub()
	api := handlers.NewAPI(client, layout, hub, cfg.LoginURL)

	app := fiber.New(createFiberConfig("Webstatus Dashboard"))

	// Middleware
	app.Use(recoverMW.New())
	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logging.Zap(),
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	// Add version header to all responses
	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Webstatus-Version", Version)
		return c.Next()
	})

	app.Get("/health", handleHealth)
	app.Get("/up", handleUp(client))
	app.Get("/api/version", handleVersion)

	// Dashboard UI shell
	app.Get("/", func(c fiber.Ctx) error {
		c.Set("Content-Type", "text/html; charset=utf-8")
		html := strings.ReplaceAll(string(dashboardTemplate), "{{.Title}}", "Webstatus Dashboard")
		html = strings.ReplaceAll(html, "{{.Version}}", Version)
		return c.SendString(html)
	})

	// Realtime panel refresh events
	app.Get("/ws", hub.Handler())

	api.Register(app)

	return app, nil
}

func handleHealth(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "webstatus-dashboard",
	})
}

// handleUp is the container health check. It verifies the upstream API is
// reachable, since every dashboard page is useless without it.
func handleUp(client *backend.Client) fiber.Handler {
	return func(c fiber.Ctx) error {
		if err := client.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString("backend unavailable")
		}
		return c.SendStatus(fiber.StatusOK)
	}
}

func handleVersion(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": Version,
	})
}

func init() {
	serveCmd.Flags().String("backend-url", "", "Upstream webstatus API base URL (overrides config and env)")
	serveCmd.Flags().String("port", "", "Server port (overrides config and env)")
}
