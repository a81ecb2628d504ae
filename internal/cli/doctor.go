package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/GoogleChrome/webstatus-dashboard/internal/backend"
	"github.com/GoogleChrome/webstatus-dashboard/internal/config"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks on the dashboard installation",
	Long: `Run health checks on the dashboard installation.

Checks performed:
  - Configuration loads
  - Panel layout parses
  - Upstream API reachable
  - API token accepted (when configured)

Example:
  webstatus doctor
  webstatus doctor --json`,
	RunE: runDoctor,
}

type CheckResult struct {
	Name       string `json:"name"`
	Pass       bool   `json:"pass"`
	Error      string `json:"error,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	Details    string `json:"details,omitempty"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	results := runDoctorChecks(cmd.Context())

	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(results)
	}

	failed := 0
	for _, result := range results {
		mark := "✓"
		if !result.Pass {
			mark = "✗"
			failed++
		}
		fmt.Printf("%s %s\n", mark, result.Name)
		if result.Details != "" {
			fmt.Printf("    %s\n", result.Details)
		}
		if result.Error != "" {
			fmt.Printf("    error: %s\n", result.Error)
		}
		if result.Suggestion != "" {
			fmt.Printf("    hint: %s\n", result.Suggestion)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	fmt.Println("\nAll checks passed")
	return nil
}

func runDoctorChecks(ctx context.Context) []CheckResult {
	var results []CheckResult

	cfg, err := config.Load()
	if err != nil {
		results = append(results, CheckResult{
			Name:  "Configuration loads",
			Error: err.Error(),
		})
		return results
	}
	results = append(results, CheckResult{
		Name:    "Configuration loads",
		Pass:    true,
		Details: "backend: " + cfg.BackendURL,
	})

	if _, err := config.DefaultPanelLayout(); err != nil {
		results = append(results, CheckResult{
			Name:  "Panel layout parses",
			Error: err.Error(),
		})
	} else {
		results = append(results, CheckResult{Name: "Panel layout parses", Pass: true})
	}

	client := backend.NewClient(cfg.BackendURL)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		results = append(results, CheckResult{
			Name:       "Upstream API reachable",
			Error:      err.Error(),
			Suggestion: "check BACKEND_URL or the backend_url config entry",
		})
	} else {
		results = append(results, CheckResult{Name: "Upstream API reachable", Pass: true})
	}

	if cfg.APIToken == "" {
		results = append(results, CheckResult{
			Name:    "API token accepted",
			Pass:    true,
			Details: "no token configured, skipping",
		})
		return results
	}

	tokenCtx, cancelToken := context.WithTimeout(ctx, 5*time.Second)
	defer cancelToken()
	if _, err := backend.NewClient(cfg.BackendURL, backend.WithToken(cfg.APIToken)).ListSavedSearches(tokenCtx, ""); err != nil {
		results = append(results, CheckResult{
			Name:       "API token accepted",
			Error:      err.Error(),
			Suggestion: "run 'webstatus login' to store a fresh token",
		})
	} else {
		results = append(results, CheckResult{Name: "API token accepted", Pass: true})
	}

	return results
}

func init() {
	doctorCmd.Flags().Bool("json", false, "Output results as JSON")
	RootCmd.AddCommand(doctorCmd)
}
