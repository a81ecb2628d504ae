package cli

import (
	"github.com/spf13/cobra"
)

var Version string

// DashboardTemplate is the embedded dashboard shell passed from main.
var DashboardTemplate []byte

// RootCmd represents the root command
var RootCmd = &cobra.Command{
	Use:   "webstatus",
	Short: "Web platform feature status dashboard",
	Long: `Webstatus dashboard server.

Serves the web feature status dashboard: feature search, per-feature
usage and WPT pass-rate charts, Baseline adoption stats, saved searches
and notification subscriptions. All data comes from the webstatus API;
this server aggregates and shapes it for the dashboard UI.`,
	Version: Version,
	// Default to serve command if no subcommand provided
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return serveDashboard(DashboardTemplate)
		}
		return cmd.Help()
	},
}

// Execute is called by main
func Execute(version string, dashboardTemplate []byte) error {
	Version = version
	DashboardTemplate = dashboardTemplate

	RootCmd.Version = version

	return RootCmd.Execute()
}

func init() {
	RootCmd.AddCommand(serveCmd)
	setupSelfUpgrade()
}
