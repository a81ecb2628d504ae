package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/GoogleChrome/webstatus-dashboard/internal/config"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an API token for upstream requests",
	Long: `Store a bearer token used for the signed-in endpoints of the
upstream webstatus API (saved searches, notification channels).

The token is read from the terminal without echoing and written to the
config file. Remove it again with:
  webstatus logout

Example:
  webstatus login`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := readToken("API token: ")
		if err != nil {
			return err
		}
		if token == "" {
			return fmt.Errorf("token must not be empty")
		}

		path, err := writeToken(token)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Token saved to %s\n", path)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored API token",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := writeToken("")
		if err != nil {
			return err
		}
		fmt.Printf("✓ Token removed from %s\n", path)
		return nil
	},
}

// writeToken rewrites the config file with the given token, preserving any
// other settings already stored there.
func writeToken(token string) (string, error) {
	path := config.ConfigFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	_ = v.ReadInConfig()

	v.Set("api_token", token)
	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return path, nil
}

// readToken reads a secret from stdin without echoing
func readToken(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func init() {
	RootCmd.AddCommand(loginCmd)
	RootCmd.AddCommand(logoutCmd)
}
