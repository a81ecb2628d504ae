package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Port       string
	BackendURL string
	LoginURL   string
	APIToken   string
}

// Load loads configuration from multiple sources with priority:
// 1. Command flags (set via viper.Set)
// 2. Config file (XDG config dir webstatus/webstatus.toml or ./webstatus.toml)
// 3. Environment variables
func Load() (*Config, error) {
	v := newBaseViper()
	_ = v.ReadInConfig()
	return buildConfig(v, "", ""), nil
}

// LoadWithOverrides loads config and applies flag overrides
func LoadWithOverrides(backendURL, port string) (*Config, error) {
	v := newBaseViper()
	_ = v.ReadInConfig()
	return buildConfig(v, backendURL, port), nil
}

// ConfigFilePath returns the preferred location for writing configuration.
func ConfigFilePath() string {
	if dir := configHomeDir(); dir != "" {
		return filepath.Join(dir, "webstatus", "webstatus.toml")
	}
	return "./webstatus.toml"
}

func configHomeDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			configHome = filepath.Join(home, ".config")
		}
	}
	return configHome
}

func newBaseViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("webstatus")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	// Use XDG Base Directory specification
	// Manual implementation to support testing (xdg library caches at init)
	if configHome := configHomeDir(); configHome != "" {
		v.AddConfigPath(filepath.Join(configHome, "webstatus"))
	}

	return v
}

func buildConfig(v *viper.Viper, overrideBackendURL, overridePort string) *Config {
	cfg := &Config{
		Port:       "3000",
		BackendURL: "https://api.webstatus.dev",
		LoginURL:   "/login",
	}

	// Apply config file values
	if v.IsSet("port") {
		cfg.Port = v.GetString("port")
	}
	if v.IsSet("backend_url") {
		cfg.BackendURL = v.GetString("backend_url")
	}
	if v.IsSet("login_url") {
		cfg.LoginURL = v.GetString("login_url")
	}
	if v.IsSet("api_token") {
		cfg.APIToken = v.GetString("api_token")
	}

	// Environment fallback (only if not configured)
	if !v.IsSet("port") {
		if envPort := os.Getenv("PORT"); envPort != "" {
			cfg.Port = envPort
		}
	}
	if !v.IsSet("backend_url") {
		if envBackend := os.Getenv("BACKEND_URL"); envBackend != "" {
			cfg.BackendURL = envBackend
		}
	}
	if !v.IsSet("login_url") {
		if envLogin := os.Getenv("LOGIN_URL"); envLogin != "" {
			cfg.LoginURL = envLogin
		}
	}
	if cfg.APIToken == "" {
		cfg.APIToken = os.Getenv("API_TOKEN")
	}

	// Apply overrides (flags) last
	if overrideBackendURL != "" {
		cfg.BackendURL = overrideBackendURL
	}
	if overridePort != "" {
		cfg.Port = overridePort
	}

	return cfg
}
