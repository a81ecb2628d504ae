package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoogleChrome/webstatus-dashboard/internal/config"
)

func isolateConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("API_TOKEN", "")
	return dir
}

func TestWriteTokenCreatesConfigFile(t *testing.T) {
	isolateConfigDir(t)

	path, err := writeToken("secret-token")
	require.NoError(t, err)
	assert.Equal(t, config.ConfigFilePath(), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "secret-token")
}

func TestWriteTokenPreservesOtherSettings(t *testing.T) {
	dir := isolateConfigDir(t)

	configDir := filepath.Join(dir, "webstatus")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	existing := "port = \"8080\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "webstatus.toml"), []byte(existing), 0o600))

	path, err := writeToken("secret-token")
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "8080")
	assert.Contains(t, string(content), "secret-token")
}

func TestLogoutClearsToken(t *testing.T) {
	isolateConfigDir(t)

	path, err := writeToken("secret-token")
	require.NoError(t, err)

	_, err = writeToken("")
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(content), "secret-token"))
}
