package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	configfile "github.com/ftransport/ftransport/internal/adapters/driven/config/file"
)

func setupConfigTest(t *testing.T) func() {
	t.Helper()
	old := configStore
	store, err := configfile.NewConfigStore(t.TempDir())
	require.NoError(t, err)
	configStore = store
	return func() { configStore = old }
}

func TestConfigSetAndGet(t *testing.T) {
	cleanup := setupConfigTest(t)
	defer cleanup()

	out, err := execute(t, "config", "set", "destination.mode", "direct")
	require.NoError(t, err)
	assert.Contains(t, out, "Set destination.mode")

	out, err = execute(t, "config", "get", "destination.mode")
	require.NoError(t, err)
	assert.Contains(t, out, "direct")
}

func TestConfigGetUnsetKey(t *testing.T) {
	cleanup := setupConfigTest(t)
	defer cleanup()

	_, err := execute(t, "config", "get", "destination.mode")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not set")
}

func TestConfigShowMasksTokens(t *testing.T) {
	cleanup := setupConfigTest(t)
	defer cleanup()

	_, err := execute(t, "config", "set", "credentials.google_token", "ya29.secret")
	require.NoError(t, err)
	_, err = execute(t, "config", "set", "destination.mode", "staged")
	require.NoError(t, err)

	out, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "********")
	assert.NotContains(t, out, "ya29.secret")
	assert.Contains(t, out, "staged")
}

func TestConfigPath(t *testing.T) {
	cleanup := setupConfigTest(t)
	defer cleanup()

	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "config.toml")
}

func TestConfigNotConfigured(t *testing.T) {
	old := configStore
	configStore = nil
	defer func() { configStore = old }()

	_, err := execute(t, "config", "get", "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
