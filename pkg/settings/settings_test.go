package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Empty path", func(t *testing.T) {
		s, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, &Settings{}, s)
	})

	t.Run("Missing file", func(t *testing.T) {
		s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Empty(t, s.OverrideAPIURL)
	})

	t.Run("Reads values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		content := "override_api_url: http://localhost:9000\nliquidity_hub_disabled: true\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		s, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9000", s.OverrideAPIURL)
		assert.True(t, s.LiquidityHubDisabled)
	})

	t.Run("Malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		require.NoError(t, os.WriteFile(path, []byte("override_api_url: [unterminated"), 0o600))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("Save round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		require.NoError(t, (&Settings{OverrideAPIURL: "http://hub.local"}).Save(path))

		s, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "http://hub.local", s.OverrideAPIURL)
		assert.False(t, s.LiquidityHubDisabled)
	})
}
