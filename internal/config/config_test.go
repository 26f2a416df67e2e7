package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, cfg map[string]interface{}) string {
	t.Helper()
	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, map[string]interface{}{})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "./data/watchlists", cfg.Watchlist.DataDir)
	assert.Equal(t, 85, cfg.Watchlist.SimilarityThreshold)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, map[string]interface{}{
		"server": map[string]interface{}{"addr": ":9090"},
		"watchlist": map[string]interface{}{
			"data_dir":             "/var/lib/riskscreen",
			"similarity_threshold": 90,
		},
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "/var/lib/riskscreen", cfg.Watchlist.DataDir)
	assert.Equal(t, 90, cfg.Watchlist.SimilarityThreshold)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("RISKSCREEN_LOG_LEVEL", "debug")
	path := writeConfig(t, map[string]interface{}{})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ThresholdOutOfRange(t *testing.T) {
	path := writeConfig(t, map[string]interface{}{
		"watchlist": map[string]interface{}{"similarity_threshold": 0},
	})

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
