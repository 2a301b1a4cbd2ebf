package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrezinsky/eurovote/internal/config"
	apperrors "github.com/abrezinsky/eurovote/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	v, err := config.New("")
	require.NoError(t, err)

	cfg, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, ":8081", cfg.Addr())
	assert.Equal(t, "eurovote.db", cfg.Storage.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "full", cfg.Scoring.Profile)
	assert.Empty(t, cfg.Admin.Password)
	assert.Empty(t, cfg.Feed.URL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("EUROVOTE_SERVER_PORT", "9090")
	t.Setenv("EUROVOTE_LOG_FORMAT", "JSON")
	t.Setenv("EUROVOTE_SCORING_PROFILE", "classic")
	t.Setenv("EUROVOTE_SERVER_BASE_URL", "https://vote.example.com/")

	v, err := config.New("")
	require.NoError(t, err)

	cfg, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "classic", cfg.Scoring.Profile)
	assert.Equal(t, "https://vote.example.com", cfg.Server.BaseURL)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eurovote.yaml")
	data := []byte(`
server:
  port: 7000
storage:
  path: /data/contest.db
admin:
  password: douze-points
feed:
  url: https://results.example.com/final.json
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	v, err := config.New(path)
	require.NoError(t, err)

	cfg, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "/data/contest.db", cfg.Storage.Path)
	assert.Equal(t, "douze-points", cfg.Admin.Password)
	assert.Equal(t, "https://results.example.com/final.json", cfg.Feed.URL)
}

func TestNew_MissingConfigFile(t *testing.T) {
	_, err := config.New(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
		want  string
	}{
		{"port too low", "server.port", 0, "server.port"},
		{"port too high", "server.port", 70000, "server.port"},
		{"empty storage", "storage.path", "", "storage.path"},
		{"bad level", "log.level", "verbose", "log.level"},
		{"bad format", "log.format", "xml", "log.format"},
		{"unknown profile", "scoring.profile", "jury-only", "scoring.profile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			config.SetDefaults(v)
			v.Set(tt.key, tt.value)

			_, err := config.Load(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
		})
	}
}
