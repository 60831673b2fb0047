package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ingyamilmolinar/rhythmgrid/core/beat"
	game_log "github.com/ingyamilmolinar/rhythmgrid/internal/log"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 60, cfg.BPM)
	assert.Equal(t, beat.Drum, cfg.SoundMode)
	assert.Equal(t, "A2", cfg.Pitch)
	assert.Equal(t, 1.0, cfg.Volume)
	assert.Equal(t, game_log.LevelInfo, cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.Addr)
}

func TestFromEnvOverridesAndClamps(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		EnvBPM:      "500",
		EnvSound:    "Pitch",
		EnvPitch:    "C#4",
		EnvVolume:   "-0.5",
		EnvLogLevel: "debug",
		EnvAddr:     "127.0.0.1:9000",
	}))
	require.NoError(t, err)
	assert.Equal(t, beat.MaxBPM, cfg.BPM)
	assert.Equal(t, beat.Pitch, cfg.SoundMode)
	assert.Equal(t, "C#4", cfg.Pitch)
	assert.Equal(t, 0.0, cfg.Volume)
	assert.Equal(t, game_log.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
}

func TestFromEnvReportsBadValues(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		EnvBPM:    "fast",
		EnvSound:  "kazoo",
		EnvVolume: "0.3",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvBPM)
	assert.Contains(t, err.Error(), "kazoo")
	assert.Equal(t, beat.DefaultBPM, cfg.BPM)
	assert.Equal(t, 0.3, cfg.Volume)
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(EnvBPM+"=120\n"), 0o644))
	t.Setenv(EnvBPM, "")
	os.Unsetenv(EnvBPM)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.BPM)
}

func TestLoadWithoutEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestOptions(t *testing.T) {
	cfg := Config{BPM: 90, SoundMode: beat.Pitch, Pitch: "E3", Volume: 0.5}.Normalize()
	opts := cfg.Options()
	assert.Equal(t, 90, opts.BPM)
	assert.Equal(t, beat.Pitch, opts.Mode)
	assert.Equal(t, "E3", opts.Pitch)
	assert.Equal(t, 0.5, opts.Volume)
}
