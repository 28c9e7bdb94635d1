package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 0.4, cfg.Adaptive.WeakThreshold)
	assert.Equal(t, 0.75, cfg.Adaptive.StrongThreshold)
	assert.Equal(t, 60*time.Minute, cfg.Auth.TokenTTL)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
addr = ":9999"

[auth]
jwt-secret = "s3cret"
token-ttl-minutes = 15

[adaptive]
weak-threshold = 0.3
strong-threshold = 0.8

[llm]
provider = "openai"
model = "gpt-4o-mini"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 0.3, cfg.Adaptive.WeakThreshold)
	assert.Equal(t, 0.8, cfg.Adaptive.StrongThreshold)
	assert.Equal(t, "openai", cfg.LLM.Provider)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\naddr = \":9999\"\n"), 0o644))

	t.Setenv("PASTQ_ADDR", ":7777")
	t.Setenv("PASTQ_WEAK_THRESHOLD", "0.25")
	t.Setenv("PASTQ_JWT_SECRET", "env-secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.Addr)
	assert.Equal(t, 0.25, cfg.Adaptive.WeakThreshold)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
}

func TestLoadRejectsInvertedThresholds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[adaptive]
weak-threshold = 0.9
strong-threshold = 0.2
`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not toml ["), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
