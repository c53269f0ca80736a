package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"MODE", "HTTP_ADDR", "TARGET_CHARS", "SESSION_TTL", "BANK_SOURCE", "SERVE_UI", "REPORT_TITLE"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	assert.Equal(t, ModeOffline, cfg.Mode)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 499, cfg.TargetChars)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, BankSourceBuiltin, cfg.BankSource)
	assert.Equal(t, "English Report Comments", cfg.ReportTitle)
	assert.True(t, cfg.ServeUI)
	assert.Equal(t, cfg.CORSOriginsOffline, cfg.CORSOrigins())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("TARGET_CHARS", "350")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("CORS_ORIGINS_ONLINE", " https://a.example , ,https://b.example")
	t.Setenv("SERVE_UI", "no")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := FromEnv()
	assert.Equal(t, 350, cfg.TargetChars)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins())
	assert.False(t, cfg.ServeUI)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("TARGET_CHARS", "-4")
	t.Setenv("SESSION_TTL", "soon")
	cfg := FromEnv()
	assert.Equal(t, 499, cfg.TargetChars)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(f, []byte("BANK_DIR=/srv/banks\nHTTP_ADDR=:9999\n"), 0o644))
	t.Setenv("HTTP_ADDR", ":7000")
	t.Setenv("BANK_DIR", "")
	os.Unsetenv("BANK_DIR")

	cfg, err := Load(f)
	require.NoError(t, err)
	assert.Equal(t, "/srv/banks", cfg.BankDir)
	assert.Equal(t, ":7000", cfg.HTTPAddr)
}

func TestLoadSkipsMissingFile(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoadRejectsMalformedDotEnv(t *testing.T) {
	f := filepath.Join(t.TempDir(), "bad.env")
	require.NoError(t, os.WriteFile(f, []byte("BAD-KEY=1\n"), 0o644))

	_, err := Load(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.env")
}
