package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/paymail/internal/adapters/credentials"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"GMAIL_USER", "GMAIL_APP_PASSWORD", "GMAIL_USER_1", "GMAIL_APP_PASSWORD_1"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	v, err := New(Options{DotenvDir: t.TempDir()})
	require.NoError(t, err)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, 5*time.Second, cfg.SMTP.Timeout)
	assert.Equal(t, 450, cfg.DailyQuota)
	assert.Equal(t, "PSU Accounts Department", cfg.FromDisplay)
	assert.Equal(t, uint32(3), cfg.Breaker.Failures)
	assert.Equal(t, time.Minute, cfg.Breaker.Cooldown)
	assert.Equal(t, filepath.Join(home, ".paymail", "secrets"), cfg.SecretsDir)
	assert.False(t, cfg.IsProduction())
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("PAYMAIL_DISPATCH_DAILY_QUOTA", "20")
	t.Setenv("PAYMAIL_SMTP_TIMEOUT", "2s")
	t.Setenv("PAYMAIL_ENV", "production")

	v, err := New(Options{DotenvDir: t.TempDir()})
	require.NoError(t, err)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.DailyQuota)
	assert.Equal(t, 2*time.Second, cfg.SMTP.Timeout)
	assert.True(t, cfg.IsProduction())
}

func TestDotenvLocalWinsOverDotenv(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("GMAIL_USER_1=local@psu.in\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GMAIL_USER_1=base@psu.in\nGMAIL_APP_PASSWORD_1=abcd efgh ijkl mnop\n"), 0o600))

	v, err := New(Options{DotenvDir: dir})
	require.NoError(t, err)

	assert.Equal(t, "local@psu.in", v.GetString(credentials.KeyIndexedUser))
	assert.Equal(t, "abcd efgh ijkl mnop", v.GetString(credentials.KeyIndexedAppPassword))
}

func TestConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "paymail.toml")
	require.NoError(t, os.WriteFile(path, []byte("[http]\naddr = \"127.0.0.1:9090\"\n\n[breaker]\nfailures = 5\n"), 0o600))

	v, err := New(Options{ConfigFile: path, DotenvDir: t.TempDir()})
	require.NoError(t, err)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTPAddr)
	assert.Equal(t, uint32(5), cfg.Breaker.Failures)
}

func TestLoadRejectsInvalidRanges(t *testing.T) {
	isolate(t)
	t.Setenv("PAYMAIL_DISPATCH_DAILY_QUOTA", "0")
	t.Setenv("PAYMAIL_SMTP_TIMEOUT", "0s")
	t.Setenv("PAYMAIL_BREAKER_FAILURES", "-1")

	v, err := New(Options{DotenvDir: t.TempDir()})
	require.NoError(t, err)

	_, err = Load(v)
	require.Error(t, err)
	assert.ErrorContains(t, err, "dispatch.daily_quota must be positive")
	assert.ErrorContains(t, err, "smtp.timeout must be positive")
	assert.ErrorContains(t, err, "breaker.failures must be positive")
}
