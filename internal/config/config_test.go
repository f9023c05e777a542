package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	conf, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, conf.App.Port)
	require.Equal(t, "web", conf.App.WebDir)
	require.Contains(t, conf.Careers.ListingURL, "script.google.com")
	require.Contains(t, conf.Careers.SubmitURL, "script.google.com")
	require.False(t, conf.Careers.SubmitOpaque)
	require.Equal(t, int64(10<<20), conf.Careers.MaxUploadBytes)
	require.Equal(t, ProviderEmailJS, conf.ContactProvider())
	require.True(t, conf.SmtpTLS())
	require.Equal(t, slog.LevelInfo, conf.LogLevel())

	interval, err := conf.PollInterval()
	require.NoError(t, err)
	require.Equal(t, 10*time.Second, interval)

	timeout, err := conf.PollTimeout()
	require.NoError(t, err)
	require.Zero(t, timeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_PORT", "9090")
	t.Setenv("CAREERS_LISTING_URL", "http://localhost:9999/jobs")
	t.Setenv("CAREERS_POLL_INTERVAL", "2s")
	t.Setenv("CAREERS_POLL_TIMEOUT", "1500ms")
	t.Setenv("CAREERS_SUBMIT_OPAQUE", "true")
	t.Setenv("CONTACT_PROVIDER", "smtp")
	t.Setenv("LOG_LEVEL", "debug")

	conf, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, conf.App.Port)
	require.Equal(t, "http://localhost:9999/jobs", conf.Careers.ListingURL)
	require.True(t, conf.Careers.SubmitOpaque)
	require.Equal(t, ProviderSMTP, conf.ContactProvider())
	require.Equal(t, slog.LevelDebug, conf.LogLevel())

	interval, err := conf.PollInterval()
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, interval)

	timeout, err := conf.PollTimeout()
	require.NoError(t, err)
	require.Equal(t, 1500*time.Millisecond, timeout)
}

func TestLoad_YamlFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  port: 7070\ncareers:\n  pollinterval: 30s\n"), 0o600))

	conf, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 7070, conf.App.Port)

	interval, err := conf.PollInterval()
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, interval)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())
	conf, err := Load()
	require.NoError(t, err)

	bad := *conf
	bad.Careers.PollInterval = "soon"
	require.Error(t, bad.Validate())

	bad = *conf
	bad.Careers.PollInterval = "-1s"
	require.Error(t, bad.Validate())

	bad = *conf
	bad.Careers.PollTimeout = "-2s"
	require.Error(t, bad.Validate())

	bad = *conf
	bad.Contact.Provider = "pigeon"
	require.Error(t, bad.Validate())

	bad = *conf
	bad.Careers.ListingURL = ""
	require.Error(t, bad.Validate())
}
