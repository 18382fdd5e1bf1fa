package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "./localpulse.db", cfg.Database.Path)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, 30*time.Minute, cfg.Schedule.ParseIngestInterval())
	require.Equal(t, float64(85), cfg.Deals.AlertMinScore)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: /tmp/pulse.db
server:
  port: 9090
  timezone: America/Edmonton
schedule:
  ingest_interval: 1h
feeds:
  events:
    - name: riverside
      url: https://riverside.example/feed.xml
      venue: Riverside Community Centre
  deals:
    - name: downtown
      url: https://deals.example/feed.xml
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/pulse.db", cfg.Database.Path)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, time.Hour, cfg.Schedule.ParseIngestInterval())
	require.Len(t, cfg.Feeds.Events, 1)
	require.Equal(t, "Riverside Community Centre", cfg.Feeds.Events[0].Venue)
	require.Len(t, cfg.Feeds.Deals, 1)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LOCALPULSE_DB_PATH", "/data/override.db")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.example/T/B/x")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "/data/override.db", cfg.Database.Path)
	require.True(t, cfg.Alerts.Slack.Enabled)
	require.Equal(t, "https://hooks.slack.example/T/B/x", cfg.Alerts.Slack.WebhookURL)
}

func TestLocationFallback(t *testing.T) {
	require.Equal(t, time.Local, ServerConfig{}.Location())
	require.Equal(t, time.Local, ServerConfig{Timezone: "Not/AZone"}.Location())
}
