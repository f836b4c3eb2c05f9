package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir()) // no config file at all
	require.NoError(t, err)

	assert.Equal(t, []string{"btcusdt", "ethusdt", "solusdt", "bnbusdt", "dogeusdt", "wifusdt"}, cfg.Monitor.Symbols)
	assert.Equal(t, "wss://fstream.binance.com/ws/", cfg.Monitor.StreamURL)
	assert.Equal(t, float64(15000), cfg.Monitor.MinNotional)
	assert.Equal(t, float64(50000), cfg.Monitor.Tiers.Notable)
	assert.Equal(t, float64(100000), cfg.Monitor.Tiers.Large)
	assert.Equal(t, float64(500000), cfg.Monitor.Tiers.Whale)
	assert.Equal(t, 5000, cfg.Monitor.BackoffMS)
	assert.Equal(t, "binance_trades.csv", cfg.Log.Path)
	assert.Equal(t, float64(1000000), cfg.Alert.NotifyNotional)
	assert.False(t, cfg.Database.Enabled)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := writeConfig(t, `
monitor:
  symbols: [btcusdt]
  min_notional: 20000
  backoff_ms: 1000
log:
  path: /tmp/trades.csv
alert:
  webhook_url: https://hooks.example.test/push
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"btcusdt"}, cfg.Monitor.Symbols)
	assert.Equal(t, float64(20000), cfg.Monitor.MinNotional)
	assert.Equal(t, 1000, cfg.Monitor.BackoffMS)
	assert.Equal(t, "/tmp/trades.csv", cfg.Log.Path)
	assert.Equal(t, "https://hooks.example.test/push", cfg.Alert.WebhookURL)
	// Untouched keys keep their defaults.
	assert.Equal(t, float64(500000), cfg.Monitor.Tiers.Whale)
}

func TestLoadConfig_EmptySymbolsRejected(t *testing.T) {
	dir := writeConfig(t, `
monitor:
  symbols: []
`)

	_, err := LoadConfig(dir)
	require.Error(t, err)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	dir := writeConfig(t, "monitor: [this is not\n  a mapping")

	_, err := LoadConfig(dir)
	require.Error(t, err)
}
