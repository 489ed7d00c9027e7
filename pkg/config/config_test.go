package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte("environment: test\n"))
	require.NoError(t, err)

	assert.Equal(t, "test", c.Environment)
	assert.Equal(t, ModeLive, c.Mode)
	assert.True(t, c.LiveDataRequired())
	assert.Equal(t, 15*time.Minute, c.Cache.SnapshotTTL)
	assert.Equal(t, time.Minute, c.Cache.QuoteTTL)
	assert.Equal(t, 10*time.Minute, c.Cache.FundamentalsTTL)
	assert.Equal(t, 10*time.Second, c.Providers.Yahoo.Timeout)
	assert.Equal(t, 3, c.Providers.Brapi.Retry.Attempts)
	assert.Equal(t, "https://statusinvest.com.br", c.Providers.StatusInvest.BaseURL)
	assert.Equal(t, "default", c.Peers.DefaultSector)
}

func TestParseOverridesNestedValues(t *testing.T) {
	yml := `
mode: development
cache:
  backend: layered
  snapshot_ttl: 5m
providers:
  brapi:
    token: abc
    retry:
      attempts: 5
`
	c, err := Parse([]byte(yml))
	require.NoError(t, err)

	assert.False(t, c.LiveDataRequired())
	assert.Equal(t, "layered", c.Cache.Backend)
	assert.Equal(t, 5*time.Minute, c.Cache.SnapshotTTL)
	assert.Equal(t, "abc", c.Providers.Brapi.Token)
	assert.Equal(t, 5, c.Providers.Brapi.Retry.Attempts)
	assert.Equal(t, 200*time.Millisecond, c.Providers.Brapi.Retry.BaseDelay, "siblings keep defaults")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		yml  string
	}{
		{"bad mode", "mode: staging"},
		{"bad backend", "cache:\n  backend: disk"},
		{"kafka without brokers", "kafka:\n  enabled: true"},
		{"warmup without tickers", "warmup:\n  enabled: true"},
		{"primary disabled", "providers:\n  yahoo:\n    enabled: false"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yml))
			assert.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	c := Default()
	env := map[string]string{
		"APP_MODE":      "development",
		"HTTP_PORT":     "9090",
		"BRAPI_TOKEN":   "tok",
		"KAFKA_BROKERS": "k1:9092,k2:9092",
	}
	c.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, ModeDevelopment, c.Mode)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "tok", c.Providers.Brapi.Token)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	require.NoError(t, c.Validate())
}
