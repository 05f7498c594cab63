package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, uint64(1<<20), cfg.QueueCapacity)
	assert.Equal(t, "events.log", cfg.EventsLog)
	assert.Equal(t, "trades.log", cfg.TradesLog)
	assert.Equal(t, 1_000_000, cfg.BenchEvents)
	assert.Equal(t, 5, cfg.ReplDepth)
	assert.False(t, cfg.UserTracking)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ENGINE_BENCH_EVENTS", "250")
	t.Setenv("ENGINE_EVENTS_LOG", "/tmp/ev.log")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.BenchEvents)
	assert.Equal(t, "/tmp/ev.log", cfg.EventsLog)
}
