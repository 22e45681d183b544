package client

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickkosasih/Allin/internal/bot"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "localhost:32727", cfg.Server.Address)
	assert.Equal(t, "AAAA", cfg.Player.Room)

	request, think := cfg.Timeouts()
	assert.Equal(t, DefaultRequestTimeout, request)
	assert.Equal(t, 500*time.Millisecond, think)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "bot.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
server {
  websocket_url   = "ws://poker.example:32728/ws"
  request_timeout = "5s"
}

player {
  name     = "Maverick"
  room     = "QR7T"
  strategy = "maniac"
  seed     = 9
}
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "localhost:32727", cfg.Server.Address, "defaults fill the gaps")
	assert.Equal(t, "ws://poker.example:32728/ws", cfg.Server.WebsocketURL)
	assert.Equal(t, "Maverick", cfg.Player.Name)
	assert.Equal(t, "QR7T", cfg.Player.Room)
	require.NotNil(t, cfg.Player.Seed)
	assert.Equal(t, int64(9), *cfg.Player.Seed)

	request, _ := cfg.Timeouts()
	assert.Equal(t, 5*time.Second, request)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad timeout", func(c *Config) { c.Server.RequestTimeout = "soon" }, "request_timeout"},
		{"zero timeout", func(c *Config) { c.Server.RequestTimeout = "0s" }, "request_timeout"},
		{"negative think time", func(c *Config) { c.Player.ThinkTime = "-1s" }, "think_time"},
		{"lowercase room", func(c *Config) { c.Player.Room = "abcd" }, "invalid room code"},
		{"long name", func(c *Config) { c.Player.Name = "a name far too long for the table" }, "invalid player name"},
		{"no server", func(c *Config) { c.Server.Address = "" }, "server address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}

	cfg := DefaultConfig()
	cfg.Player.Strategy = "shark"
	require.ErrorIs(t, cfg.Validate(), bot.ErrUnknownStrategy)
}
