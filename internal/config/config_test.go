package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  host: 127.0.0.1
  port: 4000
redis:
  addr: redis:6379
game:
  target_score: 51
  bot_delay_ms: 200
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 51, cfg.Game.TargetScore)
	assert.Equal(t, 200*time.Millisecond, cfg.Game.BotDelay())
	// Unset keys get defaults.
	assert.Equal(t, 30*time.Minute, cfg.Game.RoomTimeoutDuration())
	assert.Equal(t, 80, cfg.Game.MaxChatLen)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 101, cfg.Game.TargetScore)
	assert.Equal(t, 900*time.Millisecond, cfg.Game.BotDelay())
}
