package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Game   GameConfig   `yaml:"game"`
}

// ServerConfig configures the websocket listener.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// RedisConfig configures the match-history store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig holds the game tuning knobs.
type GameConfig struct {
	TargetScore int `yaml:"target_score"` // match target, points
	BotDelayMs  int `yaml:"bot_delay_ms"` // bot thinking pause, milliseconds
	RoomTimeout int `yaml:"room_timeout"` // idle room cleanup, minutes
	MaxChatLen  int `yaml:"max_chat_len"` // chat message length limit, runes
}

// BotDelay returns the bot thinking pause.
func (c *GameConfig) BotDelay() time.Duration {
	return time.Duration(c.BotDelayMs) * time.Millisecond
}

// RoomTimeoutDuration returns the idle room cleanup threshold.
func (c *GameConfig) RoomTimeoutDuration() time.Duration {
	return time.Duration(c.RoomTimeout) * time.Minute
}

// Load reads a YAML config file, filling defaults for missing keys.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.fillDefaults()
	return &cfg, nil
}

// Default returns the default configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.fillDefaults()
	return cfg
}

func (c *Config) fillDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3001
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Game.TargetScore == 0 {
		c.Game.TargetScore = 101
	}
	if c.Game.BotDelayMs == 0 {
		c.Game.BotDelayMs = 900
	}
	if c.Game.RoomTimeout == 0 {
		c.Game.RoomTimeout = 30
	}
	if c.Game.MaxChatLen == 0 {
		c.Game.MaxChatLen = 80
	}
}
