package infra

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all server settings. Values load from YAML and may be
// overridden through environment variables afterwards.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`

	Game struct {
		MaxPlayers int `yaml:"max_players"`
		// TimerMax is the trading countdown in ticks.
		TimerMax int `yaml:"timer_max"`
		// TickIntervalMS gates the trading countdown, PreGameDelayMS the
		// "Game starting in 3/2/1" steps.
		TickIntervalMS int `yaml:"tick_interval_ms"`
		PreGameDelayMS int `yaml:"pre_game_delay_ms"`
	} `yaml:"game"`

	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the config file, applies environment
// overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Game.MaxPlayers < 2 {
		return fmt.Errorf("at least two players are required, got %d", c.Game.MaxPlayers)
	}
	if c.Game.TimerMax <= 0 {
		return fmt.Errorf("trading timer must be positive")
	}
	if c.Game.TickIntervalMS <= 0 {
		return fmt.Errorf("tick interval must be positive")
	}
	if c.Game.PreGameDelayMS <= 0 {
		return fmt.Errorf("pre-game delay must be positive")
	}
	return nil
}

// overrideWithEnv overrides settings from environment variables when set.
func overrideWithEnv(cfg *Config) {
	if host := os.Getenv("FIGGIE_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("FIGGIE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if players := os.Getenv("FIGGIE_MAX_PLAYERS"); players != "" {
		if n, err := strconv.Atoi(players); err == nil {
			cfg.Game.MaxPlayers = n
		}
	}
	if level := os.Getenv("FIGGIE_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}
