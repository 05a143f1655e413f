// Package config loads the market definition and engine settings.
//
// Values are resolved with the priority ENV > .env file > YAML file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	outrightCount = 3
	strategyCount = 2
	legCount      = 3
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Market MarketConfig `yaml:"market"`
	Engine EngineConfig `yaml:"engine"`
}

// MarketConfig is the static instrument set: three outrights and two strategies over them.
type MarketConfig struct {
	Outrights  []OutrightConfig `yaml:"outrights"`
	Strategies []StrategyConfig `yaml:"strategies"`
}

type OutrightConfig struct {
	Name   string `yaml:"name"`
	Expiry int64  `yaml:"expiry"`
}

type StrategyConfig struct {
	Name      string      `yaml:"name"`
	CreatedAt int64       `yaml:"created_at"`
	Legs      []LegConfig `yaml:"legs"`
}

// LegConfig references an outright by its 1-based number.
type LegConfig struct {
	Outright   int   `yaml:"outright"`
	Multiplier int64 `yaml:"multiplier"`
}

type EngineConfig struct {
	RingSize int64  `yaml:"ring_size"`
	LogLevel string `yaml:"log_level"`
}

// Default returns a calendar spread and a butterfly over three quarterly outrights.
func Default() Config {
	return Config{
		Market: MarketConfig{
			Outrights: []OutrightConfig{
				{Name: "MAR", Expiry: 1},
				{Name: "JUN", Expiry: 2},
				{Name: "SEP", Expiry: 3},
			},
			Strategies: []StrategyConfig{
				{
					Name:      "MAR-JUN",
					CreatedAt: 0,
					Legs: []LegConfig{
						{Outright: 1, Multiplier: 1},
						{Outright: 2, Multiplier: -1},
						{Outright: 3, Multiplier: 0},
					},
				},
				{
					Name:      "MAR-JUN-SEP",
					CreatedAt: 1,
					Legs: []LegConfig{
						{Outright: 1, Multiplier: 1},
						{Outright: 2, Multiplier: -2},
						{Outright: 3, Multiplier: 1},
					},
				},
			},
		},
		Engine: EngineConfig{
			RingSize: 32768,
			LogLevel: "info",
		},
	}
}

// Load reads a YAML file on top of the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFromEnv loads configuration from .env file (if exists) and environment variables.
// IMPLIED_CONFIG points at a YAML market definition; IMPLIED_RING_SIZE and
// IMPLIED_LOG_LEVEL override the engine settings.
func LoadFromEnv(envPath string) (Config, error) {
	// The .env file is optional.
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	cfg := Default()
	if path := os.Getenv("IMPLIED_CONFIG"); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}

	if size := os.Getenv("IMPLIED_RING_SIZE"); size != "" {
		n, err := strconv.ParseInt(size, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("%w: IMPLIED_RING_SIZE %q", ErrInvalidConfig, size)
		}
		cfg.Engine.RingSize = n
	}

	if level := os.Getenv("IMPLIED_LOG_LEVEL"); level != "" {
		cfg.Engine.LogLevel = level
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the market definition, the ring size and the log level.
func (c Config) Validate() error {
	if err := c.Market.Validate(); err != nil {
		return err
	}

	size := c.Engine.RingSize
	if size <= 0 || size&(size-1) != 0 {
		return fmt.Errorf("%w: ring size %d is not a power of 2", ErrInvalidConfig, size)
	}

	if _, err := zapcore.ParseLevel(c.Engine.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Validate checks the instrument counts and that every strategy has three legs
// over distinct outrights.
func (m MarketConfig) Validate() error {
	if len(m.Outrights) != outrightCount {
		return fmt.Errorf("%w: want %d outrights, got %d", ErrInvalidConfig, outrightCount, len(m.Outrights))
	}
	if len(m.Strategies) != strategyCount {
		return fmt.Errorf("%w: want %d strategies, got %d", ErrInvalidConfig, strategyCount, len(m.Strategies))
	}

	for _, s := range m.Strategies {
		if len(s.Legs) != legCount {
			return fmt.Errorf("%w: strategy %q has %d legs", ErrInvalidConfig, s.Name, len(s.Legs))
		}

		var seen [outrightCount + 1]bool
		for _, leg := range s.Legs {
			if leg.Outright < 1 || leg.Outright > outrightCount {
				return fmt.Errorf("%w: strategy %q references outright %d", ErrInvalidConfig, s.Name, leg.Outright)
			}
			if seen[leg.Outright] {
				return fmt.Errorf("%w: strategy %q references outright %d twice", ErrInvalidConfig, s.Name, leg.Outright)
			}
			seen[leg.Outright] = true
		}
	}
	return nil
}
