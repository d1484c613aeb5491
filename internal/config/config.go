package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Lob0Garou/Escala-que-Converte/internal/optimizer"
)

// Config is the application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Optimizer OptimizerConfig `mapstructure:"optimizer"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string `mapstructure:"addr"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | console
}

// OptimizerConfig mirrors optimizer.Tuning.
type OptimizerConfig struct {
	AlphaNormal       float64 `mapstructure:"alpha_normal"`
	HotspotMultiplier float64 `mapstructure:"hotspot_multiplier"`
	RepairMultiplier  float64 `mapstructure:"repair_multiplier"`
	RepairTopSlots    int     `mapstructure:"repair_top_slots"`
	Patience          int     `mapstructure:"patience"`
	TieEpsilon        float64 `mapstructure:"tie_epsilon"`
}

// Tuning converts the section into optimizer constants.
func (c OptimizerConfig) Tuning() optimizer.Tuning {
	return optimizer.Tuning{
		AlphaNormal:       c.AlphaNormal,
		HotspotMultiplier: c.HotspotMultiplier,
		RepairMultiplier:  c.RepairMultiplier,
		RepairTopSlots:    c.RepairTopSlots,
		Patience:          c.Patience,
		TieEpsilon:        c.TieEpsilon,
	}
}

// Load reads configuration from defaults, an optional file and ESCALA_*
// environment variables, in increasing priority. An empty path searches
// ./config and . for config.yaml and tolerates its absence.
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── defaults ──
	d := optimizer.DefaultTuning()
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_body_bytes", 4<<20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("optimizer.alpha_normal", d.AlphaNormal)
	v.SetDefault("optimizer.hotspot_multiplier", d.HotspotMultiplier)
	v.SetDefault("optimizer.repair_multiplier", d.RepairMultiplier)
	v.SetDefault("optimizer.repair_top_slots", d.RepairTopSlots)
	v.SetDefault("optimizer.patience", d.Patience)
	v.SetDefault("optimizer.tie_epsilon", d.TieEpsilon)

	// ── file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("ESCALA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the optimizer cannot run with.
func (c *Config) Validate() error {
	o := c.Optimizer
	switch {
	case o.AlphaNormal <= 0:
		return fmt.Errorf("invalid config: optimizer.alpha_normal must be positive")
	case o.HotspotMultiplier <= 0:
		return fmt.Errorf("invalid config: optimizer.hotspot_multiplier must be positive")
	case o.RepairMultiplier <= 0:
		return fmt.Errorf("invalid config: optimizer.repair_multiplier must be positive")
	case o.RepairTopSlots <= 0:
		return fmt.Errorf("invalid config: optimizer.repair_top_slots must be positive")
	case o.Patience <= 0:
		return fmt.Errorf("invalid config: optimizer.patience must be positive")
	case o.TieEpsilon <= 0:
		return fmt.Errorf("invalid config: optimizer.tie_epsilon must be positive")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("invalid config: server.addr is empty")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid config: server.max_body_bytes must be positive")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid config: log.format %q (want json or console)", c.Log.Format)
	}
	return nil
}
