package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/amrops/fleetconsole/core/metrics"
	"github.com/amrops/fleetconsole/infra/mqtt"
	"github.com/amrops/fleetconsole/store"
)

type Config struct {
	HTTP    HTTPConfig     `json:"http"`
	Store   store.Config   `json:"store"`
	Sim     SimConfig      `json:"sim"`
	Metrics metrics.Config `json:"metrics"`
	MQTT    mqtt.Config    `json:"mqtt"`
	Logging LoggingConfig  `json:"logging"`
}

// HTTPConfig defines the API listener settings.
type HTTPConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *HTTPConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// SimConfig controls the lazy simulation stepper.
type SimConfig struct {
	// TickIntervalSeconds is the minimum wall-clock gap between ticks.
	TickIntervalSeconds int `json:"tick_interval_seconds"`
	// Seed makes simulation runs reproducible when non-zero.
	Seed uint64 `json:"seed"`
}

// SetDefaults applies sane defaults.
func (c *SimConfig) SetDefaults() {
	if c.TickIntervalSeconds == 0 {
		c.TickIntervalSeconds = 5
	}
}

// Validate checks the simulation settings.
func (c SimConfig) Validate() error {
	if c.TickIntervalSeconds < 1 {
		return fmt.Errorf("tick_interval_seconds must be at least 1")
	}
	return nil
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("FLEET_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "fleet_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills every section with its defaults.
func (c *Config) ApplyDefaults() {
	c.HTTP.SetDefaults()
	c.Store.SetDefaults()
	c.Sim.SetDefaults()
	c.Metrics.SetDefaults()
	c.MQTT.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Sim.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	return nil
}
