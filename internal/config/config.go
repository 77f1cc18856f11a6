package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      Server      `yaml:"server" json:"server"`
	Generator   Generator   `yaml:"generator" json:"generator"`
	Leveling    Leveling    `yaml:"leveling" json:"leveling"`
	Quests      Quests      `yaml:"quests" json:"quests"`
	Persistence Persistence `yaml:"persistence" json:"persistence"`
}

type Server struct {
	Addr    string `yaml:"addr" json:"addr"`
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

type Generator struct {
	BaseURL        string        `yaml:"base_url" json:"base_url"`
	TimeoutSeconds int           `yaml:"timeout_seconds" json:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-" json:"-"`
}

type Leveling struct {
	XPPerCompletion int `yaml:"xp_per_completion" json:"xp_per_completion"`
}

type Quests struct {
	// LikeStep/HardStep nudge the per-area difficulty hint on ratings.
	LikeStep float64 `yaml:"like_step" json:"like_step"`
	HardStep float64 `yaml:"hard_step" json:"hard_step"`
}

type Persistence struct {
	DebounceMillis int           `yaml:"debounce_millis" json:"debounce_millis"`
	Debounce       time.Duration `yaml:"-" json:"-"`
}

func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.DataDir == "" {
		c.Server.DataDir = "data"
	}
	if c.Generator.TimeoutSeconds <= 0 {
		c.Generator.TimeoutSeconds = 10
	}
	c.Generator.Timeout = time.Duration(c.Generator.TimeoutSeconds) * time.Second
	if c.Leveling.XPPerCompletion <= 0 {
		c.Leveling.XPPerCompletion = 1
	}
	if c.Quests.LikeStep <= 0 {
		c.Quests.LikeStep = 0.2
	}
	if c.Quests.HardStep <= 0 {
		c.Quests.HardStep = 0.4
	}
	if c.Persistence.DebounceMillis <= 0 {
		c.Persistence.DebounceMillis = 750
	}
	c.Persistence.Debounce = time.Duration(c.Persistence.DebounceMillis) * time.Millisecond
}

// Default returns a config with all defaults applied and no file read.
func Default() *Config {
	var c Config
	c.ApplyDefaults()
	return &c
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	return &c, nil
}

// FromEnv applies environment overrides on top of cfg. LIFEXP_GENERATOR_URL
// is the one setting that commonly differs between installs.
func FromEnv(cfg *Config) *Config {
	if v := os.Getenv("LIFEXP_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LIFEXP_DATA_DIR"); v != "" {
		cfg.Server.DataDir = v
	}
	if v := os.Getenv("LIFEXP_GENERATOR_URL"); v != "" {
		cfg.Generator.BaseURL = v
	}
	return cfg
}
