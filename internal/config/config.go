// Package config loads the application configuration: a TOML file in
// the XDG config directory with PASTQ_* environment overrides on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the resolved application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Auth     AuthConfig     `toml:"auth"`
	Adaptive AdaptiveConfig `toml:"adaptive"`
	LLM      LLMConfig      `toml:"llm"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// AuthConfig holds JWT settings for the HTTP API.
type AuthConfig struct {
	JWTSecret string        `toml:"jwt-secret"`
	TokenTTL  time.Duration `toml:"-"`

	// TokenTTLMinutes is the TOML-facing form of TokenTTL.
	TokenTTLMinutes int `toml:"token-ttl-minutes"`
}

// AdaptiveConfig holds the accuracy thresholds for difficulty mapping.
type AdaptiveConfig struct {
	WeakThreshold   float64 `toml:"weak-threshold"`
	StrongThreshold float64 `toml:"strong-threshold"`
}

// LLMConfig selects the generation provider.
type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
}

// Default returns the configuration used when no file and no
// environment overrides are present.
func Default() Config {
	return Config{
		Server:   ServerConfig{Addr: ":8080"},
		Auth:     AuthConfig{TokenTTL: 60 * time.Minute, TokenTTLMinutes: 60},
		Adaptive: AdaptiveConfig{WeakThreshold: 0.4, StrongThreshold: 0.75},
		LLM:      LLMConfig{},
	}
}

// DefaultConfigPath returns the TOML config path under XDG config home.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "pastq", "config.toml")
}

// Load reads the config file at path (missing file is not an error),
// then applies environment overrides. An empty path means the default
// location.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("stat config: %w", err)
	}

	if cfg.Auth.TokenTTLMinutes > 0 {
		cfg.Auth.TokenTTL = time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv layers PASTQ_* variables over the file values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("PASTQ_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("PASTQ_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("PASTQ_TOKEN_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Auth.TokenTTL = time.Duration(n) * time.Minute
		}
	}
	if v := os.Getenv("PASTQ_WEAK_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Adaptive.WeakThreshold = f
		}
	}
	if v := os.Getenv("PASTQ_STRONG_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Adaptive.StrongThreshold = f
		}
	}
	if v := os.Getenv("PASTQ_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("PASTQ_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
}

// Validate checks the threshold ordering.
func (c Config) Validate() error {
	if c.Adaptive.WeakThreshold < 0 || c.Adaptive.WeakThreshold > 1 {
		return fmt.Errorf("weak-threshold %v out of [0,1]", c.Adaptive.WeakThreshold)
	}
	if c.Adaptive.StrongThreshold < 0 || c.Adaptive.StrongThreshold > 1 {
		return fmt.Errorf("strong-threshold %v out of [0,1]", c.Adaptive.StrongThreshold)
	}
	if c.Adaptive.WeakThreshold > c.Adaptive.StrongThreshold {
		return fmt.Errorf("weak-threshold %v above strong-threshold %v",
			c.Adaptive.WeakThreshold, c.Adaptive.StrongThreshold)
	}
	return nil
}
