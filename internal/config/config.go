// Package config provides configuration types and defaults for wadeview.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all configuration options for wadeview.
type Config struct {
	Templates string        `mapstructure:"templates"` // directory searched by the template loader
	Debug     bool          `mapstructure:"debug"`
	LogFile   string        `mapstructure:"log_file"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"` // zero keeps parsed templates until invalidated
}

const (
	EnvPrefix = "WADEVIEW"
	FileName  = ".wadeview"
)

var ErrNoTemplates = errors.New("templates directory not set")

// Defaults returns the configuration used when no file or environment
// variable overrides a key.
func Defaults() Config {
	return Config{
		Templates: ".",
		LogFile:   "wadeview.log",
		CacheTTL:  5 * time.Minute,
	}
}

func (c Config) Validate() error {
	if c.Templates == "" {
		return ErrNoTemplates
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative, got %s", c.CacheTTL)
	}

	return nil
}
