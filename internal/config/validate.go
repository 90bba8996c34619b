package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	return c.validateCache()
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.RecipScale < 1 {
		return fmt.Errorf("analysis.recip_scale must be positive, got %d", c.Analysis.RecipScale)
	}
	switch c.Analysis.FallbackEncoding {
	case "latin1", "windows1252", "none":
	default:
		return fmt.Errorf("analysis.fallback_encoding must be latin1, windows1252 or none, got %q", c.Analysis.FallbackEncoding)
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Enabled && c.Cache.Path == "" {
		return errors.New("cache.path must be set when the cache is enabled")
	}
	return nil
}
