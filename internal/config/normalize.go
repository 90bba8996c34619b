package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeLogging()
	c.normalizeAnalysis()
	return c.normalizePaths()
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = defaultCachePath()
	}
	if c.Cache.Path, err = expandPath(strings.TrimSpace(c.Cache.Path)); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.Level == "warning" {
		c.Logging.Level = "warn"
	}
}

func (c *Config) normalizeAnalysis() {
	c.Analysis.FallbackEncoding = strings.ToLower(strings.TrimSpace(c.Analysis.FallbackEncoding))
	switch c.Analysis.FallbackEncoding {
	case "":
		c.Analysis.FallbackEncoding = defaultFallbackEncoding
	case "iso-8859-1", "iso8859-1", "latin-1":
		c.Analysis.FallbackEncoding = "latin1"
	case "cp1252", "windows-1252":
		c.Analysis.FallbackEncoding = "windows1252"
	}
	if c.Analysis.RecipScale == 0 {
		c.Analysis.RecipScale = defaultRecipScale
	}
}
