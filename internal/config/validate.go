package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable. A missing TMDB key is not a
// validation failure: searches fail closed with an auth error instead, so
// commands that never search keep working.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTMDB() error {
	if _, err := url.ParseRequestURI(c.TMDB.BaseURL); err != nil {
		return fmt.Errorf("tmdb.base_url is invalid: %w", err)
	}
	if _, err := url.ParseRequestURI(c.TMDB.ImageBaseURL); err != nil {
		return fmt.Errorf("tmdb.image_base_url is invalid: %w", err)
	}
	if err := ensurePositiveMap(map[string]int{
		"tmdb.request_timeout": c.TMDB.RequestTimeout,
	}); err != nil {
		return err
	}
	if c.TMDB.RequestsPerSecond < 0 {
		return errors.New("tmdb.requests_per_second must be >= 0 (0 disables pacing)")
	}
	if c.TMDB.CacheTTLSeconds < 0 {
		return errors.New("tmdb.cache_ttl_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateImport() error {
	return ensurePositiveMap(map[string]int{
		"import.max_concurrency":    c.Import.MaxConcurrency,
		"import.detail_concurrency": c.Import.DetailConcurrency,
	})
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
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
