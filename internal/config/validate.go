package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.validateLibretroDB(); err != nil {
		return err
	}
	if err := c.validateLookup(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSources() error {
	if !c.OpenVGDB.Enabled && !c.LibretroDB.Enabled && !c.ShiraGame.Enabled {
		return errors.New("at least one of openvgdb, libretrodb, or shiragame must be enabled")
	}
	if c.OpenVGDB.Enabled && c.OpenVGDB.Path == "" {
		return errors.New("openvgdb.path must be set when openvgdb.enabled is true")
	}
	if c.LibretroDB.Enabled && c.LibretroDB.Path == "" {
		return errors.New("libretrodb.path must be set when libretrodb.enabled is true")
	}
	if c.ShiraGame.Enabled && c.ShiraGame.Path == "" {
		return errors.New("shiragame.path must be set when shiragame.enabled is true")
	}
	return nil
}

func (c *Config) validateLibretroDB() error {
	if !c.LibretroDB.Enabled {
		return nil
	}
	parsed, err := url.Parse(c.LibretroDB.ThumbnailsBaseURL)
	if err != nil {
		return fmt.Errorf("libretrodb.thumbnails_base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("libretrodb.thumbnails_base_url must be an http or https URL")
	}
	if parsed.Host == "" {
		return errors.New("libretrodb.thumbnails_base_url must include a host")
	}
	if len(c.LibretroDB.ThumbnailKinds) == 0 {
		return errors.New("libretrodb.thumbnail_kinds must include at least one kind")
	}
	return nil
}

func (c *Config) validateLookup() error {
	if len(c.Lookup.Priority) == 0 {
		return errors.New("lookup.priority must list at least one source")
	}
	if c.Lookup.RequestTimeout < 0 {
		return errors.New("lookup.request_timeout must be >= 0 (seconds)")
	}
	if c.Lookup.MaxConcurrency < 0 {
		return errors.New("lookup.max_concurrency must be >= 0")
	}
	return nil
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
