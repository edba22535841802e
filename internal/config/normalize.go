package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"romlookup/internal/romdata"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeSources(); err != nil {
		return err
	}
	if err := c.normalizeLookup(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("ROMLOOKUP_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSources() error {
	var err error
	if c.OpenVGDB.Path, err = c.resolveDBPath(c.OpenVGDB.Path, "ROMLOOKUP_OPENVGDB_PATH", defaultOpenVGDBFile); err != nil {
		return fmt.Errorf("openvgdb.path: %w", err)
	}
	if c.LibretroDB.Path, err = c.resolveDBPath(c.LibretroDB.Path, "ROMLOOKUP_LIBRETRODB_PATH", defaultLibretroDBFile); err != nil {
		return fmt.Errorf("libretrodb.path: %w", err)
	}
	if c.ShiraGame.Path, err = c.resolveDBPath(c.ShiraGame.Path, "ROMLOOKUP_SHIRAGAME_PATH", defaultShiraGameFile); err != nil {
		return fmt.Errorf("shiragame.path: %w", err)
	}

	c.LibretroDB.ThumbnailsBaseURL = strings.TrimRight(strings.TrimSpace(c.LibretroDB.ThumbnailsBaseURL), "/")
	if c.LibretroDB.ThumbnailsBaseURL == "" {
		c.LibretroDB.ThumbnailsBaseURL = defaultThumbnailsBaseURL
	}
	kinds := make([]string, 0, len(c.LibretroDB.ThumbnailKinds))
	seen := make(map[string]struct{}, len(c.LibretroDB.ThumbnailKinds))
	for _, kind := range c.LibretroDB.ThumbnailKinds {
		kind = strings.TrimSpace(kind)
		if kind == "" {
			continue
		}
		if _, exists := seen[kind]; exists {
			continue
		}
		seen[kind] = struct{}{}
		kinds = append(kinds, kind)
	}
	if len(kinds) == 0 {
		kinds = append(kinds, defaultThumbnailKinds...)
	}
	c.LibretroDB.ThumbnailKinds = kinds
	return nil
}

// resolveDBPath applies the env override, then falls back to a file in the
// data directory.
func (c *Config) resolveDBPath(value, envKey, fileName string) (string, error) {
	if env, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(env) != "" {
		value = env
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return filepath.Join(c.Paths.DataDir, fileName), nil
	}
	return expandPath(value)
}

// normalizeLookup canonicalizes source names and appends any source the
// user left out so the precedence list is always complete.
func (c *Config) normalizeLookup() error {
	priority := make([]string, 0, len(romdata.DefaultPriority))
	for _, name := range c.Lookup.Priority {
		if strings.TrimSpace(name) == "" {
			continue
		}
		kind, err := romdata.ParseSourceKind(name)
		if err != nil {
			return fmt.Errorf("lookup.priority: %w", err)
		}
		for _, existing := range priority {
			if existing == string(kind) {
				return fmt.Errorf("lookup.priority: %q listed more than once", kind)
			}
		}
		priority = append(priority, string(kind))
	}
	for _, kind := range romdata.DefaultPriority {
		found := false
		for _, existing := range priority {
			if existing == string(kind) {
				found = true
				break
			}
		}
		if !found {
			priority = append(priority, string(kind))
		}
	}
	c.Lookup.Priority = priority
	return nil
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("ROMLOOKUP_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
