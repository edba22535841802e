package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"romlookup/internal/romdata"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// OpenVGDB contains configuration for the OpenVGDB SQLite database.
type OpenVGDB struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// LibretroDB contains configuration for the SQLite export of libretro-database
// and the thumbnail server its artwork URLs point at.
type LibretroDB struct {
	Enabled           bool     `toml:"enabled"`
	Path              string   `toml:"path"`
	ThumbnailsBaseURL string   `toml:"thumbnails_base_url"`
	ThumbnailKinds    []string `toml:"thumbnail_kinds"`
}

// ShiraGame contains configuration for the ShiraGame SQLite database.
type ShiraGame struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Lookup contains facade behaviour settings.
type Lookup struct {
	// Priority is the field-level merge precedence, highest first.
	Priority []string `toml:"priority"`
	// RequestTimeout bounds a single CLI query in seconds. Zero disables it.
	RequestTimeout int `toml:"request_timeout"`
	// MaxConcurrency caps concurrent adapter calls per query. Zero means one
	// goroutine per adapter call.
	MaxConcurrency int `toml:"max_concurrency"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for romlookup.
//
// Configuration sections by subsystem:
//   - Paths: data and log directories
//   - OpenVGDB, LibretroDB, ShiraGame: reference database locations
//   - Lookup: merge priority and query limits
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	OpenVGDB   OpenVGDB   `toml:"openvgdb"`
	LibretroDB LibretroDB `toml:"libretrodb"`
	ShiraGame  ShiraGame  `toml:"shiragame"`
	Lookup     Lookup     `toml:"lookup"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/romlookup/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("romlookup.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// Priority returns the parsed merge precedence. Normalization guarantees it
// is valid and complete.
func (c *Config) Priority() []romdata.SourceKind {
	out := make([]romdata.SourceKind, 0, len(c.Lookup.Priority))
	for _, name := range c.Lookup.Priority {
		kind, err := romdata.ParseSourceKind(name)
		if err != nil {
			continue
		}
		out = append(out, kind)
	}
	return out
}

// EnabledSources lists enabled reference databases in priority order.
func (c *Config) EnabledSources() []romdata.SourceKind {
	var out []romdata.SourceKind
	for _, kind := range c.Priority() {
		if c.SourceEnabled(kind) {
			out = append(out, kind)
		}
	}
	return out
}

// SourceEnabled reports whether a reference database is switched on.
func (c *Config) SourceEnabled(kind romdata.SourceKind) bool {
	switch kind {
	case romdata.SourceOpenVGDB:
		return c.OpenVGDB.Enabled
	case romdata.SourceLibretroDB:
		return c.LibretroDB.Enabled
	case romdata.SourceShiraGame:
		return c.ShiraGame.Enabled
	default:
		return false
	}
}

// SourcePath returns the database file for a source.
func (c *Config) SourcePath(kind romdata.SourceKind) string {
	switch kind {
	case romdata.SourceOpenVGDB:
		return c.OpenVGDB.Path
	case romdata.SourceLibretroDB:
		return c.LibretroDB.Path
	case romdata.SourceShiraGame:
		return c.ShiraGame.Path
	default:
		return ""
	}
}

// RequestTimeout returns the per-query deadline, or zero when disabled.
func (c *Config) RequestTimeout() time.Duration {
	if c.Lookup.RequestTimeout <= 0 {
		return 0
	}
	return time.Duration(c.Lookup.RequestTimeout) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
