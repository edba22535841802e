package testsupport

import (
	"path/filepath"
	"testing"

	"romlookup/internal/config"
	"romlookup/internal/romdata"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Database paths point into the temp data directory; nothing is written
// there unless WithFixtureDatabases is applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.OpenVGDB.Path = filepath.Join(cfgVal.Paths.DataDir, "openvgdb.sqlite")
	cfgVal.LibretroDB.Path = filepath.Join(cfgVal.Paths.DataDir, "libretrodb.sqlite")
	cfgVal.ShiraGame.Path = filepath.Join(cfgVal.Paths.DataDir, "shiragame.sqlite3")
	cfgVal.Lookup.RequestTimeout = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithFixtureDatabases writes the standard fixture database for every
// enabled source at its configured path.
func WithFixtureDatabases() ConfigOption {
	return func(b *configBuilder) {
		if b.cfg.OpenVGDB.Enabled {
			WriteOpenVGDB(b.t, b.cfg.OpenVGDB.Path, OpenVGDBFixture())
		}
		if b.cfg.LibretroDB.Enabled {
			WriteLibretroDB(b.t, b.cfg.LibretroDB.Path, LibretroFixture())
		}
		if b.cfg.ShiraGame.Enabled {
			WriteShiraGame(b.t, b.cfg.ShiraGame.Path, ShiraGameFixture())
		}
	}
}

// WithSources enables exactly the listed sources. Apply it before
// WithFixtureDatabases.
func WithSources(kinds ...romdata.SourceKind) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.OpenVGDB.Enabled = false
		b.cfg.LibretroDB.Enabled = false
		b.cfg.ShiraGame.Enabled = false
		for _, kind := range kinds {
			switch kind {
			case romdata.SourceOpenVGDB:
				b.cfg.OpenVGDB.Enabled = true
			case romdata.SourceLibretroDB:
				b.cfg.LibretroDB.Enabled = true
			case romdata.SourceShiraGame:
				b.cfg.ShiraGame.Enabled = true
			default:
				b.t.Fatalf("unknown source kind %q", kind)
			}
		}
	}
}

// WithPriority overrides the merge precedence.
func WithPriority(kinds ...romdata.SourceKind) ConfigOption {
	return func(b *configBuilder) {
		priority := make([]string, 0, len(kinds))
		for _, kind := range kinds {
			priority = append(priority, string(kind))
		}
		b.cfg.Lookup.Priority = priority
	}
}

// WithLogDir routes file logs into the test directory.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.LogDir = filepath.Join(b.baseDir, "logs")
	}
}
