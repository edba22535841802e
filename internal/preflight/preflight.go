package preflight

import (
	"context"

	"romlookup/internal/config"
	"romlookup/internal/romdata"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Schema checks only run for databases whose file check passed.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Data directory (only when it holds at least one enabled database)
	if cfg.Paths.DataDir != "" && usesDataDir(cfg) {
		results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	}

	for _, kind := range romdata.DefaultPriority {
		name := DisplayName(kind)
		if !cfg.SourceEnabled(kind) {
			results = append(results, Result{Name: name, Passed: true, Detail: "Disabled"})
			continue
		}
		file := CheckDatabaseFile(name, cfg.SourcePath(kind))
		if !file.Passed {
			results = append(results, file)
			continue
		}
		results = append(results, CheckSchema(ctx, kind, cfg.SourcePath(kind)))
	}

	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// DisplayName is the label used for a source in check output.
func DisplayName(kind romdata.SourceKind) string {
	switch kind {
	case romdata.SourceOpenVGDB:
		return "OpenVGDB"
	case romdata.SourceLibretroDB:
		return "libretro-database"
	case romdata.SourceShiraGame:
		return "ShiraGame"
	default:
		return string(kind)
	}
}

func usesDataDir(cfg *config.Config) bool {
	for _, kind := range cfg.EnabledSources() {
		if isWithin(cfg.SourcePath(kind), cfg.Paths.DataDir) {
			return true
		}
	}
	return false
}
