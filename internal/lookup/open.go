package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"romlookup/internal/config"
	"romlookup/internal/logging"
	"romlookup/internal/romdata"
	"romlookup/internal/services"
	"romlookup/internal/services/libretrodb"
	"romlookup/internal/services/openvgdb"
	"romlookup/internal/services/shiragame"
	"romlookup/internal/sysmap"
)

// Open opens every enabled reference database and returns a facade over
// them. A database that is enabled but missing or unreadable is a hard
// failure; nothing stays open when Open fails.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Facade, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "open", "configuration is required", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	systemMap := sysmap.Default()
	var sources []Source
	closeAll := func() {
		for _, src := range sources {
			if closer, ok := src.(interface{ Close() error }); ok {
				_ = closer.Close()
			}
		}
	}

	for _, kind := range cfg.EnabledSources() {
		src, err := openSource(ctx, cfg, kind, systemMap, logger)
		if err != nil {
			closeAll()
			return nil, err
		}
		sources = append(sources, src)
		logger.Debug("reference database opened",
			logging.Source(string(kind)),
			logging.String("path", cfg.SourcePath(kind)))
	}
	if len(sources) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "", "open", "no reference database enabled", nil)
	}

	return New(sources,
		WithPriority(cfg.Priority()...),
		WithLogger(logger),
		WithMaxConcurrency(cfg.Lookup.MaxConcurrency),
		WithSystemMap(systemMap),
	), nil
}

func openSource(ctx context.Context, cfg *config.Config, kind romdata.SourceKind, systemMap *sysmap.Map, logger *slog.Logger) (Source, error) {
	var (
		src Source
		err error
	)
	path := cfg.SourcePath(kind)
	switch kind {
	case romdata.SourceOpenVGDB:
		src, err = openvgdb.Open(ctx, path, logger, openvgdb.WithSystemMap(systemMap))
	case romdata.SourceLibretroDB:
		src, err = libretrodb.Open(ctx, path, logger,
			libretrodb.WithSystemMap(systemMap),
			libretrodb.WithThumbnails(cfg.LibretroDB.ThumbnailsBaseURL, cfg.LibretroDB.ThumbnailKinds))
	case romdata.SourceShiraGame:
		src, err = shiragame.Open(ctx, path, logger, shiragame.WithSystemMap(systemMap))
	default:
		return nil, services.Wrap(services.ErrConfiguration, string(kind), "open", "unsupported source", nil)
	}
	if err != nil {
		if errors.Is(err, services.ErrConfiguration) {
			return nil, err
		}
		return nil, fmt.Errorf("open %s database: %w", kind, err)
	}
	return src, nil
}
