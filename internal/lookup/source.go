package lookup

import (
	"context"
	"net/url"

	"romlookup/internal/romdata"
	"romlookup/internal/systems"
)

// Source is one reference database. systems.Unknown means no system
// restriction. An error marked services.ErrSourceUnavailable or
// services.ErrInvalidIdentifier means the source has no opinion; a nil error
// with no records means it positively found nothing.
type Source interface {
	Kind() romdata.SourceKind
	SearchByHash(ctx context.Context, md5 string, system systems.ID) ([]romdata.SourceRecord, error)
	SearchByFilename(ctx context.Context, filename string, system systems.ID) ([]romdata.SourceRecord, error)
	SystemIdentifier(ctx context.Context, md5 string) (systems.ID, bool, error)
	ArtworkURLs(ctx context.Context, rom romdata.ROMMetadata) ([]*url.URL, error)
}

// ArtworkIndexer is implemented by sources that can list bulk artwork
// metadata for the mapping tables.
type ArtworkIndexer interface {
	ArtworkEntries(ctx context.Context) ([]romdata.ArtworkEntry, error)
}

// Checker is implemented by sources that can verify their backing store.
type Checker interface {
	Check(ctx context.Context) error
}
