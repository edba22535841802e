package lookup_test

import (
	"context"
	"net/url"
	"strings"
	"sync/atomic"

	"romlookup/internal/filematch"
	"romlookup/internal/romdata"
	"romlookup/internal/systems"
)

// fakeSource serves canned records. Records match a hash query by MD5 and a
// file name query by filematch; the system argument is ignored unless
// honourSystem is set, so tests can check the facade's own filtering.
type fakeSource struct {
	kind         romdata.SourceKind
	records      []romdata.SourceRecord
	native       map[systems.ID]string
	honourSystem bool
	systemOf     map[string]systems.ID
	urls         []string
	err          error
	block        bool

	calls atomic.Int32
}

func (f *fakeSource) Kind() romdata.SourceKind { return f.kind }

func (f *fakeSource) enter(ctx context.Context) error {
	f.calls.Add(1)
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.err
}

func (f *fakeSource) accepts(rec romdata.SourceRecord, system systems.ID) bool {
	if !f.honourSystem || system == systems.Unknown {
		return true
	}
	return f.native[system] == rec.NativeSystem
}

func (f *fakeSource) SearchByHash(ctx context.Context, md5 string, system systems.ID) ([]romdata.SourceRecord, error) {
	if err := f.enter(ctx); err != nil {
		return nil, err
	}
	var out []romdata.SourceRecord
	for _, rec := range f.records {
		if rec.Key() == romdata.NormalizeHash(md5) && f.accepts(rec, system) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeSource) SearchByFilename(ctx context.Context, filename string, system systems.ID) ([]romdata.SourceRecord, error) {
	if err := f.enter(ctx); err != nil {
		return nil, err
	}
	var out []romdata.SourceRecord
	for _, rec := range f.records {
		if !f.accepts(rec, system) {
			continue
		}
		if filematch.Matches(filename, rec.FileName) || filematch.Matches(filename, rec.Title) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeSource) SystemIdentifier(ctx context.Context, md5 string) (systems.ID, bool, error) {
	if err := f.enter(ctx); err != nil {
		return systems.Unknown, false, err
	}
	id, ok := f.systemOf[strings.ToUpper(md5)]
	return id, ok, nil
}

func (f *fakeSource) ArtworkURLs(ctx context.Context, _ romdata.ROMMetadata) ([]*url.URL, error) {
	if err := f.enter(ctx); err != nil {
		return nil, err
	}
	var out []*url.URL
	for _, raw := range f.urls {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

// indexerSource adds bulk artwork entries to fakeSource.
type indexerSource struct {
	*fakeSource
	entries   []romdata.ArtworkEntry
	failFirst atomic.Bool
	built     atomic.Int32
	release   chan struct{}
}

func (s *indexerSource) ArtworkEntries(ctx context.Context) ([]romdata.ArtworkEntry, error) {
	s.built.Add(1)
	if s.release != nil {
		<-s.release
	}
	if s.failFirst.CompareAndSwap(true, false) {
		return nil, errUnavailable
	}
	return s.entries, nil
}
