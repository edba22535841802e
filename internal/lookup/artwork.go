package lookup

import (
	"context"
	"net/url"
	"strings"

	"romlookup/internal/logging"
	"romlookup/internal/romdata"
	"romlookup/internal/systems"
)

const mappingKey = "artwork-mapping"

// ArtworkURLs collects artwork URLs for rom from every source, in priority
// order without duplicates. It returns nil without consulting any source
// when the system is unknown or the ROM has no title, file name or MD5 to
// match on.
func (f *Facade) ArtworkURLs(ctx context.Context, rom romdata.ROMMetadata) ([]*url.URL, error) {
	if rom.SystemID == systems.Unknown || rom.SystemID == "" {
		return nil, nil
	}
	if strings.TrimSpace(rom.GameTitle) == "" && strings.TrimSpace(rom.ROMFileName) == "" && !romdata.IsMD5(rom.MD5) {
		return nil, nil
	}
	ctx = f.begin(ctx, "artwork_urls")

	calls := make([]call[[]*url.URL], 0, len(f.sources))
	for _, src := range f.sources {
		calls = append(calls, call[[]*url.URL]{
			kind: src.Kind(),
			run: func(ctx context.Context) ([]*url.URL, error) {
				return src.ArtworkURLs(ctx, rom)
			},
		})
	}
	outcomes, err := fanOut(ctx, f, calls)
	if err != nil {
		return nil, err
	}

	var (
		out  []*url.URL
		seen = make(map[string]struct{})
	)
	for _, o := range outcomes {
		if o.err != nil {
			continue
		}
		for _, u := range o.value {
			if u == nil {
				continue
			}
			key := u.String()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, u)
		}
	}
	return out, nil
}

// ArtworkMappings returns the MD5 and file name tables built from every
// source that exposes bulk artwork entries. The first successful build is
// memoized; concurrent callers share one in-flight build. A build in which
// every indexer failed is returned but not memoized. Each caller gets its
// own copy of the tables.
func (f *Facade) ArtworkMappings(ctx context.Context) (*romdata.ArtworkMapping, error) {
	if m := f.mapping.Load(); m != nil {
		return m.Clone(), nil
	}
	ctx = f.begin(ctx, "artwork_mappings")

	// Waiters honour their own cancellation; the shared build runs detached.
	ch := f.mappingGroup.DoChan(mappingKey, func() (any, error) {
		if m := f.mapping.Load(); m != nil {
			return m, nil
		}
		return f.buildMapping(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*romdata.ArtworkMapping).Clone(), nil
	}
}

func (f *Facade) buildMapping(ctx context.Context) (*romdata.ArtworkMapping, error) {
	var calls []call[[]romdata.ArtworkEntry]
	for _, src := range f.sources {
		indexer, ok := src.(ArtworkIndexer)
		if !ok {
			continue
		}
		calls = append(calls, call[[]romdata.ArtworkEntry]{
			kind: src.Kind(),
			run:  indexer.ArtworkEntries,
		})
	}
	outcomes, err := fanOut(ctx, f, calls)
	if err != nil {
		return nil, err
	}

	var (
		entries   []romdata.ArtworkEntry
		succeeded int
	)
	for _, o := range outcomes {
		if o.err != nil {
			continue
		}
		succeeded++
		entries = append(entries, o.value...)
	}
	mapping := romdata.NewArtworkMapping(entries)
	if len(calls) > 0 && succeeded == 0 {
		return mapping, nil
	}
	f.mapping.Store(mapping)
	logging.WithContext(ctx, f.logger).Info("artwork mapping built",
		logging.Int("entries", len(mapping.ROMMD5)),
		logging.Int("file_names", len(mapping.ROMFileNameToMD5)))
	return mapping, nil
}
