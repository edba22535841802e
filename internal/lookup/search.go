package lookup

import (
	"context"
	"slices"
	"strings"

	"romlookup/internal/filematch"
	"romlookup/internal/merge"
	"romlookup/internal/romdata"
	"romlookup/internal/systems"
)

// SearchROMByMD5 returns the merged record for md5, or nil when no source
// knows the hash. When the hash is known under several systems the record
// for the one seen first in priority order wins.
func (f *Facade) SearchROMByMD5(ctx context.Context, md5 string) (*romdata.ROMMetadata, error) {
	ctx = f.begin(ctx, "search_rom_by_md5")
	merged, err := f.searchHash(ctx, md5, systems.Unknown)
	if err != nil || len(merged) == 0 {
		return nil, err
	}
	rom := merged[0]
	return &rom, nil
}

// SearchByMD5 looks md5 up within one system. Every source restricts its
// search to system, so the result holds at most one record per hash. It is
// nil both when no source has the hash and when none has it for system.
func (f *Facade) SearchByMD5(ctx context.Context, md5 string, system systems.ID) ([]romdata.ROMMetadata, error) {
	ctx = f.begin(ctx, "search_by_md5")
	merged, err := f.searchHash(ctx, md5, system)
	if err != nil {
		return nil, err
	}
	return filterSystems(merged, []systems.ID{system}), nil
}

// SearchByFilename returns merged records whose file name or title matches
// filename, best match first. When system is not systems.Unknown every
// result belongs to it.
func (f *Facade) SearchByFilename(ctx context.Context, filename string, system systems.ID) ([]romdata.ROMMetadata, error) {
	ctx = f.begin(ctx, "search_by_filename")
	return f.searchFilename(ctx, filename, []systems.ID{system})
}

// SearchByFilenameSystems is SearchByFilename over several systems: results
// for each are unioned and every result belongs to one of them. An empty
// list means no restriction.
func (f *Facade) SearchByFilenameSystems(ctx context.Context, filename string, ids []systems.ID) ([]romdata.ROMMetadata, error) {
	ctx = f.begin(ctx, "search_by_filename_systems")
	return f.searchFilename(ctx, filename, ids)
}

func (f *Facade) searchHash(ctx context.Context, md5 string, system systems.ID) ([]romdata.ROMMetadata, error) {
	if !romdata.IsMD5(md5) {
		return nil, nil
	}
	calls := make([]call[[]romdata.SourceRecord], 0, len(f.sources))
	for _, src := range f.sources {
		calls = append(calls, call[[]romdata.SourceRecord]{
			kind: src.Kind(),
			run: func(ctx context.Context) ([]romdata.SourceRecord, error) {
				return src.SearchByHash(ctx, md5, system)
			},
		})
	}
	return f.collectAndMerge(ctx, calls)
}

func (f *Facade) searchFilename(ctx context.Context, filename string, ids []systems.ID) ([]romdata.ROMMetadata, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, nil
	}
	requested := requestedSystems(ids)
	targets := requested
	if len(targets) == 0 {
		targets = []systems.ID{systems.Unknown}
	}

	calls := make([]call[[]romdata.SourceRecord], 0, len(f.sources)*len(targets))
	for _, src := range f.sources {
		for _, system := range targets {
			calls = append(calls, call[[]romdata.SourceRecord]{
				kind: src.Kind(),
				run: func(ctx context.Context) ([]romdata.SourceRecord, error) {
					return src.SearchByFilename(ctx, filename, system)
				},
			})
		}
	}
	merged, err := f.collectAndMerge(ctx, calls)
	if err != nil {
		return nil, err
	}
	merged = filterSystems(merged, requested)
	rankByName(filename, merged)
	return merged, nil
}

func (f *Facade) collectAndMerge(ctx context.Context, calls []call[[]romdata.SourceRecord]) ([]romdata.ROMMetadata, error) {
	outcomes, err := fanOut(ctx, f, calls)
	if err != nil {
		return nil, err
	}
	perSource := make(map[romdata.SourceKind][]romdata.SourceRecord)
	for _, o := range outcomes {
		if o.err != nil || len(o.value) == 0 {
			continue
		}
		perSource[o.kind] = append(perSource[o.kind], o.value...)
	}
	return merge.Merge(perSource, f.priority, f.systems), nil
}

// requestedSystems drops systems.Unknown and duplicates.
func requestedSystems(ids []systems.ID) []systems.ID {
	var out []systems.ID
	for _, id := range ids {
		if id == systems.Unknown || id == "" || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// filterSystems keeps records of the requested systems. An empty request
// keeps everything. It returns nil rather than an empty slice.
func filterSystems(records []romdata.ROMMetadata, ids []systems.ID) []romdata.ROMMetadata {
	ids = requestedSystems(ids)
	var out []romdata.ROMMetadata
	for _, rec := range records {
		if len(ids) == 0 || slices.Contains(ids, rec.SystemID) {
			out = append(out, rec)
		}
	}
	return out
}

// rankByName orders records by how well their file name or title matches
// query. Records keep merge order within equal scores.
func rankByName(query string, records []romdata.ROMMetadata) {
	if len(records) < 2 {
		return
	}
	type scored struct {
		rec   romdata.ROMMetadata
		match filematch.Match
	}
	ranked := make([]scored, len(records))
	for i, rec := range records {
		m := filematch.Score(query, rec.ROMFileName)
		if t := filematch.Score(query, rec.GameTitle); t.Tier > m.Tier || (t.Tier == m.Tier && t.Similarity > m.Similarity) {
			m = t
		}
		ranked[i] = scored{rec: rec, match: m}
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		if a.match.Tier != b.match.Tier {
			return int(b.match.Tier) - int(a.match.Tier)
		}
		switch {
		case a.match.Similarity > b.match.Similarity:
			return -1
		case a.match.Similarity < b.match.Similarity:
			return 1
		}
		return 0
	})
	for i := range ranked {
		records[i] = ranked[i].rec
	}
}
