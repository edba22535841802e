package lookup

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"romlookup/internal/logging"
	"romlookup/internal/romdata"
	"romlookup/internal/systems"
)

// SystemIdentifier resolves the system of a ROM. Sources are asked about md5
// first and the highest-priority answer wins. Failing that, the file
// extension decides when exactly one system claims it; when several do, a
// file name search restricted to those systems decides if it finds exactly
// one of them.
func (f *Facade) SystemIdentifier(ctx context.Context, md5, filename string) (systems.ID, bool, error) {
	ctx = f.begin(ctx, "system_identifier")

	if id, ok, err := f.systemFromHash(ctx, md5); err != nil || ok {
		return id, ok, err
	}

	filename = strings.TrimSpace(filename)
	if filename == "" {
		return systems.Unknown, false, nil
	}
	candidates := systems.ForExtension(filepath.Ext(filename))
	switch len(candidates) {
	case 0:
		return systems.Unknown, false, nil
	case 1:
		return candidates[0], true, nil
	}

	matches, err := f.searchFilename(ctx, filename, candidates)
	if err != nil {
		return systems.Unknown, false, err
	}
	var found []systems.ID
	for _, rom := range matches {
		if !slices.Contains(found, rom.SystemID) {
			found = append(found, rom.SystemID)
		}
	}
	if len(found) != 1 {
		logging.WithContext(ctx, f.logger).Debug("extension is ambiguous",
			logging.String("file", filename),
			logging.Int("candidates", len(candidates)),
			logging.Int("matched_systems", len(found)))
		return systems.Unknown, false, nil
	}
	logging.WithContext(ctx, f.logger).Debug("system resolved by file name",
		logging.String("file", filename),
		logging.System(found[0].String()))
	return found[0], true, nil
}

// OpenVGDBSystemID is SystemIdentifier expressed as OpenVGDB's numeric
// system ID.
func (f *Facade) OpenVGDBSystemID(ctx context.Context, md5, filename string) (int, bool, error) {
	id, ok, err := f.SystemIdentifier(ctx, md5, filename)
	if err != nil || !ok {
		return 0, false, err
	}
	n, ok := f.systems.OpenVGDBID(id)
	return n, ok, nil
}

func (f *Facade) systemFromHash(ctx context.Context, md5 string) (systems.ID, bool, error) {
	if !romdata.IsMD5(md5) {
		return systems.Unknown, false, nil
	}
	type answer struct {
		id systems.ID
		ok bool
	}
	calls := make([]call[answer], 0, len(f.sources))
	for _, src := range f.sources {
		calls = append(calls, call[answer]{
			kind: src.Kind(),
			run: func(ctx context.Context) (answer, error) {
				id, ok, err := src.SystemIdentifier(ctx, md5)
				return answer{id: id, ok: ok}, err
			},
		})
	}
	outcomes, err := fanOut(ctx, f, calls)
	if err != nil {
		return systems.Unknown, false, err
	}
	for _, o := range outcomes {
		if o.err == nil && o.value.ok && o.value.id != systems.Unknown {
			return o.value.id, true, nil
		}
	}
	return systems.Unknown, false, nil
}
