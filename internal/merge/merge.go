package merge

import (
	"slices"
	"strconv"
	"strings"

	"romlookup/internal/filematch"
	"romlookup/internal/language"
	"romlookup/internal/romdata"
	"romlookup/internal/systems"
)

// Resolver maps a source-native system key to the canonical identifier.
type Resolver interface {
	Canonical(kind romdata.SourceKind, native string) (systems.ID, bool)
}

type member struct {
	meta    romdata.ROMMetadata
	kind    romdata.SourceKind
	md5     string
	nameKey string
	group   string
}

// Normalize converts a source record to canonical form. It fails when the
// record's system cannot be resolved.
func Normalize(kind romdata.SourceKind, rec romdata.SourceRecord, resolver Resolver) (romdata.ROMMetadata, bool) {
	if resolver == nil {
		return romdata.ROMMetadata{}, false
	}
	id, ok := resolver.Canonical(kind, rec.NativeSystem)
	if !ok || id == systems.Unknown {
		return romdata.ROMMetadata{}, false
	}
	return romdata.ROMMetadata{
		GameTitle:    strings.TrimSpace(rec.Title),
		SystemID:     id,
		ROMFileName:  strings.TrimSpace(rec.FileName),
		MD5:          strings.TrimSpace(rec.MD5),
		CRC:          strings.TrimSpace(rec.CRC),
		Region:       strings.TrimSpace(rec.Region),
		RegionID:     rec.RegionID,
		Source:       kind,
		Sources:      []romdata.SourceKind{kind},
		Serial:       strings.TrimSpace(rec.Serial),
		ROMSize:      rec.Size,
		Language:     language.Normalize(rec.Language),
		Developer:    strings.TrimSpace(rec.Developer),
		Publisher:    strings.TrimSpace(rec.Publisher),
		Genres:       strings.TrimSpace(rec.Genres),
		ReleaseDate:  strings.TrimSpace(rec.ReleaseDate),
		Description:  strings.TrimSpace(rec.Description),
		BoxFrontURL:  strings.TrimSpace(rec.BoxFrontURL),
		BoxBackURL:   strings.TrimSpace(rec.BoxBackURL),
		ReferenceURL: strings.TrimSpace(rec.ReferenceURL),
	}, true
}

// Merge combines per-source results. Sources missing from priority are
// consulted after the listed ones, in name order. It returns nil when no
// source contributed a resolvable record.
func Merge(perSource map[romdata.SourceKind][]romdata.SourceRecord, priority []romdata.SourceKind, resolver Resolver) []romdata.ROMMetadata {
	members := collect(perSource, Order(priority, perSource), resolver)
	if len(members) == 0 {
		return nil
	}
	assignGroups(members)

	groups := make(map[string][]*member)
	var order []string
	for _, m := range members {
		if _, seen := groups[m.group]; !seen {
			order = append(order, m.group)
		}
		groups[m.group] = append(groups[m.group], m)
	}

	out := make([]romdata.ROMMetadata, 0, len(order))
	for _, key := range order {
		out = append(out, combine(groups[key]))
	}
	return out
}

// Order returns the effective source order for a result set.
func Order(priority []romdata.SourceKind, perSource map[romdata.SourceKind][]romdata.SourceRecord) []romdata.SourceKind {
	order := make([]romdata.SourceKind, 0, len(perSource))
	for _, kind := range priority {
		if !slices.Contains(order, kind) {
			order = append(order, kind)
		}
	}
	var extra []romdata.SourceKind
	for kind := range perSource {
		if !slices.Contains(order, kind) {
			extra = append(extra, kind)
		}
	}
	slices.Sort(extra)
	return append(order, extra...)
}

func collect(perSource map[romdata.SourceKind][]romdata.SourceRecord, order []romdata.SourceKind, resolver Resolver) []*member {
	var members []*member
	for _, kind := range order {
		for _, rec := range perSource[kind] {
			meta, ok := Normalize(kind, rec, resolver)
			if !ok {
				continue
			}
			members = append(members, &member{
				meta:    meta,
				kind:    kind,
				md5:     meta.Key(),
				nameKey: nameKey(meta),
			})
		}
	}
	return members
}

// assignGroups keys hashed records by MD5. A record without a hash joins the
// hashed group with the same system and filename when exactly one exists;
// otherwise it is grouped with other unhashed records of that name.
func assignGroups(members []*member) {
	hashedByName := make(map[string][]string)
	for _, m := range members {
		if m.md5 == "" {
			continue
		}
		m.group = "md5:" + m.md5
		if m.nameKey != "" && !slices.Contains(hashedByName[m.nameKey], m.md5) {
			hashedByName[m.nameKey] = append(hashedByName[m.nameKey], m.md5)
		}
	}
	for i, m := range members {
		if m.md5 != "" {
			continue
		}
		if m.nameKey == "" {
			m.group = "row:" + strconv.Itoa(i)
			continue
		}
		if hashes := hashedByName[m.nameKey]; len(hashes) == 1 {
			m.group = "md5:" + hashes[0]
			continue
		}
		m.group = "name:" + m.nameKey
	}
}

func nameKey(meta romdata.ROMMetadata) string {
	name := meta.ROMFileName
	if name == "" {
		name = meta.GameTitle
	}
	name = strings.ToLower(filematch.BaseName(name))
	if name == "" {
		return ""
	}
	return string(meta.SystemID) + "|" + name
}

func combine(group []*member) romdata.ROMMetadata {
	out := romdata.ROMMetadata{SystemID: systems.Unknown}
	for _, m := range group {
		src := m.meta
		if out.Source == "" {
			out.Source = m.kind
		}
		if !slices.Contains(out.Sources, m.kind) {
			out.Sources = append(out.Sources, m.kind)
		}
		if out.SystemID == systems.Unknown {
			out.SystemID = src.SystemID
		}
		fill(&out.GameTitle, src.GameTitle)
		fill(&out.ROMFileName, src.ROMFileName)
		fill(&out.MD5, src.MD5)
		fill(&out.CRC, src.CRC)
		fill(&out.Region, src.Region)
		if out.RegionID == 0 {
			out.RegionID = src.RegionID
		}
		fill(&out.Serial, src.Serial)
		if out.ROMSize == 0 {
			out.ROMSize = src.ROMSize
		}
		fill(&out.Language, src.Language)
		fill(&out.Developer, src.Developer)
		fill(&out.Publisher, src.Publisher)
		fill(&out.Genres, src.Genres)
		fill(&out.ReleaseDate, src.ReleaseDate)
		fill(&out.Description, src.Description)
		fill(&out.BoxFrontURL, src.BoxFrontURL)
		fill(&out.BoxBackURL, src.BoxBackURL)
		fill(&out.ReferenceURL, src.ReferenceURL)
	}
	return out
}

func fill(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}
