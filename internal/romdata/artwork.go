package romdata

import (
	"maps"

	"romlookup/internal/systems"
)

// ArtworkEntry is the bulk-metadata row backing the artwork mapping tables.
type ArtworkEntry struct {
	MD5         string     `json:"md5"`
	FileName    string     `json:"file_name"`
	Title       string     `json:"title"`
	SystemID    systems.ID `json:"system_id"`
	BoxFrontURL string     `json:"box_front_url,omitempty"`
	BoxBackURL  string     `json:"box_back_url,omitempty"`
	Description string     `json:"description,omitempty"`
}

// ArtworkMapping indexes artwork entries by upper-case MD5 and maps ROM
// filenames to the MD5 key of their entry.
type ArtworkMapping struct {
	ROMMD5           map[string]ArtworkEntry `json:"rom_md5"`
	ROMFileNameToMD5 map[string]string       `json:"rom_file_name_to_md5"`
}

// NewArtworkMapping indexes entries. Entries without an MD5 are skipped; when
// two entries share an MD5 the first one wins.
func NewArtworkMapping(entries []ArtworkEntry) *ArtworkMapping {
	mapping := &ArtworkMapping{
		ROMMD5:           make(map[string]ArtworkEntry, len(entries)),
		ROMFileNameToMD5: make(map[string]string, len(entries)),
	}
	for _, entry := range entries {
		key := NormalizeHash(entry.MD5)
		if key == "" {
			continue
		}
		if _, exists := mapping.ROMMD5[key]; !exists {
			mapping.ROMMD5[key] = entry
		}
		if entry.FileName != "" {
			if _, exists := mapping.ROMFileNameToMD5[entry.FileName]; !exists {
				mapping.ROMFileNameToMD5[entry.FileName] = key
			}
		}
	}
	return mapping
}

// Clone returns a copy with its own tables.
func (m *ArtworkMapping) Clone() *ArtworkMapping {
	if m == nil {
		return nil
	}
	return &ArtworkMapping{
		ROMMD5:           maps.Clone(m.ROMMD5),
		ROMFileNameToMD5: maps.Clone(m.ROMFileNameToMD5),
	}
}

// ByMD5 looks up an entry by hash, case-insensitively.
func (m *ArtworkMapping) ByMD5(md5 string) (ArtworkEntry, bool) {
	if m == nil {
		return ArtworkEntry{}, false
	}
	entry, ok := m.ROMMD5[NormalizeHash(md5)]
	return entry, ok
}

// ByFileName looks up an entry by exact ROM filename.
func (m *ArtworkMapping) ByFileName(name string) (ArtworkEntry, bool) {
	if m == nil {
		return ArtworkEntry{}, false
	}
	key, ok := m.ROMFileNameToMD5[name]
	if !ok {
		return ArtworkEntry{}, false
	}
	entry, ok := m.ROMMD5[key]
	return entry, ok
}
