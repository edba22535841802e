package romdata

import "romlookup/internal/systems"

// ROMMetadata is the canonical, merged description of one ROM image.
// Empty strings and zero values mean the field is absent. MD5 and CRC keep the
// case of the source that supplied them; compare them with NormalizeHash.
type ROMMetadata struct {
	GameTitle   string     `json:"game_title"`
	SystemID    systems.ID `json:"system_id"`
	ROMFileName string     `json:"rom_file_name,omitempty"`
	MD5         string     `json:"md5,omitempty"`
	CRC         string     `json:"crc,omitempty"`
	Region      string     `json:"region,omitempty"`
	RegionID    int        `json:"region_id,omitempty"`
	Source      SourceKind `json:"source,omitempty"`

	Sources      []SourceKind `json:"sources,omitempty"`
	Serial       string       `json:"serial,omitempty"`
	ROMSize      int64        `json:"rom_size,omitempty"`
	Language     string       `json:"language,omitempty"`
	Developer    string       `json:"developer,omitempty"`
	Publisher    string       `json:"publisher,omitempty"`
	Genres       string       `json:"genres,omitempty"`
	ReleaseDate  string       `json:"release_date,omitempty"`
	Description  string       `json:"description,omitempty"`
	BoxFrontURL  string       `json:"box_front_url,omitempty"`
	BoxBackURL   string       `json:"box_back_url,omitempty"`
	ReferenceURL string       `json:"reference_url,omitempty"`
}

// Key returns the normalized MD5 used for identity comparison.
func (m ROMMetadata) Key() string {
	return NormalizeHash(m.MD5)
}
