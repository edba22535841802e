package romdata

import (
	"fmt"
	"strings"
)

// SourceKind names a reference database.
type SourceKind string

const (
	SourceOpenVGDB   SourceKind = "openvgdb"
	SourceLibretroDB SourceKind = "libretrodb"
	SourceShiraGame  SourceKind = "shiragame"
)

// DefaultPriority is the field-level merge precedence: the curated metadata
// database first, then the community hash database, then the dat-derived one.
var DefaultPriority = []SourceKind{SourceOpenVGDB, SourceLibretroDB, SourceShiraGame}

func (k SourceKind) String() string {
	return string(k)
}

// ParseSourceKind parses a configured source name.
func ParseSourceKind(value string) (SourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "openvgdb":
		return SourceOpenVGDB, nil
	case "libretrodb", "libretro":
		return SourceLibretroDB, nil
	case "shiragame", "shira":
		return SourceShiraGame, nil
	default:
		return "", fmt.Errorf("unknown source %q", value)
	}
}

// SourceRecord is a result row in the shape a reference database returns it.
// NativeSystem holds the database's own system key; fields the database does
// not track are left empty.
type SourceRecord struct {
	Source       SourceKind
	NativeSystem string

	Title    string
	FileName string
	MD5      string
	CRC      string
	Region   string
	RegionID int

	Serial       string
	Size         int64
	Language     string
	Developer    string
	Publisher    string
	Genres       string
	ReleaseDate  string
	Description  string
	BoxFrontURL  string
	BoxBackURL   string
	ReferenceURL string
}

// Key returns the normalized MD5 used for identity comparison.
func (r SourceRecord) Key() string {
	return NormalizeHash(r.MD5)
}

// NormalizeHash uppercases and trims a hex digest for comparison.
func NormalizeHash(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// IsMD5 reports whether value looks like a full MD5 hex digest.
func IsMD5(value string) bool {
	value = strings.TrimSpace(value)
	if len(value) != 32 {
		return false
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
