package config

const (
	defaultDataDir           = "~/.local/share/romlookup"
	defaultOpenVGDBFile      = "openvgdb.sqlite"
	defaultLibretroDBFile    = "libretrodb.sqlite"
	defaultShiraGameFile     = "shiragame.sqlite3"
	defaultThumbnailsBaseURL = "https://thumbnails.libretro.com"
	defaultRequestTimeout    = 30
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

var (
	defaultThumbnailKinds = []string{"Named_Boxarts", "Named_Snaps", "Named_Titles"}
	defaultPriority       = []string{"openvgdb", "libretrodb", "shiragame"}
)

// Default returns a Config populated with repository defaults. Database paths
// are left empty and resolved against the data directory during Load.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		OpenVGDB: OpenVGDB{
			Enabled: true,
		},
		LibretroDB: LibretroDB{
			Enabled:           true,
			ThumbnailsBaseURL: defaultThumbnailsBaseURL,
			ThumbnailKinds:    append([]string(nil), defaultThumbnailKinds...),
		},
		ShiraGame: ShiraGame{
			Enabled: true,
		},
		Lookup: Lookup{
			Priority:       append([]string(nil), defaultPriority...),
			RequestTimeout: defaultRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
