package testsupport

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

// Hashes and names shared by the fixture databases.
const (
	PitfallAtariMD5     = "F73D2D0EFF548E8FC66996F27ACF2B4B"
	PitfallAtariCRC     = "03CF3B2F"
	PitfallAtari2MD5    = "3E90CF23106F2E08B2781E41299DE556"
	PitfallSNESMD5      = "02CAE4C360567CD228E4DC951BE6CB85"
	PitfallSNESFileName = "Pitfall - The Mayan Adventure (USA).sfc"
	PitfallSNESTitle    = "Pitfall: The Mayan Adventure"
	PitfallGenesisMD5   = "6A80D2D34CDFAFD03703B0FE76D10399"
	PitfallSegaCDMD5    = "C7658288B84A5F9521B5A19C0694D076"
	SonicCDMD5          = "1B8A4F6D4D3B2C1A0F9E8D7C6B5A4938"
	SonicCDFileName     = "Sonic CD (USA).cue"
	MarioNESMD5         = "811B027EAF99C2DEF7B933C5208636DE"
	BrokenRowMD5        = "00000000000000000000000000000001"
	PokemonRedMD5       = "3D45C1EE9ABD5738DF46D2BDDA8B57DC"
	PokemonRedFileName  = "Pokémon - Red Version (USA, Europe).gb"
	PokemonRedTitle     = "Pokémon Red Version"
)

// OpenVGDBROM is one ROMs row plus its primary release. SystemID 0 is
// stored as NULL.
type OpenVGDBROM struct {
	ROMID        int64
	SystemID     int
	RegionID     int
	MD5          string
	CRC          string
	FileName     string
	Serial       string
	Size         int64
	Language     string
	Title        string
	CoverFront   string
	CoverBack    string
	CoverCart    string
	Description  string
	Developer    string
	Publisher    string
	Genre        string
	Date         string
	ReferenceURL string
}

// OpenVGDBFixture returns the standard OpenVGDB rows.
func OpenVGDBFixture() []OpenVGDBROM {
	return []OpenVGDBROM{
		{
			ROMID: 81222, SystemID: 3, RegionID: 21, MD5: PitfallAtariMD5, CRC: PitfallAtariCRC,
			FileName: "Pitfall (1983) (CCE) (C-813).a26", Size: 4096, Title: "Pitfall",
			CoverFront: "https://gamefaqs.gamespot.com/a/box/5/8/1/58581_front.jpg",
			Developer:  "Activision", Publisher: "CCE", Date: "1983",
		},
		{
			ROMID: 45001, SystemID: 26, RegionID: 21, MD5: PitfallSNESMD5, CRC: "A4A1BDF6",
			FileName: PitfallSNESFileName, Serial: "SNS-PX-USA", Size: 2097152, Language: "En",
			Title:       PitfallSNESTitle,
			CoverFront:  "https://gamefaqs.gamespot.com/a/box/2/4/3/52243_front.jpg",
			CoverBack:   "https://gamefaqs.gamespot.com/a/box/2/4/3/52243_back.jpg",
			Description: "Pitfall Harry Jr. searches the Mayan jungle for his missing father.",
			Developer:   "Activision", Publisher: "Activision", Genre: "Action,Platformer", Date: "1994",
			ReferenceURL: "https://www.gamefaqs.com/snes/588469-pitfall-the-mayan-adventure",
		},
		{
			ROMID: 52001, SystemID: 33, RegionID: 21, MD5: PitfallGenesisMD5, CRC: "F917E34F",
			FileName: "Pitfall - The Mayan Adventure (USA).md", Title: PitfallSNESTitle,
			CoverFront: "https://gamefaqs.gamespot.com/a/box/7/1/1/55711_front.jpg",
		},
		{
			ROMID: 53001, SystemID: 32, RegionID: 21, MD5: PitfallSegaCDMD5,
			FileName: "Pitfall - The Mayan Adventure (USA).cue", Title: PitfallSNESTitle,
		},
		{
			ROMID: 53002, SystemID: 32, RegionID: 21, MD5: SonicCDMD5,
			FileName: SonicCDFileName, Title: "Sonic CD",
			CoverFront: "https://gamefaqs.gamespot.com/a/box/0/3/3/21033_front.jpg",
		},
		{
			ROMID: 30001, SystemID: 25, RegionID: 1, MD5: MarioNESMD5, CRC: "3337EC46",
			FileName: "Super Mario Bros. (World).nes", Title: "Super Mario Bros.",
		},
		{
			ROMID: 60001, SystemID: 19, RegionID: 21, MD5: PokemonRedMD5, CRC: "9F7FDD53",
			FileName: PokemonRedFileName, Size: 1048576, Language: "En", Title: PokemonRedTitle,
			Developer: "Game Freak", Publisher: "Nintendo", Genre: "Role-Playing", Date: "1998",
		},
		{
			ROMID: 99999, MD5: BrokenRowMD5, FileName: "Broken Row.bin", Title: "Broken Row",
		},
	}
}

// WriteOpenVGDB creates an OpenVGDB database at path holding roms.
func WriteOpenVGDB(t testing.TB, path string, roms []OpenVGDBROM) {
	t.Helper()
	db := createDB(t, path, `
		CREATE TABLE SYSTEMS (systemID INTEGER PRIMARY KEY, systemName TEXT, systemShortName TEXT);
		CREATE TABLE REGIONS (regionID INTEGER PRIMARY KEY, regionName TEXT);
		CREATE TABLE ROMs (
			romID INTEGER PRIMARY KEY, systemID INTEGER, regionID INTEGER,
			romHashCRC TEXT, romHashMD5 TEXT, romHashSHA1 TEXT, romSize INTEGER,
			romFileName TEXT, romExtensionlessFileName TEXT, romSerial TEXT, romLanguage TEXT);
		CREATE TABLE RELEASES (
			releaseID INTEGER PRIMARY KEY AUTOINCREMENT, romID INTEGER, releaseTitleName TEXT,
			releaseCoverFront TEXT, releaseCoverBack TEXT, releaseCoverCart TEXT,
			releaseDescription TEXT, releaseDeveloper TEXT, releasePublisher TEXT,
			releaseGenre TEXT, releaseDate TEXT, releaseReferenceURL TEXT);
		CREATE INDEX idx_roms_md5 ON ROMs (romHashMD5);
		INSERT INTO REGIONS (regionID, regionName) VALUES (1, 'World'), (13, 'Europe'), (16, 'Japan'), (21, 'USA');
		INSERT INTO SYSTEMS (systemID, systemName, systemShortName) VALUES
			(3, 'Atari 2600', '2600'), (19, 'Game Boy', 'GB'), (25, 'Nintendo Entertainment System', 'NES'),
			(26, 'Super Nintendo Entertainment System', 'SNES'), (32, 'Sega CD', 'SCD'),
			(33, 'Sega Genesis/Mega Drive', 'MD');`)
	defer db.Close()

	for _, rom := range roms {
		mustExec(t, db, `INSERT INTO ROMs (romID, systemID, regionID, romHashCRC, romHashMD5, romSize,
				romFileName, romExtensionlessFileName, romSerial, romLanguage)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rom.ROMID, nullInt(rom.SystemID), nullInt(rom.RegionID), nullString(rom.CRC), nullString(rom.MD5),
			rom.Size, nullString(rom.FileName), nullString(trimExt(rom.FileName)), nullString(rom.Serial), nullString(rom.Language))
		if rom.Title == "" {
			continue
		}
		mustExec(t, db, `INSERT INTO RELEASES (romID, releaseTitleName, releaseCoverFront, releaseCoverBack,
				releaseCoverCart, releaseDescription, releaseDeveloper, releasePublisher, releaseGenre,
				releaseDate, releaseReferenceURL)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rom.ROMID, rom.Title, nullString(rom.CoverFront), nullString(rom.CoverBack), nullString(rom.CoverCart),
			nullString(rom.Description), nullString(rom.Developer), nullString(rom.Publisher), nullString(rom.Genre),
			nullString(rom.Date), nullString(rom.ReferenceURL))
	}
}

// LibretroGame is one games row with its platform name and ROM dumps.
type LibretroGame struct {
	ID          int64
	Platform    string
	DisplayName string
	FullName    string
	Region      string
	Developer   string
	Publisher   string
	Genre       string
	ReleaseYear int
	Description string
	ROMs        []LibretroROM
}

// LibretroROM is one roms row.
type LibretroROM struct {
	Name   string
	MD5    string
	CRC    string
	Serial string
	Size   int64
}

// LibretroFixture returns the standard libretro-database rows. Hashes are
// stored lowercase as the libretro DATs carry them.
func LibretroFixture() []LibretroGame {
	return []LibretroGame{
		{
			ID: 10, Platform: "Nintendo - Super Nintendo Entertainment System",
			DisplayName: "Pitfall - The Mayan Adventure", FullName: "Pitfall - The Mayan Adventure (USA)",
			Region: "USA", Developer: "Activision", Publisher: "Activision", Genre: "Platform", ReleaseYear: 1994,
			ROMs: []LibretroROM{{Name: PitfallSNESFileName, MD5: strings.ToLower(PitfallSNESMD5), CRC: "a4a1bdf6", Serial: "SNS-PX-USA", Size: 2097152}},
		},
		{
			ID: 11, Platform: "Sega - Mega Drive - Genesis",
			DisplayName: "Pitfall - The Mayan Adventure", Region: "USA", ReleaseYear: 1994,
			ROMs: []LibretroROM{{Name: "Pitfall - The Mayan Adventure (USA).md", MD5: strings.ToLower(PitfallGenesisMD5), CRC: "f917e34f"}},
		},
		{
			ID: 12, Platform: "Sega - Mega-CD - Sega CD",
			DisplayName: "Pitfall - The Mayan Adventure", Region: "USA",
			ROMs: []LibretroROM{{Name: "Pitfall - The Mayan Adventure (USA).cue", MD5: strings.ToLower(PitfallSegaCDMD5)}},
		},
		{
			ID: 13, Platform: "Sega - Mega-CD - Sega CD",
			DisplayName: "Sonic CD", Region: "USA", Developer: "Sega", Publisher: "Sega", ReleaseYear: 1993,
			ROMs: []LibretroROM{{Name: SonicCDFileName, MD5: strings.ToLower(SonicCDMD5)}},
		},
		{
			ID: 14, Platform: "Atari - 2600",
			DisplayName: "Pitfall! - Pitfall Harry's Jungle Adventure", Region: "USA", Developer: "Activision",
			ROMs: []LibretroROM{{Name: "Pitfall! - Pitfall Harry's Jungle Adventure (USA).a26", MD5: strings.ToLower(PitfallAtari2MD5), CRC: "3e90cf23"}},
		},
		{
			ID: 16, Platform: "Nintendo - Game Boy",
			DisplayName: "Pokémon - Red Version", FullName: "Pokémon - Red Version (USA, Europe)",
			Region: "USA, Europe", Developer: "Game Freak", Publisher: "Nintendo", ReleaseYear: 1998,
			ROMs: []LibretroROM{{Name: PokemonRedFileName, MD5: strings.ToLower(PokemonRedMD5), CRC: "9f7fdd53", Size: 1048576}},
		},
		{
			ID: 15, Platform: "Imaginary - Pitfall Machine",
			DisplayName: "Pitfall Clone",
			ROMs:        []LibretroROM{{Name: "Pitfall Clone.bin", MD5: "9f9f9f9f9f9f9f9f9f9f9f9f9f9f9f9f"}},
		},
	}
}

// WriteLibretroDB creates a libretro-database export at path holding games.
func WriteLibretroDB(t testing.TB, path string, games []LibretroGame) {
	t.Helper()
	db := createDB(t, path, `
		CREATE TABLE platforms (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT UNIQUE);
		CREATE TABLE games (
			id INTEGER PRIMARY KEY, display_name TEXT, full_name TEXT, platform_id INTEGER,
			region TEXT, developer TEXT, publisher TEXT, genre TEXT, release_year INTEGER, description TEXT);
		CREATE TABLE roms (
			id INTEGER PRIMARY KEY AUTOINCREMENT, game_id INTEGER, name TEXT, md5 TEXT, crc TEXT,
			serial TEXT, size INTEGER);
		CREATE INDEX idx_roms_md5 ON roms (md5);`)
	defer db.Close()

	platforms := make(map[string]int64)
	for _, game := range games {
		var platformID any
		if game.Platform != "" {
			id, ok := platforms[game.Platform]
			if !ok {
				res := mustExec(t, db, `INSERT INTO platforms (name) VALUES (?)`, game.Platform)
				var err error
				if id, err = res.LastInsertId(); err != nil {
					t.Fatalf("platform id: %v", err)
				}
				platforms[game.Platform] = id
			}
			platformID = id
		}
		mustExec(t, db, `INSERT INTO games (id, display_name, full_name, platform_id, region, developer,
				publisher, genre, release_year, description)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			game.ID, nullString(game.DisplayName), nullString(game.FullName), platformID, nullString(game.Region),
			nullString(game.Developer), nullString(game.Publisher), nullString(game.Genre), nullInt(game.ReleaseYear),
			nullString(game.Description))
		for _, rom := range game.ROMs {
			mustExec(t, db, `INSERT INTO roms (game_id, name, md5, crc, serial, size) VALUES (?, ?, ?, ?, ?, ?)`,
				game.ID, nullString(rom.Name), nullString(rom.MD5), nullString(rom.CRC), nullString(rom.Serial), rom.Size)
		}
	}
}

// ShiraGameEntry is one game row with its ROM dumps. An empty Platform is
// stored as NULL.
type ShiraGameEntry struct {
	GameID       int64
	Platform     string
	EntryName    string
	ReleaseTitle string
	Region       string
	ROMs         []ShiraGameROM
}

// ShiraGameROM is one rom row.
type ShiraGameROM struct {
	FileName string
	MD5      string
	CRC      string
	SHA1     string
	Size     int64
}

// ShiraGameFixture returns the standard ShiraGame rows.
func ShiraGameFixture() []ShiraGameEntry {
	return []ShiraGameEntry{
		{
			GameID: 7807, Platform: "ATARI_2600", EntryName: "Pitfall! (CCE) (PAL-M) [!]",
			ReleaseTitle: "Pitfall!", Region: "ZZ",
			ROMs: []ShiraGameROM{{FileName: "Pitfall! (CCE) (PAL-M) [!].a26", MD5: strings.ToLower(PitfallAtariMD5), CRC: strings.ToLower(PitfallAtariCRC), Size: 4096}},
		},
		{
			GameID: 8100, Platform: "NINTENDO_SNES", EntryName: "Pitfall - The Mayan Adventure (USA)",
			ReleaseTitle: "Pitfall - The Mayan Adventure", Region: "US",
			ROMs: []ShiraGameROM{{FileName: PitfallSNESFileName, MD5: strings.ToLower(PitfallSNESMD5), CRC: "a4a1bdf6", Size: 2097152}},
		},
		{
			GameID: 8200, Platform: "SEGA_GENESIS", EntryName: "Pitfall - The Mayan Adventure (USA)",
			ReleaseTitle: "Pitfall - The Mayan Adventure", Region: "US",
			ROMs: []ShiraGameROM{{FileName: "Pitfall - The Mayan Adventure (USA).md", MD5: strings.ToLower(PitfallGenesisMD5)}},
		},
		{
			GameID: 8300, EntryName: "Orphan Pitfall",
			ROMs: []ShiraGameROM{{FileName: "Orphan Pitfall.bin", MD5: "abababababababababababababababab"}},
		},
	}
}

// WriteShiraGame creates a ShiraGame database at path holding entries.
func WriteShiraGame(t testing.TB, path string, entries []ShiraGameEntry) {
	t.Helper()
	db := createDB(t, path, `
		CREATE TABLE game (gameid INTEGER PRIMARY KEY, platformid TEXT, entryname TEXT, releasetitle TEXT, region TEXT);
		CREATE TABLE rom (filename TEXT, md5 TEXT, crc TEXT, sha1 TEXT, size INTEGER, gameid INTEGER);`)
	defer db.Close()

	for _, entry := range entries {
		mustExec(t, db, `INSERT INTO game (gameid, platformid, entryname, releasetitle, region) VALUES (?, ?, ?, ?, ?)`,
			entry.GameID, nullString(entry.Platform), nullString(entry.EntryName), nullString(entry.ReleaseTitle), nullString(entry.Region))
		for _, rom := range entry.ROMs {
			mustExec(t, db, `INSERT INTO rom (filename, md5, crc, sha1, size, gameid) VALUES (?, ?, ?, ?, ?, ?)`,
				nullString(rom.FileName), nullString(rom.MD5), nullString(rom.CRC), nullString(rom.SHA1), rom.Size, entry.GameID)
		}
	}
}

func createDB(t testing.TB, path, ddl string) *sql.DB {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	mustExec(t, db, ddl)
	return db
}

func mustExec(t testing.TB, db *sql.DB, query string, args ...any) sql.Result {
	t.Helper()
	res, err := db.Exec(query, args...)
	if err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
	return res
}

func nullString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullInt(value int) any {
	if value == 0 {
		return nil
	}
	return value
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
