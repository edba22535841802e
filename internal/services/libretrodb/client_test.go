package libretrodb_test

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"romlookup/internal/logging"
	"romlookup/internal/refdb"
	"romlookup/internal/romdata"
	"romlookup/internal/services"
	"romlookup/internal/services/libretrodb"
	"romlookup/internal/systems"
	"romlookup/internal/testsupport"
)

const snesPlatform = "Nintendo - Super Nintendo Entertainment System"

func openFixture(t *testing.T, opts ...libretrodb.Option) *libretrodb.Client {
	t.Helper()
	path := filepath.Join(t.TempDir(), "libretrodb.sqlite")
	testsupport.WriteLibretroDB(t, path, testsupport.LibretroFixture())
	client, err := libretrodb.Open(context.Background(), path, logging.NewNop(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSearchByHash(t *testing.T) {
	client := openFixture(t)
	ctx := context.Background()

	records, err := client.SearchByHash(ctx, testsupport.PitfallSNESMD5, systems.Unknown)
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, romdata.SourceLibretroDB, rec.Source)
	assert.Equal(t, snesPlatform, rec.NativeSystem)
	assert.Equal(t, "Pitfall - The Mayan Adventure", rec.Title)
	assert.Equal(t, testsupport.PitfallSNESFileName, rec.FileName)
	assert.Equal(t, "1994", rec.ReleaseDate)
	assert.Equal(t, "SNS-PX-USA", rec.Serial)
	assert.Equal(t, int64(2097152), rec.Size)

	records, err = client.SearchByHash(ctx, testsupport.PitfallSNESMD5, systems.SNES)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	records, err = client.SearchByHash(ctx, testsupport.PitfallSNESMD5, systems.Genesis)
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = client.SearchByHash(ctx, "not-a-hash", systems.Unknown)
	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestSearchByHashUnsupportedSystem(t *testing.T) {
	client := openFixture(t)
	_, err := client.SearchByHash(context.Background(), testsupport.PitfallSNESMD5, systems.ID("pdp11"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrInvalidIdentifier))
	assert.True(t, services.IsNoOpinion(err))
}

func TestSearchByFilename(t *testing.T) {
	client := openFixture(t)
	ctx := context.Background()

	records, err := client.SearchByFilename(ctx, "Pitfall", systems.Atari2600)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Pitfall! - Pitfall Harry's Jungle Adventure (USA).a26", records[0].FileName)
	assert.Equal(t, "Atari - 2600", records[0].NativeSystem)

	records, err = client.SearchByFilename(ctx, "Pitfall", systems.Unknown)
	require.NoError(t, err)
	require.Len(t, records, 5)
	platforms := make(map[string]bool)
	for _, rec := range records {
		platforms[rec.NativeSystem] = true
		assert.NotEqual(t, "Sonic CD", rec.Title)
	}
	// Records are returned in the database's own vocabulary; unknown
	// platforms are dropped later, when results are merged.
	assert.True(t, platforms["Imaginary - Pitfall Machine"])

	records, err = client.SearchByFilename(ctx, "   ", systems.Unknown)
	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestSearchByFilenameAccentedNames(t *testing.T) {
	client := openFixture(t)
	ctx := context.Background()

	for _, query := range []string{
		testsupport.PokemonRedFileName,
		"Pokémon - Red Version",
		"Pokemon - Red Version",
		"pokémon",
		"Pokemon",
	} {
		records, err := client.SearchByFilename(ctx, query, systems.GameBoy)
		require.NoError(t, err, query)
		require.Len(t, records, 1, query)
		assert.Equal(t, testsupport.PokemonRedFileName, records[0].FileName)
		assert.Equal(t, "Nintendo - Game Boy", records[0].NativeSystem)
		assert.Equal(t, "USA, Europe", records[0].Region)
	}

	records, err := client.SearchByFilename(ctx, "Pokemon", systems.SNES)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHashLookupsUseStoredCase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for _, table := range libretrodb.Schema {
		rows := sqlmock.NewRows([]string{"cid", "name", "type", "notnull", "dflt_value", "pk"})
		for i, column := range table.Columns {
			rows.AddRow(i, column, "TEXT", 0, nil, 0)
		}
		mock.ExpectQuery(regexp.QuoteMeta(`PRAGMA table_info("` + table.Name + `")`)).WillReturnRows(rows)
	}
	lower := strings.ToLower(testsupport.PokemonRedMD5)
	mock.ExpectQuery(`(?s)FROM roms r.*WHERE r\.md5 = \? ORDER BY r\.id`).
		WithArgs(lower).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`(?s)WHERE r\.md5 = \? AND p\.name IS NOT NULL`).
		WithArgs(lower).
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	client := libretrodb.New(refdb.New(romdata.SourceLibretroDB, "mock", db, libretrodb.Schema...), nil)
	records, err := client.SearchByHash(context.Background(), testsupport.PokemonRedMD5, systems.Unknown)
	require.NoError(t, err)
	assert.Empty(t, records)

	_, ok, err := client.SystemIdentifier(context.Background(), " "+testsupport.PokemonRedMD5)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSystemIdentifier(t *testing.T) {
	client := openFixture(t)
	ctx := context.Background()

	id, ok, err := client.SystemIdentifier(ctx, testsupport.PitfallSegaCDMD5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, systems.SegaCD, id)

	_, ok, err = client.SystemIdentifier(ctx, "9f9f9f9f9f9f9f9f9f9f9f9f9f9f9f9f")
	require.NoError(t, err)
	assert.False(t, ok, "unmapped platform must not resolve")

	_, ok, err = client.SystemIdentifier(ctx, testsupport.MarioNESMD5)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArtworkURLs(t *testing.T) {
	client := openFixture(t)
	ctx := context.Background()

	urls, err := client.ArtworkURLs(ctx, romdata.ROMMetadata{SystemID: systems.SNES, MD5: testsupport.PitfallSNESMD5})
	require.NoError(t, err)
	require.Len(t, urls, 3)
	assert.Equal(t,
		"https://thumbnails.libretro.com/Nintendo%20-%20Super%20Nintendo%20Entertainment%20System/Named_Boxarts/Pitfall%20-%20The%20Mayan%20Adventure%20(USA).png",
		urls[0].String())
	assert.Contains(t, urls[1].String(), "/Named_Snaps/")
	assert.Contains(t, urls[2].String(), "/Named_Titles/")

	urls, err = client.ArtworkURLs(ctx, romdata.ROMMetadata{GameTitle: testsupport.PitfallSNESTitle, SystemID: systems.SNES})
	require.NoError(t, err)
	require.NotEmpty(t, urls)
	assert.Contains(t, urls[0].String(), "/Pitfall_%20The%20Mayan%20Adventure.png")

	urls, err = client.ArtworkURLs(ctx, romdata.ROMMetadata{GameTitle: "Pitfall", SystemID: systems.Unknown})
	require.NoError(t, err)
	assert.Nil(t, urls)

	urls, err = client.ArtworkURLs(ctx, romdata.ROMMetadata{SystemID: systems.GameBoy, MD5: testsupport.PokemonRedMD5})
	require.NoError(t, err)
	require.Len(t, urls, 3)
	assert.Equal(t, "/Nintendo - Game Boy/Named_Boxarts/Pokémon - Red Version (USA, Europe).png", urls[0].Path)

	urls, err = client.ArtworkURLs(ctx, romdata.ROMMetadata{SystemID: systems.SNES, MD5: "12344453465345"})
	require.NoError(t, err)
	assert.Nil(t, urls)
}

func TestArtworkURLsCustomServer(t *testing.T) {
	client := openFixture(t, libretrodb.WithThumbnails("https://example.org/thumbs/", []string{"Named_Boxarts"}))

	urls, err := client.ArtworkURLs(context.Background(), romdata.ROMMetadata{
		GameTitle:   "Sonic CD",
		SystemID:    systems.SegaCD,
		ROMFileName: testsupport.SonicCDFileName,
		MD5:         "c7658288",
	})
	require.NoError(t, err)
	require.Len(t, urls, 1)
	assert.Equal(t, "https://example.org/thumbs/Sega%20-%20Mega-CD%20-%20Sega%20CD/Named_Boxarts/Sonic%20CD%20(USA).png", urls[0].String())
}
