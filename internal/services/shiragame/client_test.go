package shiragame_test

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"romlookup/internal/logging"
	"romlookup/internal/refdb"
	"romlookup/internal/romdata"
	"romlookup/internal/services"
	"romlookup/internal/services/shiragame"
	"romlookup/internal/systems"
	"romlookup/internal/testsupport"
)

func openFixture(t *testing.T) *shiragame.Client {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shiragame.sqlite3")
	testsupport.WriteShiraGame(t, path, testsupport.ShiraGameFixture())
	client, err := shiragame.Open(context.Background(), path, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSearchByHash(t *testing.T) {
	client := openFixture(t)
	ctx := context.Background()

	records, err := client.SearchByHash(ctx, testsupport.PitfallAtariMD5, systems.Unknown)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Pitfall! (CCE) (PAL-M) [!]", records[0].Title)
	assert.Equal(t, "ATARI_2600", records[0].NativeSystem)
	assert.Equal(t, "Pitfall! (CCE) (PAL-M) [!].a26", records[0].FileName)
	assert.Equal(t, "03cf3b2f", records[0].CRC)
	assert.Equal(t, "ZZ", records[0].Region)

	records, err = client.SearchByHash(ctx, testsupport.PitfallAtariMD5, systems.Atari2600)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	records, err = client.SearchByHash(ctx, testsupport.PitfallAtariMD5, systems.SNES)
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = client.SearchByHash(ctx, "abababababababababababababababab", systems.Unknown)
	require.NoError(t, err)
	assert.Empty(t, records, "rows without a platform are skipped")
}

func TestSearchByFilename(t *testing.T) {
	client := openFixture(t)
	ctx := context.Background()

	records, err := client.SearchByFilename(ctx, "Pitfall! (CCE) (PAL-M) [!].a26", systems.Unknown)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "ATARI_2600", records[0].NativeSystem, "exact file name ranks first")

	records, err = client.SearchByFilename(ctx, "Mayan Adventure", systems.SNES)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, testsupport.PitfallSNESFileName, records[0].FileName)

	_, err = client.SearchByFilename(ctx, "Pitfall", systems.ID("pdp11"))
	assert.True(t, errors.Is(err, services.ErrInvalidIdentifier))
}

func TestSystemIdentifier(t *testing.T) {
	client := openFixture(t)

	id, ok, err := client.SystemIdentifier(context.Background(), testsupport.PitfallGenesisMD5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, systems.Genesis, id)

	_, ok, err = client.SystemIdentifier(context.Background(), testsupport.SonicCDMD5)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArtworkURLsEmpty(t *testing.T) {
	client := openFixture(t)
	urls, err := client.ArtworkURLs(context.Background(), romdata.ROMMetadata{
		GameTitle: "Pitfall!",
		SystemID:  systems.Atari2600,
		MD5:       testsupport.PitfallAtariMD5,
	})
	require.NoError(t, err)
	assert.Empty(t, urls)
}

var indexColumns = []string{"rowid", "filename", "md5", "crc", "size", "platformid", "entryname", "releasetitle", "region"}

func expectSchema(mock sqlmock.Sqlmock) {
	for _, table := range shiragame.Schema {
		rows := sqlmock.NewRows([]string{"cid", "name", "type", "notnull", "dflt_value", "pk"})
		for i, column := range table.Columns {
			rows.AddRow(i, column, "TEXT", 0, nil, 0)
		}
		mock.ExpectQuery(regexp.QuoteMeta(`PRAGMA table_info("` + table.Name + `")`)).WillReturnRows(rows)
	}
}

func TestIndexBuiltOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	expectSchema(mock)
	mock.ExpectQuery(`(?s)SELECT r.rowid.*FROM rom r LEFT JOIN game g`).WillReturnRows(
		sqlmock.NewRows(indexColumns).
			AddRow(1, "Pitfall! (CCE) (PAL-M) [!].a26", "f73d2d0eff548e8fc66996f27acf2b4b", "03cf3b2f", 4096, "ATARI_2600", "Pitfall! (CCE) (PAL-M) [!]", "Pitfall!", "ZZ"))

	client := shiragame.New(refdb.New(romdata.SourceShiraGame, "mock", db, shiragame.Schema...), nil)
	ctx := context.Background()
	for range 3 {
		records, err := client.SearchByHash(ctx, testsupport.PitfallAtariMD5, systems.Unknown)
		require.NoError(t, err)
		require.Len(t, records, 1)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIndexBuildRetriedAfterFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	expectSchema(mock)
	mock.ExpectQuery(`(?s)SELECT r.rowid.*FROM rom r`).WillReturnError(errors.New("disk I/O error"))
	mock.ExpectQuery(`(?s)SELECT r.rowid.*FROM rom r`).WillReturnRows(
		sqlmock.NewRows(indexColumns).
			AddRow(1, "Pitfall - The Mayan Adventure (USA).md", "6a80d2d34cdfafd03703b0fe76d10399", nil, nil, "SEGA_GENESIS", "Pitfall - The Mayan Adventure (USA)", nil, "US"))

	client := shiragame.New(refdb.New(romdata.SourceShiraGame, "mock", db, shiragame.Schema...), nil)
	ctx := context.Background()

	_, _, err = client.SystemIdentifier(ctx, testsupport.PitfallGenesisMD5)
	require.Error(t, err)
	assert.True(t, services.IsNoOpinion(err))

	id, ok, err := client.SystemIdentifier(ctx, testsupport.PitfallGenesisMD5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, systems.Genesis, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}
