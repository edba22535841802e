package openvgdb

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"strings"

	"romlookup/internal/filematch"
	"romlookup/internal/logging"
	"romlookup/internal/refdb"
	"romlookup/internal/romdata"
	"romlookup/internal/services"
	"romlookup/internal/sysmap"
	"romlookup/internal/systems"
)

const kind = romdata.SourceOpenVGDB

// Schema lists the tables and columns the client reads.
var Schema = []refdb.Table{
	{Name: "ROMs", Columns: []string{
		"romID", "systemID", "regionID", "romHashCRC", "romHashMD5",
		"romFileName", "romSerial", "romSize", "romLanguage",
	}},
	{Name: "RELEASES", Columns: []string{
		"releaseID", "romID", "releaseTitleName", "releaseCoverFront", "releaseCoverBack",
		"releaseCoverCart", "releaseDescription", "releaseDeveloper", "releasePublisher",
		"releaseGenre", "releaseDate", "releaseReferenceURL",
	}},
	{Name: "REGIONS", Columns: []string{"regionID", "regionName"}},
}

const recordColumns = `r.romID, r.systemID, r.regionID, g.regionName, r.romHashCRC, r.romHashMD5,
	r.romFileName, r.romSerial, r.romSize, r.romLanguage,
	rel.releaseTitleName, rel.releaseCoverFront, rel.releaseCoverBack, rel.releaseDescription,
	rel.releaseDeveloper, rel.releasePublisher, rel.releaseGenre, rel.releaseDate, rel.releaseReferenceURL`

// A ROM may have several releases; the lowest releaseID is treated as primary.
const recordFrom = `FROM ROMs r
	LEFT JOIN RELEASES rel ON rel.releaseID = (
		SELECT MIN(x.releaseID) FROM RELEASES x WHERE x.romID = r.romID)
	LEFT JOIN REGIONS g ON g.regionID = r.regionID`

// Client answers lookups from one OpenVGDB file.
type Client struct {
	db      *refdb.DB
	systems *sysmap.Map
	logger  *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithSystemMap overrides the canonical system table.
func WithSystemMap(m *sysmap.Map) Option {
	return func(c *Client) {
		if m != nil {
			c.systems = m
		}
	}
}

// New wraps an open database handle.
func New(db *refdb.DB, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		db:      db,
		systems: sysmap.Default(),
		logger:  logging.NewComponentLogger(logger, string(kind)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open opens the database file at path read-only.
func Open(ctx context.Context, path string, logger *slog.Logger, opts ...Option) (*Client, error) {
	db, err := refdb.Open(ctx, kind, path, Schema...)
	if err != nil {
		return nil, err
	}
	return New(db, logger, opts...), nil
}

// Kind identifies the source.
func (c *Client) Kind() romdata.SourceKind { return kind }

// Check verifies the database schema.
func (c *Client) Check(ctx context.Context) error { return c.db.Verify(ctx) }

// Close releases the database handle.
func (c *Client) Close() error { return c.db.Close() }

// SearchByHash returns the ROMs whose MD5 equals md5, optionally restricted
// to one system. A value that is not an MD5 digest matches nothing.
func (c *Client) SearchByHash(ctx context.Context, md5 string, system systems.ID) ([]romdata.SourceRecord, error) {
	const op = "search_hash"
	ctx = annotate(ctx, op)
	md5 = romdata.NormalizeHash(md5)
	if !romdata.IsMD5(md5) {
		return nil, nil
	}

	query := "SELECT " + recordColumns + " " + recordFrom + " WHERE r.romHashMD5 = ?"
	args := []any{md5}
	if system != systems.Unknown {
		native, err := c.nativeSystem(system, op)
		if err != nil {
			return nil, err
		}
		query += " AND r.systemID = ?"
		args = append(args, native)
	}
	query += " ORDER BY r.romID"

	return c.queryRecords(ctx, op, query, args...)
}

// SearchByFilename returns the ROMs whose file name or release title matches
// filename, best match first.
func (c *Client) SearchByFilename(ctx context.Context, filename string, system systems.ID) ([]romdata.SourceRecord, error) {
	const op = "search_filename"
	ctx = annotate(ctx, op)
	if strings.TrimSpace(filename) == "" {
		return nil, nil
	}

	var (
		where []string
		args  []any
	)
	if system != systems.Unknown {
		native, err := c.nativeSystem(system, op)
		if err != nil {
			return nil, err
		}
		where = append(where, "r.systemID = ?")
		args = append(args, native)
	}
	if term, ok := filematch.SearchTerm(filename); ok {
		pattern := "%" + term + "%"
		where = append(where, "(r.romFileName LIKE ? OR rel.releaseTitleName LIKE ?)")
		args = append(args, pattern, pattern)
	}

	query := "SELECT " + recordColumns + " " + recordFrom
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY r.romID"

	records, err := c.queryRecords(ctx, op, query, args...)
	if err != nil {
		return nil, err
	}
	return filematch.Filter(filename, records, candidateName), nil
}

// SystemIdentifier resolves the canonical system of the ROM with the given
// MD5 without fetching its metadata.
func (c *Client) SystemIdentifier(ctx context.Context, md5 string) (systems.ID, bool, error) {
	const op = "system_identifier"
	ctx = annotate(ctx, op)
	md5 = romdata.NormalizeHash(md5)
	if !romdata.IsMD5(md5) {
		return systems.Unknown, false, nil
	}

	rows, err := c.db.Query(ctx, op,
		"SELECT DISTINCT r.systemID FROM ROMs r WHERE r.romHashMD5 = ? AND r.systemID IS NOT NULL ORDER BY r.systemID", md5)
	if err != nil {
		return systems.Unknown, false, err
	}
	ids, err := refdb.Collect(ctx, c.db, op, rows, c.logger, func(s refdb.Scanner) (int, error) {
		var id int
		err := s.Scan(&id)
		return id, err
	})
	if err != nil {
		return systems.Unknown, false, err
	}
	for _, id := range ids {
		if canonical, ok := c.systems.FromOpenVGDB(id); ok {
			return canonical, true, nil
		}
	}
	return systems.Unknown, false, nil
}

func (c *Client) nativeSystem(system systems.ID, op string) (int, error) {
	native, ok := c.systems.OpenVGDBID(system)
	if !ok {
		return 0, services.Wrap(services.ErrInvalidIdentifier, string(kind), op, "no OpenVGDB system for "+system.String(), nil)
	}
	return native, nil
}

func (c *Client) queryRecords(ctx context.Context, op, query string, args ...any) ([]romdata.SourceRecord, error) {
	rows, err := c.db.Query(ctx, op, query, args...)
	if err != nil {
		return nil, err
	}
	return refdb.Collect(ctx, c.db, op, rows, c.logger, scanRecord)
}

func annotate(ctx context.Context, op string) context.Context {
	return services.WithOperation(services.WithSource(ctx, string(kind)), op)
}

func candidateName(rec romdata.SourceRecord) string {
	if rec.FileName != "" {
		return rec.FileName
	}
	return rec.Title
}

type recordRow struct {
	romID       int64
	systemID    sql.NullInt64
	regionID    sql.NullInt64
	size        sql.NullInt64
	regionName  sql.NullString
	crc         sql.NullString
	md5         sql.NullString
	fileName    sql.NullString
	serial      sql.NullString
	lang        sql.NullString
	title       sql.NullString
	coverFront  sql.NullString
	coverBack   sql.NullString
	description sql.NullString
	developer   sql.NullString
	publisher   sql.NullString
	genre       sql.NullString
	date        sql.NullString
	refURL      sql.NullString
}

func scanRecord(s refdb.Scanner) (romdata.SourceRecord, error) {
	var row recordRow
	if err := s.Scan(
		&row.romID, &row.systemID, &row.regionID, &row.regionName, &row.crc, &row.md5,
		&row.fileName, &row.serial, &row.size, &row.lang,
		&row.title, &row.coverFront, &row.coverBack, &row.description,
		&row.developer, &row.publisher, &row.genre, &row.date, &row.refURL,
	); err != nil {
		return romdata.SourceRecord{}, err
	}
	if !row.systemID.Valid {
		return romdata.SourceRecord{}, services.Wrap(services.ErrMalformedRecord, string(kind), "decode",
			"rom "+strconv.FormatInt(row.romID, 10)+" has no system", nil)
	}

	rec := romdata.SourceRecord{
		Source:       kind,
		NativeSystem: strconv.FormatInt(row.systemID.Int64, 10),
		Title:        strings.TrimSpace(row.title.String),
		FileName:     strings.TrimSpace(row.fileName.String),
		MD5:          strings.TrimSpace(row.md5.String),
		CRC:          strings.TrimSpace(row.crc.String),
		Region:       strings.TrimSpace(row.regionName.String),
		RegionID:     int(row.regionID.Int64),
		Serial:       strings.TrimSpace(row.serial.String),
		Size:         row.size.Int64,
		Language:     strings.TrimSpace(row.lang.String),
		Developer:    strings.TrimSpace(row.developer.String),
		Publisher:    strings.TrimSpace(row.publisher.String),
		Genres:       strings.TrimSpace(row.genre.String),
		ReleaseDate:  strings.TrimSpace(row.date.String),
		Description:  strings.TrimSpace(row.description.String),
		BoxFrontURL:  strings.TrimSpace(row.coverFront.String),
		BoxBackURL:   strings.TrimSpace(row.coverBack.String),
		ReferenceURL: strings.TrimSpace(row.refURL.String),
	}
	if rec.Title == "" {
		rec.Title = filematch.BaseName(rec.FileName)
	}
	if rec.Title == "" {
		return romdata.SourceRecord{}, services.Wrap(services.ErrMalformedRecord, string(kind), "decode",
			"rom "+strconv.FormatInt(row.romID, 10)+" has neither title nor file name", nil)
	}
	return rec, nil
}
