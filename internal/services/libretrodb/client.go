package libretrodb

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

const kind = romdata.SourceLibretroDB

// DefaultThumbnailsBaseURL is the public libretro thumbnail server.
const DefaultThumbnailsBaseURL = "https://thumbnails.libretro.com"

// DefaultThumbnailKinds are the thumbnail directories probed per system.
var DefaultThumbnailKinds = []string{"Named_Boxarts", "Named_Snaps", "Named_Titles"}

// Schema lists the tables and columns the client reads.
var Schema = []refdb.Table{
	{Name: "platforms", Columns: []string{"id", "name"}},
	{Name: "games", Columns: []string{
		"id", "display_name", "full_name", "platform_id", "region",
		"developer", "publisher", "genre", "release_year", "description",
	}},
	{Name: "roms", Columns: []string{"id", "game_id", "name", "md5", "crc", "serial", "size"}},
}

const recordColumns = `r.id, p.name, g.display_name, g.full_name, r.name, r.md5, r.crc, r.serial, r.size,
	g.region, g.developer, g.publisher, g.genre, g.release_year, g.description`

const recordFrom = `FROM roms r
	JOIN games g ON g.id = r.game_id
	LEFT JOIN platforms p ON p.id = g.platform_id`

// Client answers lookups from one libretro-database export.
type Client struct {
	db      *refdb.DB
	systems *sysmap.Map
	logger  *slog.Logger

	thumbnailsBaseURL string
	thumbnailKinds    []string
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

// WithThumbnails sets the thumbnail server and the directories probed on it.
// Empty values keep the defaults.
func WithThumbnails(baseURL string, kinds []string) Option {
	return func(c *Client) {
		if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL != "" {
			c.thumbnailsBaseURL = baseURL
		}
		if len(kinds) > 0 {
			c.thumbnailKinds = append([]string(nil), kinds...)
		}
	}
}

// New wraps an open database handle.
func New(db *refdb.DB, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		db:                db,
		systems:           sysmap.Default(),
		logger:            logging.NewComponentLogger(logger, string(kind)),
		thumbnailsBaseURL: DefaultThumbnailsBaseURL,
		thumbnailKinds:    append([]string(nil), DefaultThumbnailKinds...),
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

// SearchByHash returns the dumps whose MD5 equals md5, optionally restricted
// to one system.
func (c *Client) SearchByHash(ctx context.Context, md5 string, system systems.ID) ([]romdata.SourceRecord, error) {
	const op = "search_hash"
	ctx = annotate(ctx, op)
	md5 = storedHash(md5)
	if !romdata.IsMD5(md5) {
		return nil, nil
	}

	query := "SELECT " + recordColumns + " " + recordFrom + " WHERE r.md5 = ?"
	args := []any{md5}
	if system != systems.Unknown {
		platform, err := c.platform(system, op)
		if err != nil {
			return nil, err
		}
		query += " AND p.name = ?"
		args = append(args, platform)
	}
	query += " ORDER BY r.id"
	return c.queryRecords(ctx, op, query, args...)
}

// SearchByFilename returns the dumps whose file name or display name matches
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
		platform, err := c.platform(system, op)
		if err != nil {
			return nil, err
		}
		where = append(where, "p.name = ?")
		args = append(args, platform)
	}
	if term, ok := filematch.SearchTerm(filename); ok {
		pattern := "%" + term + "%"
		where = append(where, "(r.name LIKE ? OR g.display_name LIKE ?)")
		args = append(args, pattern, pattern)
	}

	query := "SELECT " + recordColumns + " " + recordFrom
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY r.id"

	records, err := c.queryRecords(ctx, op, query, args...)
	if err != nil {
		return nil, err
	}
	return filematch.Filter(filename, records, candidateName), nil
}

// SystemIdentifier resolves the canonical system of the dump with the given
// MD5.
func (c *Client) SystemIdentifier(ctx context.Context, md5 string) (systems.ID, bool, error) {
	const op = "system_identifier"
	ctx = annotate(ctx, op)
	md5 = storedHash(md5)
	if !romdata.IsMD5(md5) {
		return systems.Unknown, false, nil
	}

	rows, err := c.db.Query(ctx, op, `SELECT DISTINCT p.name `+recordFrom+`
		WHERE r.md5 = ? AND p.name IS NOT NULL ORDER BY p.name`, md5)
	if err != nil {
		return systems.Unknown, false, err
	}
	names, err := refdb.Collect(ctx, c.db, op, rows, c.logger, func(s refdb.Scanner) (string, error) {
		var name string
		err := s.Scan(&name)
		return name, err
	})
	if err != nil {
		return systems.Unknown, false, err
	}
	for _, name := range names {
		if id, ok := c.systems.Canonical(kind, name); ok {
			return id, true, nil
		}
	}
	return systems.Unknown, false, nil
}

func (c *Client) platform(system systems.ID, op string) (string, error) {
	name, ok := c.systems.Native(system, kind)
	if !ok {
		return "", services.Wrap(services.ErrInvalidIdentifier, string(kind), op, "no libretro platform for "+system.String(), nil)
	}
	return name, nil
}

func (c *Client) queryRecords(ctx context.Context, op, query string, args ...any) ([]romdata.SourceRecord, error) {
	rows, err := c.db.Query(ctx, op, query, args...)
	if err != nil {
		return nil, err
	}
	return refdb.Collect(ctx, c.db, op, rows, c.logger, scanRecord)
}

// storedHash puts an MD5 in the lowercase form the DATs carry, so lookups
// use the md5 index as is.
func storedHash(md5 string) string {
	return strings.ToLower(strings.TrimSpace(md5))
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

func scanRecord(s refdb.Scanner) (romdata.SourceRecord, error) {
	var (
		id                                    int64
		platform, displayName, fullName, name sql.NullString
		md5, crc, serial, region, developer   sql.NullString
		publisher, genre, description         sql.NullString
		size, releaseYear                     sql.NullInt64
	)
	if err := s.Scan(&id, &platform, &displayName, &fullName, &name, &md5, &crc, &serial, &size,
		&region, &developer, &publisher, &genre, &releaseYear, &description); err != nil {
		return romdata.SourceRecord{}, err
	}
	if strings.TrimSpace(platform.String) == "" {
		return romdata.SourceRecord{}, services.Wrap(services.ErrMalformedRecord, string(kind), "decode",
			"rom "+strconv.FormatInt(id, 10)+" has no platform", nil)
	}

	rec := romdata.SourceRecord{
		Source:       kind,
		NativeSystem: strings.TrimSpace(platform.String),
		Title:        firstNonEmpty(displayName.String, fullName.String),
		FileName:     strings.TrimSpace(name.String),
		MD5:          strings.TrimSpace(md5.String),
		CRC:          strings.TrimSpace(crc.String),
		Region:       strings.TrimSpace(region.String),
		Serial:       strings.TrimSpace(serial.String),
		Size:         size.Int64,
		Developer:    strings.TrimSpace(developer.String),
		Publisher:    strings.TrimSpace(publisher.String),
		Genres:       strings.TrimSpace(genre.String),
		Description:  strings.TrimSpace(description.String),
	}
	if releaseYear.Valid && releaseYear.Int64 > 0 {
		rec.ReleaseDate = strconv.FormatInt(releaseYear.Int64, 10)
	}
	if rec.Title == "" {
		rec.Title = filematch.BaseName(rec.FileName)
	}
	if rec.Title == "" {
		return romdata.SourceRecord{}, services.Wrap(services.ErrMalformedRecord, string(kind), "decode",
			"rom "+strconv.FormatInt(id, 10)+" has neither name nor file name", nil)
	}
	return rec, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
