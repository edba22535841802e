package shiragame

import (
	"context"
	"database/sql"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"romlookup/internal/filematch"
	"romlookup/internal/logging"
	"romlookup/internal/refdb"
	"romlookup/internal/romdata"
	"romlookup/internal/services"
	"romlookup/internal/sysmap"
	"romlookup/internal/systems"
)

const kind = romdata.SourceShiraGame

// Schema lists the tables and columns the client reads.
var Schema = []refdb.Table{
	{Name: "game", Columns: []string{"gameid", "platformid", "entryname", "releasetitle", "region"}},
	{Name: "rom", Columns: []string{"filename", "md5", "crc", "size", "gameid"}},
}

type index struct {
	records []romdata.SourceRecord
	byMD5   map[string][]int
}

// Client answers lookups from one ShiraGame file.
type Client struct {
	db      *refdb.DB
	systems *sysmap.Map
	logger  *slog.Logger

	idx     atomic.Pointer[index]
	buildMu sync.Mutex
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

// Close releases the database handle. The in-memory index stays usable.
func (c *Client) Close() error { return c.db.Close() }

// SearchByHash returns the dumps whose MD5 equals md5, optionally restricted
// to one system.
func (c *Client) SearchByHash(ctx context.Context, md5 string, system systems.ID) ([]romdata.SourceRecord, error) {
	const op = "search_hash"
	ctx = annotate(ctx, op)
	md5 = romdata.NormalizeHash(md5)
	if !romdata.IsMD5(md5) {
		return nil, nil
	}
	platform, err := c.platform(system, op)
	if err != nil {
		return nil, err
	}
	idx, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	var out []romdata.SourceRecord
	for _, i := range idx.byMD5[md5] {
		rec := idx.records[i]
		if platform != "" && rec.NativeSystem != platform {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// SearchByFilename returns the dumps whose file name or entry name matches
// filename, best match first.
func (c *Client) SearchByFilename(ctx context.Context, filename string, system systems.ID) ([]romdata.SourceRecord, error) {
	const op = "search_filename"
	ctx = annotate(ctx, op)
	if strings.TrimSpace(filename) == "" {
		return nil, nil
	}
	platform, err := c.platform(system, op)
	if err != nil {
		return nil, err
	}
	idx, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []romdata.SourceRecord
	for _, rec := range idx.records {
		if platform != "" && rec.NativeSystem != platform {
			continue
		}
		candidates = append(candidates, rec)
	}
	return filematch.Filter(filename, candidates, candidateName), nil
}

// SystemIdentifier resolves the canonical system of the dump with the given
// MD5.
func (c *Client) SystemIdentifier(ctx context.Context, md5 string) (systems.ID, bool, error) {
	const op = "system_identifier"
	ctx = annotate(ctx, op)
	md5 = romdata.NormalizeHash(md5)
	if !romdata.IsMD5(md5) {
		return systems.Unknown, false, nil
	}
	idx, err := c.load(ctx)
	if err != nil {
		return systems.Unknown, false, err
	}
	for _, i := range idx.byMD5[md5] {
		if id, ok := c.systems.Canonical(kind, idx.records[i].NativeSystem); ok {
			return id, true, nil
		}
	}
	return systems.Unknown, false, nil
}

// ArtworkURLs always returns nothing; ShiraGame has no artwork.
func (c *Client) ArtworkURLs(context.Context, romdata.ROMMetadata) ([]*url.URL, error) {
	return nil, nil
}

// platform returns "" for systems.Unknown, meaning no filter.
func (c *Client) platform(system systems.ID, op string) (string, error) {
	if system == systems.Unknown {
		return "", nil
	}
	native, ok := c.systems.Native(system, kind)
	if !ok {
		return "", services.Wrap(services.ErrInvalidIdentifier, string(kind), op, "no ShiraGame platform for "+system.String(), nil)
	}
	return native, nil
}

// load builds the index on first use. A failed build is retried by the next
// query.
func (c *Client) load(ctx context.Context) (*index, error) {
	if idx := c.idx.Load(); idx != nil {
		return idx, nil
	}
	c.buildMu.Lock()
	defer c.buildMu.Unlock()
	if idx := c.idx.Load(); idx != nil {
		return idx, nil
	}

	const op = "load_index"
	rows, err := c.db.Query(ctx, op, `SELECT r.rowid, r.filename, r.md5, r.crc, r.size,
		g.platformid, g.entryname, g.releasetitle, g.region
		FROM rom r LEFT JOIN game g ON g.gameid = r.gameid
		ORDER BY r.gameid, r.rowid`)
	if err != nil {
		return nil, err
	}
	records, err := refdb.Collect(services.WithOperation(ctx, op), c.db, op, rows, c.logger, scanRecord)
	if err != nil {
		return nil, err
	}

	idx := &index{records: records, byMD5: make(map[string][]int, len(records))}
	for i, rec := range records {
		if key := rec.Key(); key != "" {
			idx.byMD5[key] = append(idx.byMD5[key], i)
		}
	}
	c.idx.Store(idx)
	c.logger.Debug("shiragame index built", logging.Int("roms", len(records)))
	return idx, nil
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
		rowID                                  int64
		fileName, md5, crc                     sql.NullString
		platform, entryName, releaseTitle, reg sql.NullString
		size                                   sql.NullInt64
	)
	if err := s.Scan(&rowID, &fileName, &md5, &crc, &size, &platform, &entryName, &releaseTitle, &reg); err != nil {
		return romdata.SourceRecord{}, err
	}
	if strings.TrimSpace(platform.String) == "" {
		return romdata.SourceRecord{}, services.Wrap(services.ErrMalformedRecord, string(kind), "decode",
			"rom row "+strconv.FormatInt(rowID, 10)+" has no platform", nil)
	}

	rec := romdata.SourceRecord{
		Source:       kind,
		NativeSystem: strings.TrimSpace(platform.String),
		Title:        strings.TrimSpace(entryName.String),
		FileName:     strings.TrimSpace(fileName.String),
		MD5:          strings.TrimSpace(md5.String),
		CRC:          strings.TrimSpace(crc.String),
		Region:       strings.TrimSpace(reg.String),
		Size:         size.Int64,
	}
	if rec.Title == "" {
		rec.Title = strings.TrimSpace(releaseTitle.String)
	}
	if rec.Title == "" {
		rec.Title = filematch.BaseName(rec.FileName)
	}
	if rec.Title == "" {
		return romdata.SourceRecord{}, services.Wrap(services.ErrMalformedRecord, string(kind), "decode",
			"rom row "+strconv.FormatInt(rowID, 10)+" has neither entry name nor file name", nil)
	}
	return rec, nil
}
