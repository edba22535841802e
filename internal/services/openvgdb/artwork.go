package openvgdb

import (
	"context"
	"database/sql"
	"net/url"
	"strings"

	"romlookup/internal/refdb"
	"romlookup/internal/romdata"
	"romlookup/internal/services"
	"romlookup/internal/systems"
)

const coverColumns = "rel.releaseCoverFront, rel.releaseCoverBack, rel.releaseCoverCart"

// ArtworkURLs returns the cover art stored for rom. The ROM is located by
// MD5 when it has one, else by exact file name, else by release title.
func (c *Client) ArtworkURLs(ctx context.Context, rom romdata.ROMMetadata) ([]*url.URL, error) {
	const op = "artwork_urls"
	ctx = annotate(ctx, op)
	if rom.SystemID == systems.Unknown {
		return nil, nil
	}
	native, err := c.nativeSystem(rom.SystemID, op)
	if err != nil {
		return nil, err
	}

	from := "FROM ROMs r JOIN RELEASES rel ON rel.romID = r.romID WHERE r.systemID = ?"
	var (
		query string
		args  []any
	)
	switch {
	case romdata.IsMD5(rom.MD5):
		query = "SELECT " + coverColumns + " " + from + " AND r.romHashMD5 = ?"
		args = []any{native, romdata.NormalizeHash(rom.MD5)}
	case strings.TrimSpace(rom.ROMFileName) != "":
		query = "SELECT " + coverColumns + " " + from + " AND r.romFileName = ?"
		args = []any{native, strings.TrimSpace(rom.ROMFileName)}
	case strings.TrimSpace(rom.GameTitle) != "":
		query = "SELECT " + coverColumns + " " + from + " AND rel.releaseTitleName = ? COLLATE NOCASE"
		args = []any{native, strings.TrimSpace(rom.GameTitle)}
	default:
		return nil, nil
	}
	query += " ORDER BY rel.releaseID"

	rows, err := c.db.Query(ctx, op, query, args...)
	if err != nil {
		return nil, err
	}
	covers, err := refdb.Collect(ctx, c.db, op, rows, c.logger, func(s refdb.Scanner) ([]string, error) {
		var front, back, cart sql.NullString
		if err := s.Scan(&front, &back, &cart); err != nil {
			return nil, err
		}
		return []string{front.String, back.String, cart.String}, nil
	})
	if err != nil {
		return nil, err
	}

	var (
		out  []*url.URL
		seen = make(map[string]struct{})
	)
	for _, row := range covers {
		for _, raw := range row {
			u, ok := parseCoverURL(raw)
			if !ok {
				continue
			}
			key := u.String()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, u)
		}
	}
	return out, nil
}

// ArtworkEntries lists every hashed ROM with its cover art for the artwork
// mapping tables.
func (c *Client) ArtworkEntries(ctx context.Context) ([]romdata.ArtworkEntry, error) {
	const op = "artwork_entries"
	ctx = annotate(ctx, op)

	rows, err := c.db.Query(ctx, op, `SELECT r.romHashMD5, r.romFileName, rel.releaseTitleName, r.systemID,
		rel.releaseCoverFront, rel.releaseCoverBack, rel.releaseDescription
		`+recordFrom+`
		WHERE r.romHashMD5 IS NOT NULL AND r.romHashMD5 <> ''
		ORDER BY r.romID`)
	if err != nil {
		return nil, err
	}
	return refdb.Collect(ctx, c.db, op, rows, c.logger, func(s refdb.Scanner) (romdata.ArtworkEntry, error) {
		var (
			md5, fileName, title, front, back, description sql.NullString
			systemID                                       sql.NullInt64
		)
		if err := s.Scan(&md5, &fileName, &title, &systemID, &front, &back, &description); err != nil {
			return romdata.ArtworkEntry{}, err
		}
		if !romdata.IsMD5(md5.String) {
			return romdata.ArtworkEntry{}, services.Wrap(services.ErrMalformedRecord, string(kind), op, "invalid md5 "+md5.String, nil)
		}
		system := systems.Unknown
		if systemID.Valid {
			if id, ok := c.systems.FromOpenVGDB(int(systemID.Int64)); ok {
				system = id
			}
		}
		return romdata.ArtworkEntry{
			MD5:         romdata.NormalizeHash(md5.String),
			FileName:    strings.TrimSpace(fileName.String),
			Title:       strings.TrimSpace(title.String),
			SystemID:    system,
			BoxFrontURL: strings.TrimSpace(front.String),
			BoxBackURL:  strings.TrimSpace(back.String),
			Description: strings.TrimSpace(description.String),
		}, nil
	})
}

func parseCoverURL(raw string) (*url.URL, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	return u, true
}
