package libretrodb

import (
	"context"
	"database/sql"
	"net/url"
	"strings"

	"romlookup/internal/logging"
	"romlookup/internal/refdb"
	"romlookup/internal/romdata"
	"romlookup/internal/systems"
	"romlookup/internal/textutil"
)

// ArtworkURLs builds thumbnail URLs for rom, one per configured thumbnail
// kind. The thumbnail name comes from the ROM file name when known, else from
// the database entry for its MD5, else from its title. URLs are derived, not
// probed; a thumbnail server may not carry every one.
func (c *Client) ArtworkURLs(ctx context.Context, rom romdata.ROMMetadata) ([]*url.URL, error) {
	const op = "artwork_urls"
	ctx = annotate(ctx, op)
	if rom.SystemID == systems.Unknown {
		return nil, nil
	}
	platform, err := c.platform(rom.SystemID, op)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(rom.ROMFileName)
	if name == "" && romdata.IsMD5(rom.MD5) {
		if name, err = c.nameForHash(ctx, op, rom.MD5, platform); err != nil {
			return nil, err
		}
	}
	if name == "" {
		name = strings.TrimSpace(rom.GameTitle)
	}
	if name == "" {
		return nil, nil
	}
	return c.thumbnailURLs(platform, name), nil
}

// nameForHash prefers the full game name, which is what thumbnail
// repositories are keyed by, over the dump file name.
func (c *Client) nameForHash(ctx context.Context, op, md5, platform string) (string, error) {
	rows, err := c.db.Query(ctx, op, `SELECT g.full_name, r.name `+recordFrom+`
		WHERE r.md5 = ? AND p.name = ? ORDER BY r.id LIMIT 1`,
		storedHash(md5), platform)
	if err != nil {
		return "", err
	}
	names, err := refdb.Collect(ctx, c.db, op, rows, c.logger, func(s refdb.Scanner) (string, error) {
		var fullName, name sql.NullString
		if err := s.Scan(&fullName, &name); err != nil {
			return "", err
		}
		return firstNonEmpty(fullName.String, name.String), nil
	})
	if err != nil || len(names) == 0 {
		return "", err
	}
	return names[0], nil
}

func (c *Client) thumbnailURLs(platform, name string) []*url.URL {
	file := textutil.ThumbnailName(name)
	if file == "" {
		return nil
	}
	var out []*url.URL
	for _, thumbKind := range c.thumbnailKinds {
		raw := c.thumbnailsBaseURL + "/" +
			textutil.EscapePathSegment(platform) + "/" +
			textutil.EscapePathSegment(thumbKind) + "/" +
			textutil.EscapePathSegment(file) + ".png"
		u, err := url.Parse(raw)
		if err != nil {
			c.logger.Debug("skipping thumbnail url", logging.String("url", raw), logging.Error(err))
			continue
		}
		out = append(out, u)
	}
	return out
}
