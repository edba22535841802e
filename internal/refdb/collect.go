package refdb

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"romlookup/internal/logging"
	"romlookup/internal/services"
)

// Scanner is the subset of *sql.Rows a row decoder needs.
type Scanner interface {
	Scan(dest ...any) error
}

// Collect decodes every row with decode and closes rows. A row decode rejects
// is logged at debug level and skipped; it never fails the query.
func Collect[T any](ctx context.Context, d *DB, operation string, rows *sql.Rows, logger *slog.Logger, decode func(Scanner) (T, error)) ([]T, error) {
	defer rows.Close()

	var (
		out     []T
		skipped int
	)
	for rows.Next() {
		item, err := decode(rows)
		if err != nil {
			skipped++
			if !errors.Is(err, services.ErrMalformedRecord) {
				err = services.Wrap(services.ErrMalformedRecord, string(d.kind), operation, "decode row", err)
			}
			logging.WithContext(ctx, logger).Debug("skipping malformed row", logging.Error(err))
			continue
		}
		out = append(out, item)
	}
	if err := d.RowsDone(ctx, operation, rows); err != nil {
		return nil, err
	}
	if skipped > 0 {
		logging.WithContext(ctx, logger).Debug("rows skipped",
			logging.Int("skipped", skipped),
			logging.Int("kept", len(out)))
	}
	return out, nil
}
