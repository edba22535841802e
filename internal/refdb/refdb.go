package refdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"romlookup/internal/romdata"
	"romlookup/internal/services"
)

// Table names a table and the columns an adapter reads from it.
type Table struct {
	Name    string
	Columns []string
}

// DB is a read-only handle to one reference database.
type DB struct {
	kind   romdata.SourceKind
	path   string
	db     *sql.DB
	schema []Table

	// passed lets queries skip the mutex once the schema is known good.
	passed   atomic.Bool
	mu       sync.Mutex
	verified bool
	checkErr error
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 4
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 100 * time.Millisecond
)

var dsnEscaper = strings.NewReplacer("%", "%25", "?", "%3F", "#", "%23")

// DSN returns the read-only connection string for a database file.
func DSN(path string) string {
	return "file:" + dsnEscaper.Replace(path) + "?mode=ro&_pragma=query_only(1)"
}

// Open connects to the SQLite file at path. A missing file is a
// configuration error; the schema is not inspected until the first query.
func Open(ctx context.Context, kind romdata.SourceKind, path string, schema ...Table) (*DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, string(kind), "open", "database path not configured", nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrConfiguration, string(kind), "open", "reference database not found at "+path, err)
		}
		return nil, services.Wrap(services.ErrConfiguration, string(kind), "open", "stat "+path, err)
	}
	if info.IsDir() {
		return nil, services.Wrap(services.ErrConfiguration, string(kind), "open", path+" is a directory", nil)
	}

	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, string(kind), "open", "open sqlite db", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, services.Wrap(services.ErrSourceUnavailable, string(kind), "open", "ping "+path, err)
	}
	return New(kind, path, db, schema...), nil
}

// New wraps an existing connection. Tests use it with sqlmock.
func New(kind romdata.SourceKind, path string, db *sql.DB, schema ...Table) *DB {
	return &DB{kind: kind, path: path, db: db, schema: append([]Table(nil), schema...)}
}

// Kind reports which source the database backs.
func (d *DB) Kind() romdata.SourceKind { return d.kind }

// Path returns the file the handle was opened from.
func (d *DB) Path() string { return d.path }

// Close releases the connection pool.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Verify checks that every required table and column exists. A definite
// answer (pass or schema mismatch) is memoized; transient failures are not.
func (d *DB) Verify(ctx context.Context) error {
	if d.passed.Load() {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.verified {
		return d.checkErr
	}

	for _, table := range d.schema {
		columns, err := d.columns(ctx, table.Name)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return services.Wrap(services.ErrSourceUnavailable, string(d.kind), "verify schema", "read table "+table.Name, err)
		}
		if len(columns) == 0 {
			d.verified = true
			d.checkErr = services.Wrap(services.ErrSourceUnavailable, string(d.kind), "verify schema", "missing table "+table.Name, nil)
			return d.checkErr
		}
		var missing []string
		for _, column := range table.Columns {
			if _, ok := columns[strings.ToLower(column)]; !ok {
				missing = append(missing, column)
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			d.verified = true
			d.checkErr = services.Wrap(services.ErrSourceUnavailable, string(d.kind), "verify schema",
				fmt.Sprintf("table %s missing columns %s", table.Name, strings.Join(missing, ", ")), nil)
			return d.checkErr
		}
	}
	d.verified = true
	d.checkErr = nil
	d.passed.Store(true)
	return nil
}

func (d *DB) columns(ctx context.Context, table string) (map[string]struct{}, error) {
	// Table names come from adapter constants, never from user input.
	rows, err := d.db.QueryContext(ctx, "PRAGMA table_info("+quoteIdent(table)+")")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := make(map[string]struct{})
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   sql.NullString
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		columns[strings.ToLower(name)] = struct{}{}
	}
	return columns, rows.Err()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Query verifies the schema and runs a read query. Failures other than
// caller cancellation are tagged services.ErrSourceUnavailable.
func (d *DB) Query(ctx context.Context, operation, query string, args ...any) (*sql.Rows, error) {
	if err := d.Verify(ctx); err != nil {
		return nil, err
	}
	var rows *sql.Rows
	err := retryOnBusy(ctx, func() error {
		var queryErr error
		rows, queryErr = d.db.QueryContext(ctx, query, args...)
		return queryErr
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, services.Wrap(services.ErrSourceUnavailable, string(d.kind), operation, "query failed", err)
	}
	return rows, nil
}

// RowsDone reports the terminal error of an iteration, tagged like Query.
func (d *DB) RowsDone(ctx context.Context, operation string, rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return services.Wrap(services.ErrSourceUnavailable, string(d.kind), operation, "read rows", err)
	}
	return nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// retryOnBusy covers a database being swapped out by an external rebuild.
func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
