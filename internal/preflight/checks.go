package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"romlookup/internal/refdb"
	"romlookup/internal/romdata"
	"romlookup/internal/services/libretrodb"
	"romlookup/internal/services/openvgdb"
	"romlookup/internal/services/shiragame"
)

// schemaCheckTimeout bounds opening a database and reading its table info.
const schemaCheckTimeout = 10 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckDatabaseFile verifies that a reference database file exists and is
// readable.
func CheckDatabaseFile(name, path string) Result {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{Name: name, Detail: "path not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if info.Size() == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: empty file)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckSchema opens the database read-only and verifies the tables and
// columns its adapter queries.
func CheckSchema(ctx context.Context, kind romdata.SourceKind, path string) Result {
	name := DisplayName(kind)
	schema, ok := schemaFor(kind)
	if !ok {
		return Result{Name: name, Detail: "unknown source"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, schemaCheckTimeout)
	defer cancel()

	db, err := refdb.Open(checkCtx, kind, path, schema...)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer db.Close()

	if err := db.Verify(checkCtx); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", db.Path(), err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (schema ok)", db.Path())}
}

func schemaFor(kind romdata.SourceKind) ([]refdb.Table, bool) {
	switch kind {
	case romdata.SourceOpenVGDB:
		return openvgdb.Schema, true
	case romdata.SourceLibretroDB:
		return libretrodb.Schema, true
	case romdata.SourceShiraGame:
		return shiragame.Schema, true
	default:
		return nil, false
	}
}

func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
