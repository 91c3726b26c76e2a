// Package sqlite opens SQLite databases through one of two drivers:
//
//   - Default (CGO_ENABLED=0): pure Go modernc.org/sqlite
//   - With -tags cgo_sqlite (CGO_ENABLED=1): mattn/go-sqlite3
//
// The two drivers spell connection pragmas differently; Open builds the
// right DSN so callers never call sql.Open directly.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
)

// DriverName returns the SQL driver name in use.
func DriverName() string {
	return driverName
}

// DriverType returns "cgo" for mattn/go-sqlite3, "purego" for modernc.org/sqlite.
func DriverType() string {
	return driverType
}

// IsCGO returns true if the CGO implementation is being used.
func IsCGO() bool {
	return driverType == "cgo"
}

// Options are the connection settings applied by Open.
type Options struct {
	ReadOnly    bool
	ForeignKeys bool
	// BusyTimeoutMS is how long a writer waits for a lock, in milliseconds.
	BusyTimeoutMS int
}

// DefaultOptions enables foreign keys and waits five seconds for locks.
func DefaultOptions() Options {
	return Options{ForeignKeys: true, BusyTimeoutMS: 5000}
}

// Open opens the database at path with DefaultOptions.
// ":memory:" opens a private in-memory database.
func Open(path string) (*sql.DB, error) {
	return OpenWith(path, DefaultOptions())
}

// OpenReadOnly opens the database at path in read-only mode.
func OpenReadOnly(path string) (*sql.DB, error) {
	opts := DefaultOptions()
	opts.ReadOnly = true
	return OpenWith(path, opts)
}

// OpenWith opens the database at path with explicit options.
func OpenWith(path string, opts Options) (*sql.DB, error) {
	db, err := sql.Open(driverName, DSN(path, opts))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	if path == ":memory:" {
		// Each connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// DSN returns the driver-specific data source name for path.
func DSN(path string, opts Options) string {
	params := driverParams(opts)
	if opts.ReadOnly {
		params = append(params, "mode=ro")
	}
	if len(params) == 0 {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + strings.TrimPrefix(path, "file:") + sep + strings.Join(params, "&")
}

// Info contains information about the SQLite driver configuration.
type Info struct {
	DriverName string `json:"driver_name"`
	DriverType string `json:"driver_type"`
	IsCGO      bool   `json:"is_cgo"`
	Package    string `json:"package"`
}

// GetInfo returns information about the current SQLite configuration.
func GetInfo() Info {
	return Info{
		DriverName: driverName,
		DriverType: driverType,
		IsCGO:      IsCGO(),
		Package:    driverPackage,
	}
}
