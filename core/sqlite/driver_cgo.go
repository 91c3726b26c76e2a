//go:build cgo_sqlite

// CGO SQLite driver using mattn/go-sqlite3.
//
// Build with: go build -tags cgo_sqlite
// Requires: CGO_ENABLED=1
package sqlite

import (
	"strconv"

	_ "github.com/mattn/go-sqlite3" // CGO SQLite driver
)

const (
	driverName    = "sqlite3"
	driverType    = "cgo"
	driverPackage = "github.com/mattn/go-sqlite3"
)

func driverParams(opts Options) []string {
	var params []string
	if opts.ForeignKeys {
		params = append(params, "_foreign_keys=1")
	}
	if opts.BusyTimeoutMS > 0 {
		params = append(params, "_busy_timeout="+strconv.Itoa(opts.BusyTimeoutMS))
	}
	return params
}
