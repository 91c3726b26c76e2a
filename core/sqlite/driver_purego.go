//go:build !cgo_sqlite

package sqlite

import (
	"strconv"

	_ "modernc.org/sqlite" // pure Go SQLite driver
)

const (
	driverName    = "sqlite"
	driverType    = "purego"
	driverPackage = "modernc.org/sqlite"
)

func driverParams(opts Options) []string {
	var params []string
	if opts.ForeignKeys {
		params = append(params, "_pragma=foreign_keys(1)")
	}
	if opts.BusyTimeoutMS > 0 {
		params = append(params, "_pragma=busy_timeout("+strconv.Itoa(opts.BusyTimeoutMS)+")")
	}
	return params
}
