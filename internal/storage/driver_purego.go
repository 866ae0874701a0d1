//go:build !cgo

package storage

import (
	_ "modernc.org/sqlite"
)

// driverName is the database/sql driver used for version databases.
const driverName = "sqlite"
