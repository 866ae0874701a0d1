//go:build cgo

package storage

import (
	_ "github.com/mattn/go-sqlite3"
)

// driverName is the database/sql driver used for version databases.
const driverName = "sqlite3"
