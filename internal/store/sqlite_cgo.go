//go:build cgo
// +build cgo

package store

import (
	_ "github.com/mattn/go-sqlite3"
)

const sqliteDriver = "sqlite3"
const sqliteDSNParams = "?_journal_mode=WAL&_foreign_keys=off"
