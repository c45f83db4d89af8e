package storage

import (
	"database/sql"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const (
	BackendMemory   = "memory"
	BackendDynamo   = "dynamo"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// OpenSQL opens a database/sql handle for the sqlite or postgres backend and
// makes sure the catalog tables exist.
func OpenSQL(backend, databaseURL string) (*sql.DB, error) {
	var driver string
	switch backend {
	case BackendSQLite:
		driver = "sqlite"
	case BackendPostgres:
		driver = "postgres"
	default:
		return nil, errors.Wrap(ErrUnknownBackend, backend)
	}

	db, err := sql.Open(driver, databaseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", backend)
	}
	if backend == BackendSQLite {
		// a single connection keeps ":memory:" databases shared
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to ping %s database", backend)
	}
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// CreateSchema creates the catalog tables. Safe to call multiple times.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return errors.Wrap(err, "failed to create schema")
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS candidate (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		nationality TEXT NOT NULL DEFAULT '',
		profile_picture TEXT NOT NULL DEFAULT '',
		created_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS coupon (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		votes INTEGER NOT NULL CHECK (votes >= 0),
		eligible_candidate_counts INTEGER NOT NULL CHECK (eligible_candidate_counts >= 0),
		pricing DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_candidate_created_at ON candidate(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_coupon_created_at ON coupon(created_at)`,
}

// rebind turns ? placeholders into $1..$n for postgres.
func rebind(backend, query string) string {
	if backend != BackendPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
