package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:comments.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/comments?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// one writer; avoids SQLITE_BUSY between pooled connections
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS bank_fragments (
  grade TEXT NOT NULL,
  category TEXT NOT NULL,
  band INTEGER NOT NULL,
  text TEXT NOT NULL,
  updated_at INTEGER NOT NULL,
  PRIMARY KEY (grade, category, band)
);

CREATE TABLE IF NOT EXISTS bank_phrases (
  grade TEXT NOT NULL,
  kind TEXT NOT NULL,        -- opener|closer
  position INTEGER NOT NULL,
  text TEXT NOT NULL,
  PRIMARY KEY (grade, kind, position)
);

CREATE TABLE IF NOT EXISTS event_log (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  session_id TEXT NOT NULL DEFAULT '',
  typ TEXT NOT NULL,          -- CommentGenerated|ReportExported
  event_key TEXT NOT NULL,
  data TEXT NOT NULL,         -- JSON payload
  created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS event_log_session ON event_log (session_id, seq);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS bank_fragments (
  grade TEXT NOT NULL,
  category TEXT NOT NULL,
  band INTEGER NOT NULL,
  text TEXT NOT NULL,
  updated_at BIGINT NOT NULL,
  PRIMARY KEY (grade, category, band)
);

CREATE TABLE IF NOT EXISTS bank_phrases (
  grade TEXT NOT NULL,
  kind TEXT NOT NULL,
  position INTEGER NOT NULL,
  text TEXT NOT NULL,
  PRIMARY KEY (grade, kind, position)
);

CREATE TABLE IF NOT EXISTS event_log (
  seq BIGSERIAL PRIMARY KEY,
  session_id TEXT NOT NULL DEFAULT '',
  typ TEXT NOT NULL,
  event_key TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS event_log_session ON event_log (session_id, seq);
`
