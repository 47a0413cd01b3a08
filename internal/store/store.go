// Package store provides a SQLite-backed document store: one table per
// collection, each row holding a JSON document scoped to an owner.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Collection table names.
const (
	TasksTable        = "tasks"
	BillsTable        = "bills"
	AssetsTable       = "assets"
	FitnessLogsTable  = "fitness_logs"
	MoodLogsTable     = "mood_logs"
	HabitsTable       = "habits"
	SavingsGoalsTable = "savings_goals"
)

var collectionTables = []string{
	TasksTable, BillsTable, AssetsTable, FitnessLogsTable,
	MoodLogsTable, HabitsTable, SavingsGoalsTable,
}

const collectionSchemaSQL = `
CREATE TABLE IF NOT EXISTS %[1]s (
	id         TEXT PRIMARY KEY,
	owner_id   TEXT NOT NULL,
	doc        TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_%[1]s_owner ON %[1]s(owner_id);
`

// At most one final mood log per owner and date.
const moodSchemaSQL = `
CREATE UNIQUE INDEX IF NOT EXISTS uidx_mood_logs_owner_date_final
	ON mood_logs(owner_id, json_extract(doc, '$.date'))
	WHERE json_extract(doc, '$.isFinal') = 1;

CREATE INDEX IF NOT EXISTS idx_mood_logs_owner_date
	ON mood_logs(owner_id, json_extract(doc, '$.date'));
`

// DB wraps a sql.DB holding every collection.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
// Write transactions take the database lock at BEGIN (_txlock=immediate), so
// read-modify-write sequences inside one transaction never interleave.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", withParams(dsn))
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	for _, table := range collectionTables {
		if _, err := conn.Exec(fmt.Sprintf(collectionSchemaSQL, table)); err != nil {
			conn.Close()
			return nil, fmt.Errorf("store: apply %s schema: %w", table, err)
		}
	}
	if _, err := conn.Exec(moodSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply mood schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// connParams are appended to every DSN.
const connParams = "_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate"

// withParams appends connParams, keeping any query string already in dsn.
func withParams(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + connParams
	}
	return dsn + "?" + connParams
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
