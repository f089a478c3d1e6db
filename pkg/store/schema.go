package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is recorded in the meta table.
const SchemaVersion = 1

func createSchema(ctx context.Context, db *sql.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"snapshots table", `
			CREATE TABLE IF NOT EXISTS snapshots (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				saved_at TEXT NOT NULL,
				node_count INTEGER NOT NULL,
				body TEXT NOT NULL
			)`},
		{"snapshots index", `CREATE INDEX IF NOT EXISTS idx_snapshots_name ON snapshots(name, id DESC)`},
		{"meta table", `
			CREATE TABLE IF NOT EXISTS meta (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL
			)`},
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s.sql); err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ('schema_version', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		fmt.Sprint(SchemaVersion))
	if err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}
