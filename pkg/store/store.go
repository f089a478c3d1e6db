// Package store keeps auto-saved mind-map snapshots in a local SQLite file.
//
// Snapshots are grouped by name (normally the file being edited). Bodies are
// stored exactly as exported, so restoring one is an ordinary import.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/mindcanvas/pkg/debug"
	"github.com/vanderheijden86/mindcanvas/pkg/metrics"
)

// ErrNoSnapshot is returned by Latest when nothing has been saved under a name.
var ErrNoSnapshot = errors.New("no snapshot")

// Snapshot is one saved copy of a map.
type Snapshot struct {
	ID        int64
	Name      string
	SavedAt   time.Time
	NodeCount int
	Body      []byte
}

// Store is a handle on the snapshot database. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path, creating parent directories.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY under the UI's
	// background saves.
	db.SetMaxOpenConns(1)

	if err := createSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	debug.Log("store: opened %s", path)
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save records body under name and returns the new snapshot ID.
func (s *Store) Save(ctx context.Context, name string, body []byte, nodeCount int) (int64, error) {
	defer metrics.Timer(metrics.SnapshotSave)()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (name, saved_at, node_count, body) VALUES (?, ?, ?, ?)`,
		name, time.Now().UTC().Format(time.RFC3339Nano), nodeCount, string(body))
	if err != nil {
		return 0, fmt.Errorf("save snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save snapshot: %w", err)
	}
	debug.Log("store: saved snapshot %d for %q (%d nodes)", id, name, nodeCount)
	return id, nil
}

// Latest returns the most recent snapshot for name.
func (s *Store) Latest(ctx context.Context, name string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, saved_at, node_count, body FROM snapshots
		 WHERE name = ? ORDER BY id DESC LIMIT 1`, name)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNoSnapshot
	}
	return snap, err
}

// List returns up to limit snapshots for name, newest first. Bodies are
// included. A non-positive limit returns everything.
func (s *Store) List(ctx context.Context, name string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, saved_at, node_count, body FROM snapshots
		 WHERE name = ? ORDER BY id DESC LIMIT ?`, name, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Prune deletes all but the newest keep snapshots for name and returns how
// many were removed.
func (s *Store) Prune(ctx context.Context, name string, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE name = ? AND id NOT IN (
			SELECT id FROM snapshots WHERE name = ? ORDER BY id DESC LIMIT ?
		)`, name, name, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	debug.LogIf(n > 0, "store: pruned %d snapshots for %q", n, name)
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(sc scanner) (Snapshot, error) {
	var (
		snap    Snapshot
		savedAt string
		body    string
	)
	if err := sc.Scan(&snap.ID, &snap.Name, &savedAt, &snap.NodeCount, &body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, err
		}
		return Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot %d: bad saved_at %q: %w", snap.ID, savedAt, err)
	}
	snap.SavedAt = t
	snap.Body = []byte(body)
	return snap, nil
}
