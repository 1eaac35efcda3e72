package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/deinflect/pkg/deinflect/catalog"
	"github.com/cognicore/deinflect/pkg/deinflect/internalerr"
	"github.com/cognicore/deinflect/pkg/deinflect/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and creates the
// snapshot tables when missing.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS snapshots (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshot_rules (
	snapshot_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	match_suffix TEXT NOT NULL,
	replace_suffix TEXT NOT NULL,
	required TEXT NOT NULL DEFAULT '',
	result TEXT NOT NULL DEFAULT '',
	reason TEXT NOT NULL,
	PRIMARY KEY(snapshot_id, position),
	FOREIGN KEY(snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveSnapshot writes the snapshot header and its rules in one transaction
func (s *sqliteStore) SaveSnapshot(ctx context.Context, name string, entries []catalog.Entry) (string, error) {
	now := time.Now().UTC()
	id := store.NewID(now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots(id, name, created_at) VALUES(?, ?, ?)`,
		id, name, now.Format(time.RFC3339Nano),
	); err != nil {
		return "", err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO snapshot_rules(snapshot_id, position, match_suffix, replace_suffix, required, result, reason)
VALUES(?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, id, i,
			e.MatchSuffix, e.ReplaceSuffix,
			e.Required.String(), e.Result.String(),
			e.Reason,
		); err != nil {
			return "", fmt.Errorf("insert rule %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// GetSnapshot loads a snapshot and its rules in catalog order
func (s *sqliteStore) GetSnapshot(ctx context.Context, id string) (store.Snapshot, error) {
	var (
		snap    store.Snapshot
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM snapshots WHERE id = ?`, id,
	).Scan(&snap.ID, &snap.Name, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Snapshot{}, fmt.Errorf("snapshot %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Snapshot{}, err
	}
	if snap.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return store.Snapshot{}, fmt.Errorf("snapshot %s: created_at: %w", id, err)
	}

	entries, err := s.loadEntries(ctx, id)
	if err != nil {
		return store.Snapshot{}, err
	}
	snap.Entries = entries
	return snap, nil
}

func (s *sqliteStore) loadEntries(ctx context.Context, id string) ([]catalog.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT match_suffix, replace_suffix, required, result, reason
FROM snapshot_rules
WHERE snapshot_id = ?
ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []catalog.Entry
	for rows.Next() {
		var (
			e                catalog.Entry
			required, result string
		)
		if err := rows.Scan(&e.MatchSuffix, &e.ReplaceSuffix, &required, &result, &e.Reason); err != nil {
			return nil, err
		}
		if e.Required, err = catalog.ParseCategories(strings.Fields(required)); err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", id, err)
		}
		if e.Result, err = catalog.ParseCategories(strings.Fields(result)); err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", id, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LatestSnapshot returns the snapshot with the greatest ID
func (s *sqliteStore) LatestSnapshot(ctx context.Context) (store.Snapshot, bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM snapshots ORDER BY id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Snapshot{}, false, nil
	}
	if err != nil {
		return store.Snapshot{}, false, err
	}
	snap, err := s.GetSnapshot(ctx, id)
	if err != nil {
		return store.Snapshot{}, false, err
	}
	return snap, true, nil
}

// ListSnapshots returns snapshot headers with rule counts, newest first
func (s *sqliteStore) ListSnapshots(ctx context.Context) ([]store.SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT s.id, s.name, s.created_at, COUNT(r.position)
FROM snapshots s
LEFT JOIN snapshot_rules r ON r.snapshot_id = s.id
GROUP BY s.id
ORDER BY s.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.SnapshotInfo
	for rows.Next() {
		var (
			info    store.SnapshotInfo
			created string
		)
		if err := rows.Scan(&info.ID, &info.Name, &created, &info.Rules); err != nil {
			return nil, err
		}
		if info.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("snapshot %s: created_at: %w", info.ID, err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteSnapshot removes a snapshot and its rules
func (s *sqliteStore) DeleteSnapshot(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// foreign_keys is per connection, so rules are removed explicitly
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_rules WHERE snapshot_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("snapshot %s: %w", id, internalerr.ErrNotFound)
	}
	return tx.Commit()
}
