// Package localstore holds the agent's offline state in a single SQLite
// file: the pending scan queue and the cached user credentials.
package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// schemaVersion identifies the on-disk layout. Opening a file with a
// different version drops it and starts fresh; queued items are the only
// local data and they can always be re-captured.
const schemaVersion = 1

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS pending_items (
    pending_id TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL,
    tree_code  TEXT NOT NULL,
    image_data TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS user_credentials (
    user_id       TEXT PRIMARY KEY,
    f_name        TEXT NOT NULL,
    l_name        TEXT NOT NULL,
    email         TEXT NOT NULL,
    role          TEXT NOT NULL,
    profile_image BLOB,
    token         TEXT NOT NULL DEFAULT ''
);
`

type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the agent database at path. A schema version
// mismatch removes the old file and recreates the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, wrapStorage("open", errors.New("database path is empty"))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, wrapStorage("open", err)
	}

	db, err := connect(ctx, path)
	if err != nil {
		return nil, err
	}

	version, err := readSchemaVersion(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	if version != 0 && version != schemaVersion {
		db.Close()
		if err := os.Remove(path); err != nil {
			return nil, wrapStorage("remove old database", err)
		}
		db, err = connect(ctx, path)
		if err != nil {
			return nil, err
		}
		version = 0
	}

	if version == 0 {
		if _, err := db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			db.Close()
			return nil, wrapStorage("init schema version", err)
		}
	}

	return &Store{db: db, path: path}, nil
}

func connect(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, wrapStorage("open", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, wrapStorage("ping", err)
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, wrapStorage("create schema", err)
	}

	return db, nil
}

func readSchemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, wrapStorage("read schema version", err)
	}
	return version, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Path() string {
	return s.path
}

// StorageError marks failures of the local database itself (a locked or
// full disk rather than a caller mistake).
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("local store: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func wrapStorage(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
