// Package store is the SQLite-backed repository layer. It persists projects,
// teams, tasks and tickets and answers the filtered list queries the services
// and the portal need. The store enforces referential integrity only;
// workflow and dependency rules are the services' job.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

const dirPerms = 0o750

// DBFileName is the database file created inside the data directory.
const DBFileName = "nexuspm.db"

// Store holds the SQLite handle for all repositories.
type Store struct {
	dir string
	sql *sql.DB
}

// Open initializes the database for a data directory, creating the directory
// and schema on first use. A schema version mismatch is an error; this store
// holds primary data and must not silently rebuild.
func Open(ctx context.Context, dir string) (*Store, error) {
	if ctx == nil {
		return nil, errors.New("open store: context is nil")
	}

	if dir == "" {
		return nil, errors.New("open store: directory is empty")
	}

	dataDir := filepath.Clean(dir)

	err := os.MkdirAll(dataDir, dirPerms)
	if err != nil {
		return nil, fmt.Errorf("open store: create data directory: %w", err)
	}

	db, err := openSqlite(ctx, filepath.Join(dataDir, DBFileName))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	err = ensureSchema(ctx, db)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("open store: %w", err)
	}

	return &Store{dir: dataDir, sql: db}, nil
}

// Dir returns the data directory the store was opened on.
func (s *Store) Dir() string { return s.dir }

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.sql == nil {
		return nil
	}

	err := s.sql.Close()
	s.sql = nil

	if err != nil {
		return fmt.Errorf("close store: %w", err)
	}

	return nil
}

// withTx runs fn inside a transaction, committing on nil and rolling back on
// error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if s == nil || s.sql == nil {
		return errStoreClosed
	}

	tx, err := s.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	err = fn(tx)
	if err != nil {
		_ = tx.Rollback()

		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}
