// Package db is the client's durable local store: a small sqlite file holding
// the key/value pairs a browser build would keep in localStorage, plus a cache
// of committed POI decisions.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const dbFile = "store.db"

// DB wraps the database connection
type DB struct {
	conn    *sql.DB
	dataDir string
}

// Open opens (creating if needed) the store in dataDir and runs any pending migrations.
func Open(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	conn, err := sql.Open("sqlite", Path(dataDir))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for concurrent reads while writes are serialized
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Set busy timeout as fallback protection (500ms, matches lock timeout)
	if _, err := conn.Exec("PRAGMA busy_timeout=500"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	// Mutations must survive a crash right after they return
	conn.Exec("PRAGMA synchronous=FULL")

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	db := &DB{conn: conn, dataDir: dataDir}

	if _, err := db.RunMigrations(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

// Path returns the store file path for a data directory.
func Path(dataDir string) string {
	return filepath.Join(dataDir, dbFile)
}

// Close closes the database
func (db *DB) Close() error {
	return db.conn.Close()
}

// DataDir returns the directory holding the store
func (db *DB) DataDir() string {
	return db.dataDir
}

// withWriteLock executes fn while holding an exclusive write lock.
// This prevents concurrent writes from multiple wayfind processes.
func (db *DB) withWriteLock(fn func() error) error {
	locker := newWriteLocker(db.dataDir)
	if err := locker.acquire(defaultTimeout); err != nil {
		return err
	}
	defer locker.release()
	return fn()
}
