package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// GetSchemaVersion returns the recorded schema version, 0 for a store that
// predates versioning.
func (db *DB) GetSchemaVersion() (int, error) {
	var raw string
	err := db.conn.QueryRow(`SELECT value FROM schema_info WHERE key = 'version'`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("schema version %q: %w", raw, err)
	}
	return v, nil
}

func (db *DB) recordVersion(tx *sql.Tx, version int) error {
	_, err := tx.Exec(`INSERT OR REPLACE INTO schema_info (key, value) VALUES ('version', ?)`, strconv.Itoa(version))
	return err
}

// RunMigrations applies pending migrations under the write lock and returns
// how many ran. Each migration commits with its version bump, so an
// interrupted upgrade resumes where it stopped.
func (db *DB) RunMigrations() (int, error) {
	if v, err := db.GetSchemaVersion(); err == nil && v >= SchemaVersion {
		return 0, nil
	}

	ran := 0
	err := db.withWriteLock(func() error {
		current, err := db.GetSchemaVersion()
		if err != nil {
			return fmt.Errorf("get schema version: %w", err)
		}
		for _, m := range Migrations {
			if m.Version <= current {
				continue
			}
			if err := db.apply(m); err != nil {
				return err
			}
			ran++
		}
		if current == 0 && ran == 0 {
			return db.apply(Migration{Version: SchemaVersion, Description: "stamp fresh store"})
		}
		return nil
	})
	return ran, err
}

func (db *DB) apply(m Migration) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if m.SQL != "" {
		if _, err := tx.Exec(m.SQL); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
	}
	if err := db.recordVersion(tx, m.Version); err != nil {
		return fmt.Errorf("set version %d: %w", m.Version, err)
	}
	return tx.Commit()
}
