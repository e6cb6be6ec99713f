package db

import (
	"database/sql"
	"fmt"
	"time"
)

// GetItem returns the stored value for key. ok is false when the key is absent.
func (db *DB) GetItem(key string) (value string, ok bool, err error) {
	err = db.conn.QueryRow(`SELECT value FROM local_storage WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// SetItem stores value under key, replacing any previous value.
func (db *DB) SetItem(key, value string) error {
	return db.withWriteLock(func() error {
		_, err := db.conn.Exec(`INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		return nil
	})
}

// RemoveItems deletes the given keys in a single transaction, so a reader
// never observes only some of them gone.
func (db *DB) RemoveItems(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return db.withWriteLock(func() error {
		tx, err := db.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}
		for _, key := range keys {
			if _, err := tx.Exec(`DELETE FROM local_storage WHERE key = ?`, key); err != nil {
				tx.Rollback()
				return fmt.Errorf("remove %s: %w", key, err)
			}
		}
		return tx.Commit()
	})
}

// Keys returns every stored key in lexical order.
func (db *DB) Keys() ([]string, error) {
	rows, err := db.conn.Query(`SELECT key FROM local_storage ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
