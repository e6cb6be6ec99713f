package db

import (
	"fmt"
	"time"

	"github.com/marcus/wayfind/internal/models"
)

// CacheDecision records a backend-acknowledged decision for userID.
// Re-deciding the same POI overwrites the earlier verdict.
func (db *DB) CacheDecision(userID string, d models.Decision) error {
	return db.withWriteLock(func() error {
		_, err := db.conn.Exec(`INSERT INTO decisions (user_id, poi_id, liked, decided_at) VALUES (?, ?, ?, ?)
			ON CONFLICT(user_id, poi_id) DO UPDATE SET liked = excluded.liked, decided_at = excluded.decided_at`,
			userID, d.PoiID, d.Liked, decidedAt(d))
		if err != nil {
			return fmt.Errorf("cache decision %s: %w", d.PoiID, err)
		}
		return nil
	})
}

// CachedDecisions returns userID's cached decisions, oldest first.
func (db *DB) CachedDecisions(userID string) ([]models.Decision, error) {
	rows, err := db.conn.Query(`SELECT poi_id, liked, decided_at FROM decisions
		WHERE user_id = ? ORDER BY decided_at, poi_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Decision
	for rows.Next() {
		var d models.Decision
		if err := rows.Scan(&d.PoiID, &d.Liked, &d.DecidedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func decidedAt(d models.Decision) time.Time {
	if d.DecidedAt.IsZero() {
		return time.Now().UTC()
	}
	return d.DecidedAt.UTC()
}
