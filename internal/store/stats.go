package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath      string      `json:"db_path"`
	DBSizeBytes int64       `json:"db_size_bytes"`
	TotalSlots  int         `json:"total_slots"`
	Slots       []SlotStats `json:"slots"`
}

// SlotStats describes one stored slot without its value.
type SlotStats struct {
	Key       string `json:"key"`
	Bytes     int    `json:"bytes"`
	UpdatedAt string `json:"updated_at"`
}

// Stats returns database statistics. Slot values are never included since
// they hold credentials.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT key, LENGTH(value), updated_at
		FROM slots ORDER BY key`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var sl SlotStats
		if err := rows.Scan(&sl.Key, &sl.Bytes, &sl.UpdatedAt); err != nil {
			return st, err
		}
		st.Slots = append(st.Slots, sl)
	}
	st.TotalSlots = len(st.Slots)

	return st, rows.Err()
}
