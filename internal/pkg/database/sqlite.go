package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS punch_events (
  id                 TEXT PRIMARY KEY,
  staff_id           TEXT NOT NULL,
  punch_type         TEXT NOT NULL CHECK (punch_type IN ('in', 'out', 'break_start', 'break_end')),
  punched_at_ms      INTEGER NOT NULL,
  latitude           REAL,
  longitude          REAL,
  is_within_geofence INTEGER NOT NULL DEFAULT 0,
  distance_meters    REAL,
  created_at_ms      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_punch_events_staff_time ON punch_events(staff_id, punched_at_ms);
CREATE INDEX IF NOT EXISTS idx_punch_events_time ON punch_events(punched_at_ms);
`

// NewSQLiteDB opens (creating if needed) a SQLite database at path and applies
// the punch schema. Use ":memory:" for a throwaway database.
func NewSQLiteDB(ctx context.Context, path string) (*sql.DB, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir db dir: %w", err)
		}
		dsn = fmt.Sprintf(
			"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)",
			path,
		)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	// Single connection: SQLite serializes writers, and ":memory:" is per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	return db, nil
}
