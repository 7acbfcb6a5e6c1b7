package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"studytrace/internal/modules/segmentation/domain"

	_ "modernc.org/sqlite"
)

// SQLiteEventStore keeps the event table in a `logs` table. It serves as an
// event source and as a snapshot sink for CSV imports.
type SQLiteEventStore struct {
	db *sql.DB
}

func NewSQLiteEventStore(dbPath string) (*SQLiteEventStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteEventStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteEventStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteEventStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS logs (
  student_id TEXT NOT NULL,
  unix_time_ms INTEGER NOT NULL,
  duration REAL NOT NULL,
  estimated_duration REAL NOT NULL,
  component TEXT NOT NULL,
  course_area TEXT NOT NULL,
  event_name TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS logs_student_time ON logs(student_id, unix_time_ms);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create logs table: %w", err)
	}
	return nil
}

func (s *SQLiteEventStore) LoadEvents(ctx context.Context, window domain.Window) ([]domain.Event, error) {
	query := `SELECT student_id, unix_time_ms, duration, estimated_duration, component, course_area, event_name FROM logs`
	var (
		where []string
		args  []any
	)
	if !window.From.IsZero() {
		where = append(where, "unix_time_ms >= ?")
		args = append(args, window.From.UnixMilli())
	}
	if !window.Until.IsZero() {
		where = append(where, "unix_time_ms < ?")
		args = append(args, window.Until.UnixMilli())
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY student_id, unix_time_ms, rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var (
			e  domain.Event
			ms int64
		)
		if err := rows.Scan(&e.StudentID, &ms, &e.Duration, &e.EstimatedDuration, &e.Component, &e.CourseArea, &e.EventName); err != nil {
			return nil, fmt.Errorf("scan log row: %w", err)
		}
		e.Timestamp = time.UnixMilli(ms).UTC()
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate logs: %w", err)
	}
	return events, nil
}

func (s *SQLiteEventStore) ReplaceEvents(ctx context.Context, events []domain.Event) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM logs`); err != nil {
		return 0, fmt.Errorf("reset logs: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO logs (student_id, unix_time_ms, duration, estimated_duration, component, course_area, event_name)
VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, e := range events {
		if _, err := stmt.ExecContext(ctx, e.StudentID, e.Timestamp.UnixMilli(), e.Duration, e.EstimatedDuration, e.Component, e.CourseArea, e.EventName); err != nil {
			return 0, fmt.Errorf("insert log row: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit logs: %w", err)
	}
	return len(events), nil
}
