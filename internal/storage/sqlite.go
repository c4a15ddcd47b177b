package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"homework_bot/internal/model"
	"homework_bot/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// OpenReadOnly opens an existing journal for reading. It neither creates the
// file nor runs migrations, and every write on the returned store fails.
func OpenReadOnly(path string) (*SQLite, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("journal %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("journal %s: %w", path, errors.New("is a directory"))
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA query_only=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set query_only: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// RecordCycle stores the outcome of a polling cycle.
func (s *SQLite) RecordCycle(ctx context.Context, c *model.Cycle) error {
	if c.StartedAt.IsZero() {
		c.StartedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cycles (id, from_date, server_date, outcome, error_kind, error, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.FromDate, c.CurrentDate, string(c.Outcome), c.ErrorKind, c.Error,
		c.StartedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert cycle: %w", err)
	}
	return nil
}

// RecordNotification stores an outbound message and populates its ID and CreatedAt.
func (s *SQLite) RecordNotification(ctx context.Context, n *model.Notification) error {
	now := time.Now().UTC().Format(timeLayout)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (cycle_id, text, delivered, error, created_at) VALUES (?, ?, ?, ?, ?)`,
		n.CycleID, n.Text, boolToInt(n.Delivered), n.Error, now,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	n.ID = id
	n.CreatedAt, _ = time.Parse(timeLayout, now)
	return nil
}

// ListCycles returns up to limit cycles, newest first.
func (s *SQLite) ListCycles(ctx context.Context, limit int) ([]model.Cycle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, from_date, server_date, outcome, error_kind, error, started_at
		 FROM cycles ORDER BY rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cycles []model.Cycle
	for rows.Next() {
		var c model.Cycle
		var serverDate sql.NullInt64
		var outcome, started string
		if err := rows.Scan(&c.ID, &c.FromDate, &serverDate, &outcome, &c.ErrorKind, &c.Error, &started); err != nil {
			return nil, fmt.Errorf("scan cycle: %w", err)
		}
		if serverDate.Valid {
			v := serverDate.Int64
			c.CurrentDate = &v
		}
		c.Outcome = model.CycleOutcome(outcome)
		c.StartedAt, _ = time.Parse(timeLayout, started)
		cycles = append(cycles, c)
	}
	return cycles, rows.Err()
}

// ListNotifications returns up to limit notifications, newest first.
func (s *SQLite) ListNotifications(ctx context.Context, limit int) ([]model.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, cycle_id, text, delivered, error, created_at
		 FROM notifications ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		var delivered int
		var created string
		if err := rows.Scan(&n.ID, &n.CycleID, &n.Text, &delivered, &n.Error, &created); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Delivered = delivered == 1
		n.CreatedAt, _ = time.Parse(timeLayout, created)
		out = append(out, n)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
