package tasks

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRepo is the embedded-database alternative to the flat-file
// backend; same Repository semantics, writes serialized by SQLite.
type SQLiteRepo struct {
	db *sql.DB
}

func NewSQLiteRepo(dsn string) (*SQLiteRepo, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Reasonable pragmas for an app server
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteRepo{db: db}, nil
}

func (r *SQLiteRepo) Close() error { return r.db.Close() }

func (r *SQLiteRepo) Create(description string, status Status) (Task, error) {
	t, err := newTask(description, status)
	if err != nil {
		return Task{}, err
	}
	_, err = r.db.Exec(`
		INSERT INTO tasks (id, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, t.ID, t.Description, string(t.Status),
		t.CreatedAt.Format(time.RFC3339Nano), t.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Task{}, err
	}
	return t, nil
}

func (r *SQLiteRepo) List(filter Status) ([]Task, error) {
	// rowid order matches insertion order
	q := `SELECT id, description, status, created_at, updated_at FROM tasks ORDER BY rowid ASC`
	args := []any{}
	if filter != "" {
		q = `SELECT id, description, status, created_at, updated_at FROM tasks WHERE status = ? ORDER BY rowid ASC`
		args = append(args, string(filter))
	}

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) Update(id string, upd UpdateTask) (Task, error) {
	t, err := r.get(id)
	if err != nil {
		return Task{}, err
	}
	if err := applyUpdate(&t, upd); err != nil {
		return Task{}, err
	}
	return t, r.write(t)
}

func (r *SQLiteRepo) UpdateStatus(id string, status Status) (Task, error) {
	if !status.Valid() {
		return Task{}, ErrInvalidStatus
	}
	t, err := r.get(id)
	if err != nil {
		return Task{}, err
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	return t, r.write(t)
}

func (r *SQLiteRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *SQLiteRepo) get(id string) (Task, error) {
	row := r.db.QueryRow(`
		SELECT id, description, status, created_at, updated_at
		FROM tasks WHERE id = ?
	`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return Task{}, ErrTaskNotFound
	}
	return t, err
}

func (r *SQLiteRepo) write(t Task) error {
	_, err := r.db.Exec(`
		UPDATE tasks SET description = ?, status = ?, updated_at = ?
		WHERE id = ?
	`, t.Description, string(t.Status), t.UpdatedAt.Format(time.RFC3339Nano), t.ID)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (Task, error) {
	var t Task
	var status, created, updated string
	if err := s.Scan(&t.ID, &t.Description, &status, &created, &updated); err != nil {
		return Task{}, err
	}
	t.Status = Status(status)
	if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
		t.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339Nano, updated); err == nil {
		t.UpdatedAt = ts
	}
	return t, nil
}

// ApplyMigrations ensures schema exists
func (r *SQLiteRepo) ApplyMigrations(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	description TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'todo',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
	`)
	return err
}

// Helper to build DSN like: file:/absolute/path?_pragma=busy_timeout(5000)
func SQLiteFileDSN(path string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return "file:" + filepath.ToSlash(abs) + "?_pragma=busy_timeout(5000)", nil
}
