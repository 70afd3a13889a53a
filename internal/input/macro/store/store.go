// Package store keeps a library of named macros in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/dshills/keymacro/internal/input/macro"
)

// ErrNotFound indicates no macro is stored under the requested name.
var ErrNotFound = errors.New("macro not found")

const schema = `
	CREATE TABLE IF NOT EXISTS macros (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		updatedAt REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS actions (
		macroId TEXT NOT NULL REFERENCES macros(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		kind TEXT NOT NULL,
		payload TEXT NOT NULL,
		PRIMARY KEY (macroId, position)
	);
`

// Summary describes one stored macro.
type Summary struct {
	ID        string
	Name      string
	Actions   int
	UpdatedAt time.Time
}

// Store provides access to the macro library.
type Store struct {
	db *sql.DB
}

// DefaultDBPath returns the default database path.
func DefaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "keymacro", "library.sqlite")
}

// Open opens (creating if needed) the library at path with WAL enabled.
// Use ":memory:" for a throwaway library.
func Open(path string) (*Store, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create library directory: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores actions under name, replacing any macro with that name.
// It returns the macro id, which is kept across replacements.
func (s *Store) Save(ctx context.Context, name string, actions []macro.Action) (string, error) {
	if name == "" {
		return "", errors.New("macro name is empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRowContext(ctx, `SELECT id FROM macros WHERE name = ?`, name).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.NewString()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO macros (id, name, updatedAt) VALUES (?, ?, ?)`,
			id, name, unixFromTime(time.Now())); err != nil {
			return "", fmt.Errorf("insert macro: %w", err)
		}
	case err != nil:
		return "", fmt.Errorf("query macro: %w", err)
	default:
		if _, err := tx.ExecContext(ctx,
			`UPDATE macros SET updatedAt = ? WHERE id = ?`,
			unixFromTime(time.Now()), id); err != nil {
			return "", fmt.Errorf("update macro: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM actions WHERE macroId = ?`, id); err != nil {
			return "", fmt.Errorf("clear actions: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO actions (macroId, position, kind, payload) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare actions: %w", err)
	}
	defer stmt.Close()

	for i, a := range actions {
		if _, err := stmt.ExecContext(ctx, id, i, a.Kind().String(), macro.Payload(a)); err != nil {
			return "", fmt.Errorf("insert action %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save: %w", err)
	}
	return id, nil
}

// Load returns the actions stored under name, in playback order.
func (s *Store) Load(ctx context.Context, name string) ([]macro.Action, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM macros WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("query macro: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, payload
		FROM actions
		WHERE macroId = ?
		ORDER BY position ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	var actions []macro.Action
	for rows.Next() {
		var kindName, payload string
		if err := rows.Scan(&kindName, &payload); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		kind, err := macro.ParseKind(kindName)
		if err != nil {
			return nil, err
		}
		a, err := macro.FromPayload(kind, payload)
		if err != nil {
			return nil, fmt.Errorf("decode action %d: %w", len(actions), err)
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

// List returns all stored macros ordered by name.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.name, m.updatedAt, COUNT(a.position)
		FROM macros m
		LEFT JOIN actions a ON a.macroId = m.id
		GROUP BY m.id
		ORDER BY m.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query macros: %w", err)
	}
	defer rows.Close()

	var result []Summary
	for rows.Next() {
		var sum Summary
		var updatedAt float64
		if err := rows.Scan(&sum.ID, &sum.Name, &updatedAt, &sum.Actions); err != nil {
			return nil, fmt.Errorf("scan macro: %w", err)
		}
		sum.UpdatedAt = timeFromUnix(updatedAt)
		result = append(result, sum)
	}
	return result, rows.Err()
}

// Delete removes the macro stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM macros WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete macro: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete macro: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

func unixFromTime(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func timeFromUnix(f float64) time.Time {
	sec := int64(f)
	nsec := int64((f - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
