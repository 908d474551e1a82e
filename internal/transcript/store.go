// Package transcript archives completed assistant exchanges to SQLite.
// The archive is an append-only audit log; the query path never reads it.
package transcript

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"dashterm/internal/logging"
)

// Entry is one archived exchange.
type Entry struct {
	ID          string
	Question    string
	Explanation string
	Commands    []string
	ToolCalls   int
	CreatedAt   time.Time
}

// Store wraps the SQLite archive.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS exchanges (
	id          TEXT PRIMARY KEY,
	question    TEXT NOT NULL,
	explanation TEXT NOT NULL DEFAULT '',
	commands    TEXT NOT NULL DEFAULT '[]',
	tool_calls  INTEGER NOT NULL DEFAULT 0,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_exchanges_created ON exchanges(created_at DESC);
`

// Open creates or opens the archive at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init archive schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save archives one exchange and returns its id.
func (s *Store) Save(question, explanation string, commands []string, toolCalls int) (string, error) {
	id := uuid.NewString()
	cmds, err := json.Marshal(commands)
	if err != nil {
		return "", fmt.Errorf("marshal commands: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO exchanges (id, question, explanation, commands, tool_calls, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, question, explanation, string(cmds), toolCalls, time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("insert exchange: %w", err)
	}
	logging.Get(logging.CategoryStore).Debug("archived exchange %s (%d commands)", id, len(commands))
	return id, nil
}

// Recent returns the newest entries, most recent first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, question, explanation, commands, tool_calls, created_at
		 FROM exchanges ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query exchanges: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var cmds string
		var created int64
		if err := rows.Scan(&e.ID, &e.Question, &e.Explanation, &cmds, &e.ToolCalls, &created); err != nil {
			return nil, fmt.Errorf("scan exchange: %w", err)
		}
		if err := json.Unmarshal([]byte(cmds), &e.Commands); err != nil {
			return nil, fmt.Errorf("decode commands for %s: %w", e.ID, err)
		}
		e.CreatedAt = time.Unix(created, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of archived exchanges.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM exchanges`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count exchanges: %w", err)
	}
	return n, nil
}
