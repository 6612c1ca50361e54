package pattern

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/planckhq/planck/pkg/models"
)

// Store provides optional sqlite-backed persistence for patterns.
// The Matcher never touches it; callers that want patterns to survive
// restarts load the store into a Matcher at startup and save on change.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// DefaultDBPath returns the path to the user-level pattern database.
func DefaultDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "planck", "patterns.db")
}

// NewStore opens (creating if needed) the pattern database at dbPath.
// It creates the parent directories if they don't exist.
func NewStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for concurrent reads
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	return &Store{db: conn, dbPath: dbPath}, nil
}

// Migrate creates the patterns table if it does not exist.
func (s *Store) Migrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS patterns (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			goal TEXT NOT NULL,
			tasks TEXT,
			tools TEXT,
			success_count INTEGER NOT NULL DEFAULT 0,
			failure_count INTEGER NOT NULL DEFAULT 0,
			avg_duration_ms INTEGER NOT NULL DEFAULT 0,
			confidence REAL NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create patterns table: %w", err)
	}
	return nil
}

// Save inserts or replaces a pattern row.
func (s *Store) Save(p *models.Pattern) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasksJSON, err := json.Marshal(p.Tasks)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	toolsJSON, err := json.Marshal(p.Tools)
	if err != nil {
		return fmt.Errorf("marshal tools: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO patterns
			(id, name, description, goal, tasks, tools,
			 success_count, failure_count, avg_duration_ms, confidence,
			 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Description, p.Goal, string(tasksJSON), string(toolsJSON),
		p.SuccessCount, p.FailureCount, p.AvgDurationMS, p.Confidence,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save pattern: %w", err)
	}
	return nil
}

// LoadAll returns every stored pattern ordered by creation time.
func (s *Store) LoadAll() ([]*models.Pattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, description, goal, tasks, tools,
		       success_count, failure_count, avg_duration_ms, confidence,
		       created_at, updated_at
		FROM patterns
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query patterns: %w", err)
	}
	defer rows.Close()

	var patterns []*models.Pattern
	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, rows.Err()
}

// Delete removes a pattern row by ID. Deleting an unknown ID is not an error.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM patterns WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete pattern: %w", err)
	}
	return nil
}

// Path returns the path to the database file.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func scanPattern(rows *sql.Rows) (*models.Pattern, error) {
	var p models.Pattern
	var tasksJSON, toolsJSON sql.NullString
	var createdAt, updatedAt string

	err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Goal, &tasksJSON, &toolsJSON,
		&p.SuccessCount, &p.FailureCount, &p.AvgDurationMS, &p.Confidence,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan pattern: %w", err)
	}

	if tasksJSON.Valid && tasksJSON.String != "" {
		if err := json.Unmarshal([]byte(tasksJSON.String), &p.Tasks); err != nil {
			return nil, fmt.Errorf("unmarshal tasks: %w", err)
		}
	}
	if toolsJSON.Valid && toolsJSON.String != "" {
		if err := json.Unmarshal([]byte(toolsJSON.String), &p.Tools); err != nil {
			return nil, fmt.Errorf("unmarshal tools: %w", err)
		}
	}

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &p, nil
}

// formatTime formats a time.Time for sqlite storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime parses a time string from sqlite.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
