// Package store provides SQLite-backed persistence for the content pool
// and the attempt log.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store wraps the database handle and hands out repositories.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database at dsn, applies recommended
// pragmas, and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Exams returns an ExamRepo backed by this store.
func (s *Store) Exams() ExamRepo { return &examRepo{db: s.db} }

// Questions returns a QuestionRepo backed by this store.
func (s *Store) Questions() QuestionRepo { return &questionRepo{db: s.db} }

// Attempts returns an AttemptRepo backed by this store.
func (s *Store) Attempts() AttemptRepo { return &attemptRepo{db: s.db} }

// Users returns a UserRepo backed by this store.
func (s *Store) Users() UserRepo { return &userRepo{db: s.db} }

// applyPragmas configures SQLite for single-writer service use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// migrate creates the schema. Statements are idempotent so Open can run
// them on every start.
func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS exams (
			id          INTEGER PRIMARY KEY,
			name        TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS subjects (
			id      INTEGER PRIMARY KEY,
			exam_id INTEGER NOT NULL REFERENCES exams(id),
			name    TEXT NOT NULL,
			UNIQUE (exam_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			id          INTEGER PRIMARY KEY,
			subject_id  INTEGER NOT NULL REFERENCES subjects(id),
			text        TEXT NOT NULL,
			topic       TEXT NOT NULL DEFAULT '',
			difficulty  TEXT NOT NULL DEFAULT 'medium',
			explanation TEXT NOT NULL DEFAULT '',
			year        INTEGER NOT NULL DEFAULT 0,
			source      TEXT NOT NULL DEFAULT 'authored'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_subject ON questions(subject_id)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_topic ON questions(topic)`,
		`CREATE TABLE IF NOT EXISTS choices (
			id          INTEGER PRIMARY KEY,
			question_id INTEGER NOT NULL REFERENCES questions(id),
			label       TEXT NOT NULL DEFAULT '',
			text        TEXT NOT NULL,
			is_correct  INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_choices_question ON choices(question_id)`,
		`CREATE TABLE IF NOT EXISTS attempts (
			id          INTEGER PRIMARY KEY,
			learner_id  INTEGER NOT NULL,
			question_id INTEGER NOT NULL REFERENCES questions(id),
			topic       TEXT NOT NULL,
			difficulty  TEXT NOT NULL,
			correct     INTEGER NOT NULL,
			created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_learner ON attempts(learner_id)`,
		`CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. PASTQ_DB environment variable
// 2. $XDG_DATA_HOME/pastq/pastq.db
// 3. ~/.local/share/pastq/pastq.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("PASTQ_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "pastq", "pastq.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
