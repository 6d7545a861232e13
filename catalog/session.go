package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const (
	sessionKeyToken    = "token"
	sessionKeyUsername = "username"
)

// SessionStore persists the auth token and username across runs in a small
// SQLite database, the terminal-app counterpart of browser localStorage.
// Token validity is solely the backend's concern; nothing here expires.
type SessionStore struct {
	db *sql.DB
}

// NewSessionStore opens (or creates) the database at path and bootstraps
// the session table.
func NewSessionStore(path string) (*SessionStore, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS session (key TEXT PRIMARY KEY, value TEXT NOT NULL);`); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrap session store: %w", err)
	}
	return &SessionStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SessionStore) Close() error { return s.db.Close() }

// Save writes both entries in one transaction so a later Load never sees a
// token without its username.
func (s *SessionStore) Save(token, username string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	entries := map[string]string{
		sessionKeyToken:    token,
		sessionKeyUsername: username,
	}
	for k, v := range entries {
		if _, err := tx.Exec(`INSERT INTO session(key,value) VALUES(?,?)
			ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, k, v); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	}
	return tx.Commit()
}

// Load returns the stored session, or a zero Session when none exists.
func (s *SessionStore) Load() (Session, error) {
	rows, err := s.db.Query(`SELECT key, value FROM session`)
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	defer rows.Close()

	var sess Session
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return Session{}, err
		}
		switch k {
		case sessionKeyToken:
			sess.Token = v
		case sessionKeyUsername:
			sess.Username = v
		}
	}
	return sess, rows.Err()
}

// Clear removes both entries (logout).
func (s *SessionStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM session`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
