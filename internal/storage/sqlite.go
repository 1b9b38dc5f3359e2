// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// blobSchema is the single table holding every blob.
const blobSchema = `
CREATE TABLE IF NOT EXISTS blobs (
	name     TEXT PRIMARY KEY,
	body     TEXT NOT NULL,
	modified INTEGER NOT NULL
);
`

// SQLite stores blobs in one table of a SQLite database.
type SQLite struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(blobSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLite{db: db, path: path, now: time.Now}, nil
}

// Path returns the database path.
func (s *SQLite) Path() string { return s.path }

// Exists reports whether a row exists for name.
func (s *SQLite) Exists(name string) bool {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM blobs WHERE name = ?", name).Scan(&one)
	return err == nil
}

// ReadText returns the stored body.
func (s *SQLite) ReadText(name string) (string, error) {
	var body string
	err := s.db.QueryRow("SELECT body FROM blobs WHERE name = ?", name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return body, nil
}

// WriteText upserts the body and stamps the modification time.
func (s *SQLite) WriteText(name, text string) error {
	if err := validateName(name); err != nil {
		return err
	}
	_, err := s.db.Exec(`
		INSERT INTO blobs (name, body, modified) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, modified = excluded.modified`,
		name, text, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// LastModified returns the stored modification time.
func (s *SQLite) LastModified(name string) (time.Time, error) {
	var ms int64
	err := s.db.QueryRow("SELECT modified FROM blobs WHERE name = ?", name).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", name, err)
	}
	return time.UnixMilli(ms), nil
}

// Remove deletes the row for name.
func (s *SQLite) Remove(name string) error {
	_, err := s.db.Exec("DELETE FROM blobs WHERE name = ?", name)
	return err
}

// List returns stored names with the given prefix.
func (s *SQLite) List(prefix string) ([]string, error) {
	rows, err := s.db.Query(
		"SELECT name FROM blobs WHERE substr(name, 1, ?) = ? ORDER BY name",
		len(prefix), prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
