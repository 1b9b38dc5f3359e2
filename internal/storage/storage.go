// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound is returned when a blob does not exist.
	ErrNotFound = errors.New("blob not found")

	// ErrInvalidName is returned for names that could escape the store.
	ErrInvalidName = errors.New("invalid blob name")

	// ErrUnknownBackend is returned by Open for unsupported backends.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// =============================================================================
// INTERFACE
// =============================================================================

// Storage persists named text blobs.
type Storage interface {
	// Exists reports whether a blob is present.
	Exists(name string) bool
	// ReadText returns the blob contents or ErrNotFound.
	ReadText(name string) (string, error)
	// WriteText creates or replaces a blob.
	WriteText(name, text string) error
	// LastModified returns when the blob was last written.
	LastModified(name string) (time.Time, error)
	// Remove deletes a blob. Removing a missing blob is not an error.
	Remove(name string) error
	// List returns blob names with the given prefix, sorted.
	List(prefix string) ([]string, error)
	// Close releases resources held by the backend.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFiles  = "files"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	// Dir is the blob directory for the files backend.
	Dir string
	// Database is the database path for the sqlite backend.
	Database string
}

// DefaultDir returns ~/.zonedash/data.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".zonedash", "data")
	}
	return filepath.Join(home, ".zonedash", "data")
}

// Open returns the backend named in opts.
func Open(opts Options) (Storage, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendFiles:
		dir := opts.Dir
		if dir == "" {
			dir = DefaultDir()
		}
		return NewFiles(dir)
	case BackendSQLite:
		path := opts.Database
		if path == "" {
			path = filepath.Join(DefaultDir(), "zonedash.db")
		}
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// validateName rejects names that are empty or contain path elements.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
