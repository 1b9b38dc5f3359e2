// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/zonedash/internal/util"
)

// Files stores each blob as a file in BaseDir.
type Files struct {
	// BaseDir is the directory holding blobs.
	// Default: ~/.zonedash/data/
	BaseDir string
}

// NewFiles creates a file store, creating dir if needed.
func NewFiles(dir string) (*Files, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Files{BaseDir: dir}, nil
}

func (s *Files) path(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.BaseDir, name), nil
}

// Exists reports whether the blob file exists.
func (s *Files) Exists(name string) bool {
	p, err := s.path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// ReadText reads the blob file.
func (s *Files) ReadText(name string) (string, error) {
	p, err := s.path(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", err
	}
	return string(data), nil
}

// WriteText writes the blob file atomically.
func (s *Files) WriteText(name, text string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(p, []byte(text), 0600)
}

// LastModified returns the file modification time.
func (s *Files) LastModified(name string) (time.Time, error) {
	p, err := s.path(name)
	if err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// Remove deletes the blob file.
func (s *Files) Remove(name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// List returns blob names in BaseDir with the given prefix.
func (s *Files) List(prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		// Skip directories and temp files left by interrupted writes.
		if e.IsDir() || strings.HasPrefix(name, ".tmp-") {
			continue
		}
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Close is a no-op for the file store.
func (s *Files) Close() error { return nil }
