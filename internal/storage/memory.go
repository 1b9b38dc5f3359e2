// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryBlob struct {
	text     string
	modified time.Time
}

// Memory keeps blobs in process. It is used for dry runs and tests.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string]memoryBlob
	now   func() time.Time
}

// NewMemory returns an empty memory store.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string]memoryBlob), now: time.Now}
}

// SetClock replaces the clock used to stamp writes.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Touch sets the modification time of an existing blob.
func (m *Memory) Touch(name string, t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.blobs[name]; ok {
		b.modified = t
		m.blobs[name] = b
	}
}

// Exists reports whether name is stored.
func (m *Memory) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.blobs[name]
	return ok
}

// ReadText returns the stored text.
func (m *Memory) ReadText(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return b.text, nil
}

// WriteText stores text stamped with the current clock.
func (m *Memory) WriteText(name, text string) error {
	if err := validateName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[name] = memoryBlob{text: text, modified: m.now()}
	return nil
}

// LastModified returns the write time of name.
func (m *Memory) LastModified(name string) (time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[name]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return b.modified, nil
}

// Remove deletes name.
func (m *Memory) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, name)
	return nil
}

// List returns stored names with prefix.
func (m *Memory) List(prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var names []string
	for name := range m.blobs {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
