// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jeranaias/zonedash/internal/storage"
)

// Threshold sentinels.
const (
	// NeverExpire as minAge never marks an entry expired.
	NeverExpire = -1
	// NoLimit as maxAge disables the hard limit. Other values, negative
	// ones included, are hard bounds.
	NoLimit = -1
)

// =============================================================================
// CLASSIFICATION
// =============================================================================

// State is the outcome of checking an entry's age.
type State int

const (
	// Fresh entries are returned as-is.
	Fresh State = iota
	// Stale entries are returned with Expired set.
	Stale
	// Absent entries are not returned.
	Absent
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "absent"
	}
}

// Classify applies the thresholds to an age in minutes. maxAge NoLimit
// means no hard limit. minAge NeverExpire never goes stale and minAge 0
// is always stale.
func Classify(ageMinutes float64, minAge, maxAge int) State {
	if maxAge != NoLimit && ageMinutes > float64(maxAge) {
		return Absent
	}
	if minAge != NeverExpire && (minAge == 0 || ageMinutes > float64(minAge)) {
		return Stale
	}
	return Fresh
}

// =============================================================================
// BOUNDED CACHE
// =============================================================================

// Entry is a cached payload.
type Entry struct {
	Payload  json.RawMessage
	Expired  bool
	Modified time.Time
}

// Decode unmarshals the payload into v.
func (e *Entry) Decode(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decode cache payload: %w", err)
	}
	return nil
}

// Stats counts cache outcomes.
type Stats struct {
	Fresh  int
	Stale  int
	Absent int
	Errors int
}

// Bounded reads and writes cached blobs through a storage backend.
type Bounded struct {
	store storage.Storage
	now   func() time.Time

	mu    sync.Mutex
	stats Stats
}

// Option configures a Bounded cache.
type Option func(*Bounded)

// WithClock sets the clock used to compute ages.
func WithClock(now func() time.Time) Option {
	return func(b *Bounded) { b.now = now }
}

// New returns a cache over store.
func New(store storage.Storage, opts ...Option) *Bounded {
	b := &Bounded{store: store, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Get returns the blob at name subject to the thresholds, or nil when it
// is missing, past maxAge, or unreadable. Storage and decode failures are
// treated as a miss.
func (b *Bounded) Get(name string, minAge, maxAge int) *Entry {
	if !b.store.Exists(name) {
		b.count(Absent, false)
		return nil
	}

	modified, err := b.store.LastModified(name)
	if err != nil {
		b.count(Absent, true)
		return nil
	}
	age := b.now().Sub(modified).Minutes()

	state := Classify(age, minAge, maxAge)
	if state == Absent {
		b.count(Absent, false)
		return nil
	}

	text, err := b.store.ReadText(name)
	if err != nil || !json.Valid([]byte(text)) {
		b.count(Absent, true)
		return nil
	}

	b.count(state, false)
	return &Entry{
		Payload:  json.RawMessage(text),
		Expired:  state == Stale,
		Modified: modified,
	}
}

// Put encodes v as JSON and writes it to name.
func (b *Bounded) Put(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache payload: %w", err)
	}
	return b.store.WriteText(name, string(data))
}

// Age returns how long ago name was written, or false when it is missing.
func (b *Bounded) Age(name string) (time.Duration, bool) {
	modified, err := b.store.LastModified(name)
	if err != nil {
		return 0, false
	}
	return b.now().Sub(modified), true
}

// Stats returns a snapshot of the outcome counters.
func (b *Bounded) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

func (b *Bounded) count(state State, failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if failed {
		b.stats.Errors++
	}
	switch state {
	case Fresh:
		b.stats.Fresh++
	case Stale:
		b.stats.Stale++
	default:
		b.stats.Absent++
	}
}
