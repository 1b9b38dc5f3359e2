// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides named text blob persistence for zonedash.
//
// Every persisted artifact (preferences, backgrounds, layouts and cached
// feed responses) is a text blob addressed by name, with a last-modified
// time the cache uses to compute age.
//
// # Key Types
//
//   - Storage: Blob interface used by settings, cache and feeds
//   - Files: One file per blob under a base directory, written atomically
//   - SQLite: All blobs in a single SQLite table
//   - Memory: In-process store with controllable modification times
//
// # Usage
//
//	store, err := storage.Open(storage.Options{Backend: "files", Dir: dir})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//	err = store.WriteText("zonedash-preferences-main", data)
//
// # Storage Location
//
// Blobs are stored in ~/.zonedash/data/ by default.
package storage
