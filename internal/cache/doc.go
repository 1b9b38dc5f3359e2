// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache implements an age-bounded cache over named storage blobs.
//
// A cached blob has two independent thresholds measured in minutes since
// it was last written. Past the hard limit (maxAge) the blob is treated as
// absent. Past the soft limit (minAge) it is still returned but marked
// Expired, so callers can try to refresh it and fall back to the stale
// payload when the refresh fails.
//
// # Key Types
//
//   - Bounded: Cache reading blobs from a storage.Storage
//   - Entry: Cached payload plus its expired flag
//   - State: Fresh, Stale or Absent classification of an age
//
// # Usage
//
//	c := cache.New(store)
//	entry := c.Get("zonedash-sunrise", 60, 1440)
//	if entry == nil || entry.Expired {
//	    // refresh from the network
//	}
package cache
