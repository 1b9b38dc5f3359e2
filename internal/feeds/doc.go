// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package feeds sets up the external data used by content items.
//
// Each setup step consults the bounded cache first, fetches from its data
// source when the cached copy is missing or expired, and falls back to
// whatever it last had when the fetch fails. Failures never propagate to
// the layout compile; items render "no data" instead.
//
// # Key Types
//
//   - Set: Per-render memo of location, sun and COVID data
//   - Location: Coordinates and locality name
//   - Sun: Today's sunrise/sunset and tomorrow's sunrise
//   - Covid, Feature: Health-region query results
//
// # Cache Thresholds (minutes)
//
//   - location: soft = widget.updateLocation, no hard limit
//   - sunrise: soft 60, hard 1440
//   - covid: never soft, hard 60
package feeds
