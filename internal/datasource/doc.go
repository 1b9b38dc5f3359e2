// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package datasource fetches remote JSON and text for the feed setup steps.
//
// Every request passes a URL guard (http and https only; loopback only in
// offline mode) and a shared rate limiter before it reaches the network.
//
// # Key Types
//
//   - DataSource: Fetch interface consumed by package feeds
//   - HTTP: net/http implementation with limiter, size cap and guard
//
// # Usage
//
//	src := datasource.NewHTTP(datasource.Options{RequestsPerMinute: 30})
//	var body map[string]any
//	if err := src.FetchJSON(ctx, url, &body); err != nil {
//	    // fall back to cached data
//	}
package datasource
