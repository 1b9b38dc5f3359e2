// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package datasource

import (
	"errors"
	"net"
	"net/url"
	"strings"
	"sync/atomic"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidURL is returned when a URL cannot be parsed.
	ErrInvalidURL = errors.New("invalid url")

	// ErrInvalidURLScheme is returned when the scheme is not http or https.
	ErrInvalidURLScheme = errors.New("only http and https urls are allowed")

	// ErrOffline is returned for non-loopback requests in offline mode.
	ErrOffline = errors.New("network request blocked in offline mode")
)

// =============================================================================
// OFFLINE MODE
// =============================================================================

var offline atomic.Bool

// SetOfflineMode switches offline mode for the process. While it is on
// only loopback hosts can be fetched and feeds fall back to their caches.
func SetOfflineMode(enabled bool) {
	offline.Store(enabled)
}

// IsOfflineMode reports whether offline mode is on.
func IsOfflineMode() bool {
	return offline.Load()
}

// =============================================================================
// URL VALIDATION
// =============================================================================

// IsLocalhost reports whether host (with or without port) is a loopback
// name or address.
func IsLocalhost(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(strings.Trim(host, "[]"))
	if host == "localhost" {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return false
}

// ValidateURL checks that rawURL may be fetched. The scheme check always
// applies; the loopback restriction applies only in offline mode.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ErrInvalidURL
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return ErrInvalidURLScheme
	}

	if IsOfflineMode() && !IsLocalhost(parsed.Hostname()) {
		return ErrOffline
	}
	return nil
}
