// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - JSON output for scripting.
//
// Every command accepts --json and wraps its payload in a JSONResponse.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// JSONResponse is the response envelope for all commands.
type JSONResponse struct {
	// Success indicates whether the command completed successfully
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// ErrorType classifies the error for scripts
	ErrorType string `json:"error_type,omitempty"`

	// Timestamp is the ISO8601 timestamp when the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Error:     &errStr,
		ErrorType: errorType(err),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Write outputs the indented JSON response to w.
func (r *JSONResponse) Write(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(r)
}

// String returns the JSON response as a string.
func (r *JSONResponse) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":"failed to marshal response: %s","timestamp":"%s"}`,
			err.Error(), time.Now().UTC().Format(time.RFC3339))
	}
	return string(data)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// RenderData is returned by the render command.
type RenderData struct {
	Widget      string           `json:"widget"`
	Size        string           `json:"size"`
	Dark        bool             `json:"dark"`
	Output      string           `json:"output"`
	Diagnostics []DiagnosticData `json:"diagnostics"`
}

// DiagnosticData is one layout compile problem.
type DiagnosticData struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// LayoutCheckData is returned by layout check.
type LayoutCheckData struct {
	Source      string           `json:"source"`
	Nodes       int              `json:"nodes"`
	Valid       bool             `json:"valid"`
	Diagnostics []DiagnosticData `json:"diagnostics"`
}

// SettingData is one resolved preference.
type SettingData struct {
	Category string `json:"category"`
	Key      string `json:"key"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Value    string `json:"value"`
}

// CacheEntryData describes one cached feed blob.
type CacheEntryData struct {
	Name       string  `json:"name"`
	Present    bool    `json:"present"`
	AgeMinutes float64 `json:"age_minutes,omitempty"`
	State      string  `json:"state"`
}

// VersionData represents the data returned by the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version,omitempty"`
}
