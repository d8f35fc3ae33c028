// Package session holds the per-connection project selection and resolves
// which configured tenant a tool call targets.
package session

import (
	"sync"
	"time"
)

// Session tracks the currently selected project for one adapter instance.
// It is never persisted and never shared across server instances; a mutex
// guards it because the MCP host may issue concurrent tool calls.
type Session struct {
	mu           sync.Mutex
	selectedKey  string
	autoDetected bool
	detectedAt   time.Time
}

// New creates an empty session with no selection.
func New() *Session {
	return &Session{}
}

// Snapshot returns the current selection state.
func (s *Session) Snapshot() (key string, autoDetected bool, detectedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedKey, s.autoDetected, s.detectedAt
}

// Select records an explicit project choice and clears the auto-detected
// flag: an explicit switch outranks any future auto-detection.
func (s *Session) Select(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedKey = key
	s.autoDetected = false
	s.detectedAt = time.Time{}
}

// SetAutoDetected caches an auto-detection result with its timestamp.
func (s *Session) SetAutoDetected(key string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedKey = key
	s.autoDetected = true
	s.detectedAt = at
}
