// Package session persists a single playback snapshot so a reader can quit
// and later resume at the same word. The store is fail-soft: storage and
// decode failures surface as boolean/absent results, never as errors or
// panics, so callers treat "no saved session" and "session failed to load"
// identically.
package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/foveal/fovea/internal/rsvp"
)

// Session is the playback snapshot handed to Save. TotalWords is recorded
// for summary display only; consumers re-tokenize Text on load and clamp
// the index themselves, so a stale count is harmless.
type Session struct {
	Text             string         `json:"text"`
	CurrentWordIndex int            `json:"currentWordIndex"`
	TotalWords       int            `json:"totalWords"`
	Settings         *rsvp.Settings `json:"settings,omitempty"`
}

// SavedSession is a Session plus the timestamp assigned at save time, in
// epoch milliseconds.
type SavedSession struct {
	Session
	SavedAt int64 `json:"savedAt"`
}

// Summary is a cheap projection of the saved record for "resume?" prompts.
// Producing one never decodes the potentially large text field.
type Summary struct {
	CurrentWordIndex int
	TotalWords       int
	SavedAt          int64
	HasText          bool
}

// Store reads and writes the single durable session record through a
// Backend. Methods are safe for concurrent use.
type Store struct {
	backend     Backend
	mu          sync.RWMutex
	lastSavedAt int64
}

// NewStore creates a Store over the given backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// Save replaces the durable record with the given snapshot, stamping it
// with the current time. SavedAt never decreases across saves on the same
// Store, even if the wall clock steps backwards. Returns false on any
// serialization or storage failure.
func (s *Store) Save(sess Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()
	if now < s.lastSavedAt {
		now = s.lastSavedAt
	}
	data, err := json.Marshal(SavedSession{Session: sess, SavedAt: now})
	if err != nil {
		return false
	}
	if err := s.backend.Write(data); err != nil {
		return false
	}
	s.lastSavedAt = now
	return true
}

// Load returns the saved record. The second result is false when no record
// exists or the stored bytes fail to decode.
func (s *Store) Load() (SavedSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.backend.Read()
	if err != nil {
		return SavedSession{}, false
	}
	var sess SavedSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return SavedSession{}, false
	}
	return sess, true
}

// Has reports whether a record exists, without decoding it. A corrupt
// record still counts as present; Load is the arbiter of readability.
func (s *Store) Has() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.backend.Read()
	return err == nil && len(data) > 0
}

// Clear deletes the record. Returns false only on a storage failure;
// clearing an absent record succeeds.
func (s *Store) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Delete() == nil
}

// GetSummary projects the summary fields out of the saved record, leaving
// the text field as raw bytes. The second result is false when no record
// exists or it fails to decode.
func (s *Store) GetSummary() (Summary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.backend.Read()
	if err != nil {
		return Summary{}, false
	}
	var probe struct {
		Text             json.RawMessage `json:"text"`
		CurrentWordIndex int             `json:"currentWordIndex"`
		TotalWords       int             `json:"totalWords"`
		SavedAt          int64           `json:"savedAt"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Summary{}, false
	}
	return Summary{
		CurrentWordIndex: probe.CurrentWordIndex,
		TotalWords:       probe.TotalWords,
		SavedAt:          probe.SavedAt,
		// A non-empty JSON string is at least `"x"`.
		HasText: len(probe.Text) > 2 && probe.Text[0] == '"',
	}, true
}
