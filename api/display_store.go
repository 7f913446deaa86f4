package api

import (
	"sync"
	"time"

	"city-weather/models"
)

// Display is what the web page currently shows
type Display struct {
	RequestID uint64      `json:"requestId"`
	Text      string      `json:"text"`
	Tone      models.Tone `json:"tone"`
	Enabled   bool        `json:"searchEnabled"`
	Updated   time.Time   `json:"updated"`
}

// DisplayStore holds the shared page state. It is the flow's surface and trigger for HTTP clients.
// Updates carrying a request id older than the one already shown are dropped.
type DisplayStore struct {
	current Display
	mutex   sync.RWMutex
}

// NewDisplayStore creates an empty display with the search control enabled
func NewDisplayStore() *DisplayStore {
	return &DisplayStore{
		current: Display{
			Tone:    models.NeutralTone,
			Enabled: true,
			Updated: time.Now(),
		},
	}
}

// ShowText replaces the output text
func (s *DisplayStore) ShowText(requestID uint64, text string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if requestID < s.current.RequestID {
		return
	}
	if requestID > s.current.RequestID {
		// a new lookup starts from the neutral background
		s.current.Tone = models.NeutralTone
	}
	s.current.RequestID = requestID
	s.current.Text = text
	s.current.Updated = time.Now()
}

// SetTone replaces the background tone
func (s *DisplayStore) SetTone(requestID uint64, tone models.Tone) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if requestID < s.current.RequestID {
		return
	}
	s.current.RequestID = requestID
	s.current.Tone = tone
	s.current.Updated = time.Now()
}

// SetEnabled toggles the search control
func (s *DisplayStore) SetEnabled(enabled bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.current.Enabled = enabled
}

// Snapshot returns a copy of the current display
func (s *DisplayStore) Snapshot() Display {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.current
}
