package views

import (
	"sync"

	"github.com/CLDWare/methods-lab/internal/realtime"
	models "github.com/CLDWare/methods-lab/pkg/db"
)

// Change describes what a write did to the state
type Change int

const (
	Unchanged Change = iota
	// Started means a different session became current.
	Started
	Updated
	// Cleared means there is no current session anymore.
	Cleared
)

func (c Change) String() string {
	switch c {
	case Started:
		return "started"
	case Updated:
		return "updated"
	case Cleared:
		return "cleared"
	}
	return "unchanged"
}

// SessionState holds the current session of one view. Reads are safe from
// any goroutine; writes go through Replace, Apply and Clear.
type SessionState struct {
	mu      sync.RWMutex
	current *models.Session
}

// Current returns a copy of the current session
func (st *SessionState) Current() (models.Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.current == nil {
		return models.Session{}, false
	}
	return *st.current, true
}

// ID returns the id of the current session, or ""
func (st *SessionState) ID() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if st.current == nil {
		return ""
	}
	return st.current.ID
}

// Replace installs the result of a fetch. A nil or finished session clears.
func (st *SessionState) Replace(s *models.Session) Change {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.set(s)
}

func (st *SessionState) set(s *models.Session) Change {
	if s == nil || !s.Status.Live() {
		if st.current == nil {
			return Unchanged
		}
		st.current = nil
		return Cleared
	}
	cp := *s
	prev := st.current
	st.current = &cp
	switch {
	case prev == nil || prev.ID != cp.ID:
		return Started
	case sameSession(*prev, cp):
		return Unchanged
	}
	return Updated
}

func sameSession(a, b models.Session) bool {
	a.CreatedAt, b.CreatedAt = a.CreatedAt.UTC(), b.CreatedAt.UTC()
	return a == b
}

// Apply folds a sessions event into the state. Without a current session any
// live session is adopted; otherwise only events for the current session
// count, and a finished status clears it.
func (st *SessionState) Apply(ev realtime.Event) (Change, error) {
	if ev.Table != realtime.Sessions {
		return Unchanged, nil
	}
	s, err := realtime.Decode[models.Session](ev)
	if err != nil {
		return Unchanged, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.current != nil && st.current.ID != s.ID {
		return Unchanged, nil
	}
	return st.set(&s), nil
}

// Clear drops the current session, as after the presenter ends it
func (st *SessionState) Clear() Change {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.set(nil)
}
