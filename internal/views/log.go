// Package views holds the read models behind the presenter, projector and
// student boards: the session state container, the de-duplicated submission
// log, per-option tallies, and the Viewer that keeps them current from a bulk
// fetch, the change feed and periodic re-fetches.
package views

import models "github.com/CLDWare/methods-lab/pkg/db"

// Log is an ordered set of submissions keyed by id. A submission that
// arrives twice, once from a fetch and once from the feed, is kept once.
type Log struct {
	seen  map[string]struct{}
	items []models.Submission
}

func NewLog() *Log {
	return &Log{seen: make(map[string]struct{})}
}

// Add appends s unless its id is already present
func (l *Log) Add(s models.Submission) bool {
	if _, ok := l.seen[s.ID]; ok {
		return false
	}
	l.seen[s.ID] = struct{}{}
	l.items = append(l.items, s)
	return true
}

// Merge adds every unseen submission and returns how many were new
func (l *Log) Merge(subs []models.Submission) int {
	added := 0
	for _, s := range subs {
		if l.Add(s) {
			added++
		}
	}
	return added
}

func (l *Log) Len() int {
	return len(l.items)
}

// Items returns a copy of the log in arrival order
func (l *Log) Items() []models.Submission {
	return append([]models.Submission(nil), l.items...)
}

// ForGroup returns the submissions of one group in arrival order
func (l *Log) ForGroup(groupID string) []models.Submission {
	var out []models.Submission
	for _, s := range l.items {
		if s.GroupID == groupID {
			out = append(out, s)
		}
	}
	return out
}

func (l *Log) Reset() {
	l.seen = make(map[string]struct{})
	l.items = nil
}
