// Package realtime is the change feed: every committed write to the
// sessions, groups or submissions tables becomes an Event that subscribers
// receive in publish order.
package realtime

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

type EventType string

const (
	Insert EventType = "INSERT"
	Update EventType = "UPDATE"
)

type Table string

const (
	Sessions    Table = "sessions"
	Groups      Table = "groups"
	Submissions Table = "submissions"
)

// ParseTable validates a table name
func ParseTable(s string) (Table, error) {
	switch t := Table(s); t {
	case Sessions, Groups, Submissions:
		return t, nil
	}
	return "", fmt.Errorf("unknown table %q", s)
}

// ParseEventType validates an event type
func ParseEventType(s string) (EventType, error) {
	switch e := EventType(s); e {
	case Insert, Update:
		return e, nil
	}
	return "", fmt.Errorf("unknown event type %q", s)
}

type Event struct {
	Type            EventType       `json:"type"`
	Table           Table           `json:"table"`
	SessionID       string          `json:"session_id"`
	Record          json.RawMessage `json:"record"`
	CommitTimestamp time.Time       `json:"commit_timestamp"`
}

// NewEvent encodes record as the payload of an event
func NewEvent(typ EventType, table Table, sessionID string, record any) (Event, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s record: %w", table, err)
	}
	return Event{
		Type:            typ,
		Table:           table,
		SessionID:       sessionID,
		Record:          raw,
		CommitTimestamp: time.Now(),
	}, nil
}

// Decode unmarshals the event payload into a row type
func Decode[T any](ev Event) (T, error) {
	var v T
	if err := json.Unmarshal(ev.Record, &v); err != nil {
		return v, fmt.Errorf("decode %s record: %w", ev.Table, err)
	}
	return v, nil
}

// Filter selects events for a subscriber. Empty fields match everything.
type Filter struct {
	Table     Table       `json:"table"`
	SessionID string      `json:"session_id,omitempty"`
	Events    []EventType `json:"events,omitempty"`
}

func (f Filter) Match(ev Event) bool {
	if f.Table != "" && f.Table != ev.Table {
		return false
	}
	if f.SessionID != "" && f.SessionID != ev.SessionID {
		return false
	}
	if len(f.Events) > 0 && !slices.Contains(f.Events, ev.Type) {
		return false
	}
	return true
}

// Consumer receives the events of one subscription
type Consumer interface {
	Consume(Event)
}

// ConsumerFunc adapts a function to a Consumer
type ConsumerFunc func(Event)

func (f ConsumerFunc) Consume(ev Event) { f(ev) }

type Subscription interface {
	Close()
}

// Feed is a source of change events
type Feed interface {
	Subscribe(Filter, Consumer) Subscription
}

// Publisher accepts committed changes
type Publisher interface {
	Publish(Event)
}
