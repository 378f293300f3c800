package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// LocalStore is a small key/value file kept on the student's device. It
// remembers which groups this device already answered.
type LocalStore struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// OpenLocalStore loads the store at path. A missing file is an empty store.
func OpenLocalStore(path string) (*LocalStore, error) {
	ls := &LocalStore{path: path, values: map[string]string{}}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ls, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read local store: %w", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &ls.values); err != nil {
			return nil, fmt.Errorf("parse local store %s: %w", path, err)
		}
	}
	return ls, nil
}

func (ls *LocalStore) Get(key string) (string, bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	v, ok := ls.values[key]
	return v, ok
}

// Set stores a value and writes the file
func (ls *LocalStore) Set(key, value string) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.values[key] = value
	return ls.save()
}

func (ls *LocalStore) save() error {
	raw, err := json.MarshalIndent(ls.values, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(ls.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create local store dir: %w", err)
		}
	}
	tmp := ls.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write local store: %w", err)
	}
	return os.Rename(tmp, ls.path)
}

func submittedKey(groupID string) string {
	return "submitted_" + groupID
}

// Submitted reports whether this device already answered the group
func (ls *LocalStore) Submitted(groupID string) bool {
	v, ok := ls.Get(submittedKey(groupID))
	return ok && v == "true"
}

func (ls *LocalStore) MarkSubmitted(groupID string) error {
	return ls.Set(submittedKey(groupID), "true")
}
