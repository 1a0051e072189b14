// Package index remembers which calendar event mirrors which org entry.
package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

const indexFile = "events.json"

// Record is what the index keeps for one mirrored entry.
type Record struct {
	EventID     string `json:"event_id"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
	Scheduled   string `json:"scheduled,omitempty"`
}

// EventIndex maps entry keys to calendar events. It is safe for concurrent use.
type EventIndex struct {
	path    string
	mu      sync.RWMutex
	records map[string]Record
	dirty   bool
}

type indexFileFormat struct {
	Entries map[string]Record `json:"entries"`
}

// DefaultPath returns ~/.config/orgtodo/events.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "orgtodo", indexFile), nil
}

// NewEventIndex opens the index stored at path, starting empty if the file does not exist.
func NewEventIndex(path string) (*EventIndex, error) {
	idx := &EventIndex{
		path:    path,
		records: make(map[string]Record),
	}

	if _, err := os.Stat(path); err == nil {
		if err := idx.Load(); err != nil {
			return nil, err
		}
	}

	return idx, nil
}

// Path is the file the index is persisted to.
func (idx *EventIndex) Path() string { return idx.path }

func (idx *EventIndex) Load() error {
	data, err := os.ReadFile(idx.path)
	if err != nil {
		return err
	}
	var file indexFileFormat
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("corrupt event index %s: %w", idx.path, err)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.records = make(map[string]Record, len(file.Entries))
	for key, rec := range file.Entries {
		if rec.EventID != "" {
			idx.records[key] = rec
		}
	}
	idx.dirty = false
	return nil
}

// Save writes the index if it changed since the last Load or Save.
// The file is replaced atomically so an interrupted run never truncates it.
func (idx *EventIndex) Save() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if !idx.dirty {
		return nil
	}

	data, err := json.MarshalIndent(indexFileFormat{Entries: idx.records}, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(idx.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, indexFile+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), idx.path); err != nil {
		return err
	}
	idx.dirty = false
	return nil
}

// Get returns the event ID mapped to entryKey, or "".
func (idx *EventIndex) Get(entryKey string) string {
	rec, _ := idx.Lookup(entryKey)
	return rec.EventID
}

func (idx *EventIndex) Lookup(entryKey string) (Record, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	rec, ok := idx.records[entryKey]
	return rec, ok
}

// Set stores rec under entryKey. A record without an event ID removes the key.
func (idx *EventIndex) Set(entryKey string, rec Record) {
	if rec.EventID == "" {
		idx.Remove(entryKey)
		return
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.records[entryKey] != rec {
		idx.records[entryKey] = rec
		idx.dirty = true
	}
}

func (idx *EventIndex) Remove(entryKey string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, exists := idx.records[entryKey]; exists {
		delete(idx.records, entryKey)
		idx.dirty = true
	}
}

// Keys returns every mapped entry key in sorted order.
func (idx *EventIndex) Keys() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	keys := make([]string, 0, len(idx.records))
	for k := range idx.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (idx *EventIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.records)
}
