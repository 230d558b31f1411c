// Package localstore persists named record collections as a single JSON
// snapshot file. It backs the local storage driver the same way the
// relational repositories back the postgres one: whole-collection-set
// serialize on every mutating call, one logical writer.
package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	apperrors "taskdesk/pkg/errors"

	"github.com/google/uuid"
)

// Record is one row of a collection. Values survive a JSON round-trip, so
// numbers come back as float64 and timestamps as RFC3339 strings.
type Record = map[string]interface{}

// Predicate filters records in GetWhere and Count.
type Predicate func(Record) bool

const currentUserKey = "currentUser"

type Store struct {
	path string

	mu          sync.RWMutex
	collections map[string][]Record
	order       []string
	currentUser Record
}

// Open loads the snapshot at path, creating it from seed when the file
// does not exist yet.
func Open(path string, seed map[string][]Record) (*Store, error) {
	s := &Store{
		path:        path,
		collections: make(map[string][]Record),
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		for name, records := range seed {
			s.collections[name] = append([]Record(nil), records...)
			s.order = append(s.order, name)
		}
		if err := s.persistLocked(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}

	var snapshot map[string]json.RawMessage
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}
	for name, payload := range snapshot {
		if name == currentUserKey {
			var user Record
			if err := json.Unmarshal(payload, &user); err != nil {
				return nil, fmt.Errorf("decoding session pointer: %w", err)
			}
			s.currentUser = user
			continue
		}
		var records []Record
		if err := json.Unmarshal(payload, &records); err != nil {
			return nil, fmt.Errorf("decoding collection %q: %w", name, err)
		}
		s.collections[name] = records
		s.order = append(s.order, name)
	}
	return s, nil
}

// NewID generates a process-unique identifier: monotonic milliseconds plus
// a random suffix.
func NewID() string {
	return fmt.Sprintf("id-%d-%s", time.Now().UnixMilli(), uuid.New().String()[:8])
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// GetAll returns the records of a collection in insertion order.
func (s *Store) GetAll(collection string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRecords(s.collections[collection])
}

// GetByID returns the record with the given id, or false when absent.
func (s *Store) GetByID(collection, id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, record := range s.collections[collection] {
		if record["id"] == id {
			return copyRecord(record), true
		}
	}
	return nil, false
}

// GetWhere returns the records matching the predicate, insertion order
// preserved.
func (s *Store) GetWhere(collection string, pred Predicate) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Record
	for _, record := range s.collections[collection] {
		if pred(record) {
			out = append(out, copyRecord(record))
		}
	}
	return out
}

// Insert appends a record, assigning id and created_at when absent, and
// persists the snapshot.
func (s *Store) Insert(collection string, record Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyRecord(record)
	if stored == nil {
		stored = Record{}
	}
	if id, ok := stored["id"].(string); !ok || id == "" {
		stored["id"] = NewID()
	}
	if createdAt, ok := stored["created_at"].(string); !ok || createdAt == "" {
		stored["created_at"] = now()
	}

	if _, known := s.collections[collection]; !known {
		s.order = append(s.order, collection)
	}
	s.collections[collection] = append(s.collections[collection], stored)
	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	return copyRecord(stored), nil
}

// Update merges fields over the stored record, stamps updated_at and
// persists. Absent ids fail with ErrNotFound.
func (s *Store) Update(collection, id string, fields Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.collections[collection]
	for i, record := range records {
		if record["id"] != id {
			continue
		}
		merged := copyRecord(record)
		for key, value := range fields {
			merged[key] = value
		}
		merged["updated_at"] = now()
		records[i] = merged
		if err := s.persistLocked(); err != nil {
			return nil, err
		}
		return copyRecord(merged), nil
	}
	return nil, apperrors.ErrNotFound
}

// Delete removes the record if present. Deleting an absent id is a
// success, not an error; callers must not rely on delete signaling
// absence.
func (s *Store) Delete(collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.collections[collection]
	for i, record := range records {
		if record["id"] == id {
			s.collections[collection] = append(records[:i], records[i+1:]...)
			break
		}
	}
	return s.persistLocked()
}

// Count returns the collection cardinality, filtered when pred is non-nil.
func (s *Store) Count(collection string, pred Predicate) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if pred == nil {
		return len(s.collections[collection])
	}
	count := 0
	for _, record := range s.collections[collection] {
		if pred(record) {
			count++
		}
	}
	return count
}

// CurrentUser returns the persisted session pointer, nil when signed out.
func (s *Store) CurrentUser() Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRecord(s.currentUser)
}

// SetCurrentUser persists the session pointer.
func (s *Store) SetCurrentUser(user Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentUser = copyRecord(user)
	return s.persistLocked()
}

// ClearCurrentUser drops the session pointer.
func (s *Store) ClearCurrentUser() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentUser = nil
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	snapshot := make(map[string]interface{}, len(s.collections)+1)
	for name, records := range s.collections {
		snapshot[name] = records
	}
	snapshot[currentUserKey] = s.currentUser

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, payload, 0o644)
}

func copyRecord(record Record) Record {
	if record == nil {
		return nil
	}
	out := make(Record, len(record))
	for key, value := range record {
		out[key] = value
	}
	return out
}

func copyRecords(records []Record) []Record {
	if records == nil {
		return nil
	}
	out := make([]Record, len(records))
	for i, record := range records {
		out[i] = copyRecord(record)
	}
	return out
}
