// Package history keeps a log of engine runs.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"pkg.jsn.cam/linereduce/pkg/linereduce"
)

var runsBucket = []byte("runs")

var ErrRecordNotFound = errors.New("run record not found")

// Store persists run records
type Store interface {
	Save(rec *Record) error
	Get(id string) (*Record, error)
	// List returns records readable by this version, newest first.
	List() ([]*Record, error)
	Close() error
}

// BackendStore implements Store on a Backend
type BackendStore struct {
	backend Backend
}

// NewBackendStore creates a store with the given backend
func NewBackendStore(backend Backend) (*BackendStore, error) {
	if err := backend.CreateBucket(runsBucket); err != nil {
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &BackendStore{backend: backend}, nil
}

// Open opens the bbolt database at dbPath, creating parent directories.
func Open(dbPath string) (*BackendStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	backend, err := NewBoltBackend(dbPath)
	if err != nil {
		return nil, err
	}

	s, err := NewBackendStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return s, nil
}

// NewMemoryStore creates a store that lives as long as the process.
func NewMemoryStore() *BackendStore {
	s, _ := NewBackendStore(NewMemoryBackend())
	return s
}

// Save stamps rec with the current version when it has none and persists it.
func (s *BackendStore) Save(rec *Record) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: record without id", linereduce.ErrInvalidArgument)
	}
	if rec.Version == "" {
		rec.Version = linereduce.Version
	}

	rec.ComputeDurations()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	return s.backend.Put(runsBucket, []byte(rec.ID), data)
}

func (s *BackendStore) Get(id string) (*Record, error) {
	data, err := s.backend.Get(runsBucket, []byte(id))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", id, err)
	}

	return &rec, nil
}

func (s *BackendStore) List() ([]*Record, error) {
	var records []*Record

	err := s.backend.ForEach(runsBucket, func(k, v []byte) error {
		var rec Record
		if err := json.Unmarshal(v, &rec); err != nil {
			return nil // Skip corrupted records
		}

		if ok, err := linereduce.IsCompatibleVersion(rec.Version, linereduce.Version); err != nil || !ok {
			return nil
		}

		records = append(records, &rec)

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].StartedAt.Equal(records[j].StartedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].StartedAt.After(records[j].StartedAt)
	})

	return records, nil
}

func (s *BackendStore) Close() error {
	return s.backend.Close()
}

// NoOpStore discards everything. Used when history is disabled.
type NoOpStore struct{}

func (NoOpStore) Save(*Record) error { return nil }

func (NoOpStore) Get(id string) (*Record, error) {
	return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
}

func (NoOpStore) List() ([]*Record, error) { return nil, nil }

func (NoOpStore) Close() error { return nil }
