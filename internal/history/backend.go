package history

import (
	"fmt"
	"sync"

	bolt "go.etcd.io/bbolt"
)

// Backend is the bucketed key-value store run records live in.
type Backend interface {
	CreateBucket(name []byte) error
	Put(bucket, key, value []byte) error
	Get(bucket, key []byte) ([]byte, error)
	ForEach(bucket []byte, fn func(k, v []byte) error) error
	Close() error
}

// BoltBackend implements Backend using bbolt
type BoltBackend struct {
	db *bolt.DB
}

// NewBoltBackend opens (or creates) the database at dbPath
func NewBoltBackend(dbPath string) (*BoltBackend, error) {
	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open bbolt database: %w", err)
	}

	return &BoltBackend{db: db}, nil
}

func (b *BoltBackend) CreateBucket(name []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(name)
		return err
	})
}

func (b *BoltBackend) Put(bucket, key, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucket)
		if bkt == nil {
			return fmt.Errorf("bucket not found: %s", bucket)
		}
		return bkt.Put(key, value)
	})
}

func (b *BoltBackend) Get(bucket, key []byte) ([]byte, error) {
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucket)
		if bkt == nil {
			return fmt.Errorf("bucket not found: %s", bucket)
		}
		if v := bkt.Get(key); v != nil {
			// Only valid during the transaction
			value = append([]byte(nil), v...)
		}
		return nil
	})
	return value, err
}

func (b *BoltBackend) ForEach(bucket []byte, fn func(k, v []byte) error) error {
	return b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucket)
		if bkt == nil {
			return fmt.Errorf("bucket not found: %s", bucket)
		}
		return bkt.ForEach(fn)
	})
}

func (b *BoltBackend) Close() error {
	return b.db.Close()
}

// MemoryBackend implements Backend using in-memory maps (not persistent)
type MemoryBackend struct {
	buckets map[string]map[string][]byte
	mu      sync.RWMutex
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{buckets: make(map[string]map[string][]byte)}
}

func (m *MemoryBackend) CreateBucket(name []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.buckets[string(name)]; !exists {
		m.buckets[string(name)] = make(map[string][]byte)
	}

	return nil
}

func (m *MemoryBackend) Put(bucket, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bkt, exists := m.buckets[string(bucket)]
	if !exists {
		return fmt.Errorf("bucket not found: %s", bucket)
	}

	bkt[string(key)] = append([]byte(nil), value...)

	return nil
}

func (m *MemoryBackend) Get(bucket, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bkt, exists := m.buckets[string(bucket)]
	if !exists {
		return nil, fmt.Errorf("bucket not found: %s", bucket)
	}

	value, exists := bkt[string(key)]
	if !exists {
		return nil, nil
	}

	return append([]byte(nil), value...), nil
}

func (m *MemoryBackend) ForEach(bucket []byte, fn func(k, v []byte) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bkt, exists := m.buckets[string(bucket)]
	if !exists {
		return fmt.Errorf("bucket not found: %s", bucket)
	}

	for k, v := range bkt {
		if err := fn([]byte(k), v); err != nil {
			return err
		}
	}

	return nil
}

func (m *MemoryBackend) Close() error {
	return nil
}
