package store

import (
	"sort"
	"sync"
	"sync/atomic"

	"pkg.jsn.cam/linereduce/pkg/linereduce"
)

// DefaultShards is the shard count used when NewIntermediate gets n <= 0.
const DefaultShards = 32

// Intermediate is the job-scoped multimap map workers append into.
// Keys are spread over shards so appends to unrelated keys don't contend.
type Intermediate struct {
	shards  []*shard
	sealed  atomic.Bool
	values  atomic.Int64
	dropped atomic.Int64
}

type shard struct {
	mu   sync.Mutex
	data map[string][]int
}

// NewIntermediate creates an empty store with n shards.
func NewIntermediate(n int) *Intermediate {
	if n <= 0 {
		n = DefaultShards
	}

	s := &Intermediate{shards: make([]*shard, n)}
	for i := range s.shards {
		s.shards[i] = &shard{data: make(map[string][]int)}
	}

	return s
}

// Append adds value to the sequence for key, creating it if needed.
// Empty keys are dropped. Safe for concurrent use until Seal.
func (s *Intermediate) Append(key string, value int) {
	if key == "" {
		s.dropped.Add(1)
		return
	}

	if s.sealed.Load() {
		panic("store: append to sealed intermediate store")
	}

	sh := s.shards[PartitionKey(key, len(s.shards))]
	sh.mu.Lock()
	sh.data[key] = append(sh.data[key], value)
	sh.mu.Unlock()

	s.values.Add(1)
}

// Emitter returns an Emitter bound to the store.
func (s *Intermediate) Emitter() linereduce.Emitter {
	return func(kv linereduce.KeyValue) {
		s.Append(kv.Key, kv.Value)
	}
}

// Seal marks the end of the map phase. Later appends panic.
func (s *Intermediate) Seal() {
	s.sealed.Store(true)
}

func (s *Intermediate) Sealed() bool {
	return s.sealed.Load()
}

// Len returns the number of distinct keys.
func (s *Intermediate) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.data)
		sh.mu.Unlock()
	}

	return n
}

// ValueCount returns the total number of values appended.
func (s *Intermediate) ValueCount() int64 {
	return s.values.Load()
}

// Dropped returns how many emissions were discarded for having an empty key.
func (s *Intermediate) Dropped() int64 {
	return s.dropped.Load()
}

// Values returns a copy of the sequence stored for key.
func (s *Intermediate) Values(key string) []int {
	sh := s.shards[PartitionKey(key, len(s.shards))]
	sh.mu.Lock()
	defer sh.mu.Unlock()

	vs, ok := sh.data[key]
	if !ok {
		return nil
	}

	out := make([]int, len(vs))
	copy(out, vs)

	return out
}

// Keys returns every key in ascending order.
func (s *Intermediate) Keys() []string {
	var keys []string
	for _, sh := range s.shards {
		sh.mu.Lock()
		for k := range sh.data {
			keys = append(keys, k)
		}
		sh.mu.Unlock()
	}

	sort.Strings(keys)

	return keys
}

// Range calls fn for every key in ascending order with its values until
// fn returns false. fn must not retain or modify values.
// Range panics unless the store is sealed.
func (s *Intermediate) Range(fn func(key string, values []int) bool) {
	if !s.Sealed() {
		panic("store: range over unsealed intermediate store")
	}

	for _, key := range s.Keys() {
		sh := s.shards[PartitionKey(key, len(s.shards))]
		if !fn(key, sh.data[key]) {
			return
		}
	}
}
