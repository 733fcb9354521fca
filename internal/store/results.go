package store

import (
	"sort"
	"sync"

	"pkg.jsn.cam/linereduce/pkg/linereduce"
)

// Results holds one reduced value per key.
type Results struct {
	mu   sync.RWMutex
	data map[string]int
}

func NewResults() *Results {
	return &Results{data: make(map[string]int)}
}

// Put stores value for key, replacing any earlier value.
func (r *Results) Put(key string, value int) {
	r.mu.Lock()
	r.data[key] = value
	r.mu.Unlock()
}

func (r *Results) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.data)
}

// Sorted returns the pairs in ascending key order.
func (r *Results) Sorted() []linereduce.KeyValue {
	r.mu.RLock()
	out := make([]linereduce.KeyValue, 0, len(r.data))
	for k, v := range r.data {
		out = append(out, linereduce.KeyValue{Key: k, Value: v})
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})

	return out
}
