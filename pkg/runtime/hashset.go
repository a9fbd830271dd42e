package runtime

import (
	"sync"

	"go.uber.org/atomic"
)

// shardCount is the number of independent shards the explored-set splits
// across; each shard has its own mutex so unrelated states never contend.
const shardCount = 256

type shard struct {
	mu      sync.Mutex
	entries map[uint64][]*State
}

// StateSet is a concurrent set of previously-explored states, sharded by
// hash to let many explorer goroutines insert concurrently (spec §4.G's
// concurrent explored-set requirement). It replaces the teacher's
// collection/hash package, which this domain's keys (packed bit vectors,
// not the teacher's comparable generics) do not fit.
type StateSet struct {
	shards [shardCount]shard
	size   atomic.Int64
}

// NewStateSet constructs an empty, ready-to-use StateSet.
func NewStateSet() *StateSet {
	set := &StateSet{}
	for i := range set.shards {
		set.shards[i].entries = make(map[uint64][]*State)
	}
	return set
}

// Add inserts s if no equal state is already present, returning true iff s
// was newly added (the caller should only enqueue newly-added states for
// further exploration).
func (set *StateSet) Add(s *State) bool {
	h := s.Hash64()
	sh := &set.shards[h%shardCount]
	sh.mu.Lock()
	defer sh.mu.Unlock()
	for _, existing := range sh.entries[h] {
		if existing.Equal(s) {
			return false
		}
	}
	sh.entries[h] = append(sh.entries[h], s)
	set.size.Inc()
	return true
}

// Contains reports whether an equal state has already been added.
func (set *StateSet) Contains(s *State) bool {
	h := s.Hash64()
	sh := &set.shards[h%shardCount]
	sh.mu.Lock()
	defer sh.mu.Unlock()
	for _, existing := range sh.entries[h] {
		if existing.Equal(s) {
			return true
		}
	}
	return false
}

// Len returns the number of distinct states added so far.
func (set *StateSet) Len() int64 { return set.size.Load() }
