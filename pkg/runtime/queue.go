package runtime

import (
	"sync"

	"go.uber.org/atomic"
)

// deque is a single worker's double-ended work queue: the owner pushes and
// pops from the bottom (LIFO, cache-friendly DFS-ish order); idle peers
// steal from the top (FIFO) to balance load without contending with the
// owner's common case.
type deque struct {
	mu    sync.Mutex
	items []*State
}

func (d *deque) pushBottom(s *State) {
	d.mu.Lock()
	d.items = append(d.items, s)
	d.mu.Unlock()
}

func (d *deque) popBottom() (*State, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := len(d.items)
	if n == 0 {
		return nil, false
	}
	s := d.items[n-1]
	d.items = d.items[:n-1]
	return s, true
}

func (d *deque) stealTop() (*State, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.items) == 0 {
		return nil, false
	}
	s := d.items[0]
	d.items = d.items[1:]
	return s, true
}

// WorkQueue distributes pending states across one deque per worker, with
// work stealing when a worker's own deque runs dry, and tracks the number
// of items in flight so the explorer can detect quiescence (every deque
// empty and no worker currently processing a popped state) without a
// dedicated coordinator goroutine.
type WorkQueue struct {
	deques  []deque
	pending atomic.Int64
}

// NewWorkQueue creates a WorkQueue with one deque per worker.
func NewWorkQueue(workers int) *WorkQueue {
	return &WorkQueue{deques: make([]deque, workers)}
}

// Push enqueues s onto worker id's own deque and marks one item in flight.
func (q *WorkQueue) Push(worker int, s *State) {
	q.pending.Inc()
	q.deques[worker%len(q.deques)].pushBottom(s)
}

// Pop returns the next state for worker id to process: first its own
// deque, falling back to stealing from peers round-robin. ok is false only
// when every deque was observed empty.
func (q *WorkQueue) Pop(worker int) (s *State, ok bool) {
	if s, ok = q.deques[worker%len(q.deques)].popBottom(); ok {
		return s, true
	}
	n := len(q.deques)
	for i := 1; i < n; i++ {
		victim := (worker + i) % n
		if s, ok = q.deques[victim].stealTop(); ok {
			return s, true
		}
	}
	return nil, false
}

// Done marks one previously-Push'd item as fully processed (its successors,
// if any, have already been Push'd back). Quiescent reports whether every
// deque is empty and every pushed item has been marked Done, meaning
// exploration is complete.
func (q *WorkQueue) Done() { q.pending.Dec() }

// Quiescent reports whether the queue currently holds no in-flight work.
func (q *WorkQueue) Quiescent() bool { return q.pending.Load() == 0 }
