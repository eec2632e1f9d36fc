package usecase

import "sync"

// SeatLocks serializes capacity-sensitive work per movie. Ticket allocation
// and capacity shrinks take the same mutex, so a count-then-write sequence in
// one service can never interleave with one in the other.
type SeatLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSeatLocks constructs an empty lock table. The movie and ticket services
// of one process must share a single table.
func NewSeatLocks() *SeatLocks {
	return &SeatLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *SeatLocks) forMovie(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// release drops the entry for a movie that no longer exists. Goroutines still
// blocked on the old mutex proceed against the deleted row and fail their
// re-read, so a fresh mutex for the same id cannot admit anything.
func (l *SeatLocks) release(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, id)
}
