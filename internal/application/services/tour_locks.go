package services

import (
	"sync"
)

// tourLocks serializes rating read-modify-write sequences per tour. Two
// concurrent review mutations against the same tour would otherwise both read
// the same (rating, count) base and overwrite each other's aggregate update.
//
// Entries are never evicted: the map holds one bare mutex per tour mutated in
// this process, so it is bounded by the tour catalogue, not by request volume.
type tourLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newTourLocks() *tourLocks {
	return &tourLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for tourID and returns the matching unlock.
func (t *tourLocks) lock(tourID string) func() {
	t.mu.Lock()
	l, ok := t.locks[tourID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[tourID] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}
