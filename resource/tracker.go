package resource

import (
	"maps"
	"sync"
)

// Tracker is an Observer that counts initialized resources per kind.
type Tracker struct {
	live    map[string]int
	cleared int
	mu      sync.RWMutex
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{live: make(map[string]int)}
}

func (t *Tracker) OnResourceEvent(e Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch e.Type {
	case EventInitialized:
		t.live[e.Kind]++
	case EventCleared, EventClearFailed:
		t.live[e.Kind]--
		if t.live[e.Kind] == 0 {
			delete(t.live, e.Kind)
		}
		t.cleared++
	}
}

// Live returns the number of resources initialized and not yet cleared.
func (t *Tracker) Live() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, c := range t.live {
		n += c
	}
	return n
}

// ByKind returns a snapshot of live counts keyed by resource type.
func (t *Tracker) ByKind() map[string]int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return maps.Clone(t.live)
}

// Cleared returns how many clears have been observed.
func (t *Tracker) Cleared() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cleared
}
