package strategy

import (
	"sync"
)

// Book is the registry of live strategies. It is written by caller contexts
// (starting or stopping a strategy) and iterated by the stream context on
// every tick. Iteration always happens over a copy taken under the lock, so
// concurrent mutation can never invalidate an in-flight update; the race the
// defensive catch-and-log used to paper over is structurally impossible.
type Book struct {
	mu         sync.RWMutex
	nextID     int64
	strategies map[int64]Strategy
}

// NewBook creates an empty strategy book.
func NewBook() *Book {
	return &Book{strategies: make(map[int64]Strategy)}
}

// Add registers a strategy and returns its handle.
func (b *Book) Add(s Strategy) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.strategies[b.nextID] = s
	return b.nextID
}

// Remove unregisters a strategy. Unknown handles are a no-op.
func (b *Book) Remove(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.strategies, id)
}

// Snapshot returns a copy of the live strategies.
func (b *Book) Snapshot() []Strategy {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Strategy, 0, len(b.strategies))
	for _, s := range b.strategies {
		out = append(out, s)
	}
	return out
}

// ForSymbol returns a copy of the live strategies trading a symbol.
func (b *Book) ForSymbol(symbol string) []Strategy {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []Strategy
	for _, s := range b.strategies {
		if s.Contract().Symbol == symbol {
			out = append(out, s)
		}
	}
	return out
}

// Len returns the number of registered strategies.
func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.strategies)
}
