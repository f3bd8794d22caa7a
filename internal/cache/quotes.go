package cache

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/kingsmao/binance-futures-connector/pkg/schema"
)

// QuoteCache holds the last known best bid/ask per symbol. The stream
// context rewrites entries at tick frequency while caller contexts read them
// for sizing and PnL display, so every access goes through the lock. Entries
// are only ever inserted or overwritten, never removed, for the process
// lifetime.
type QuoteCache struct {
	mu     sync.RWMutex
	quotes map[string]schema.Quote
}

// NewQuoteCache creates an empty quote cache.
func NewQuoteCache() *QuoteCache {
	return &QuoteCache{quotes: make(map[string]schema.Quote)}
}

// Set inserts or overwrites the quote of a symbol.
func (q *QuoteCache) Set(symbol string, bid, ask decimal.Decimal) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.quotes[symbol] = schema.Quote{Bid: bid, Ask: ask}
}

// Get returns the last known quote of a symbol.
func (q *QuoteCache) Get(symbol string) (schema.Quote, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	quote, ok := q.quotes[symbol]
	return quote, ok
}

// Len returns the number of symbols with a recorded quote.
func (q *QuoteCache) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.quotes)
}
