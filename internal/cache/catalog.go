package cache

import (
	"sort"
	"sync"

	"github.com/kingsmao/binance-futures-connector/pkg/schema"
)

// Catalog caches tradable-contract metadata keyed by symbol. A refresh fully
// replaces the previous content; a failed refresh never reaches Replace, so
// prior entries stay untouched. Iteration order is lexicographic by symbol
// regardless of the order the exchange returned them in.
type Catalog struct {
	mu        sync.RWMutex
	contracts map[string]schema.Contract
	symbols   []string // sorted
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{contracts: make(map[string]schema.Contract)}
}

// Replace swaps in a new contract set and rebuilds the sorted symbol index.
func (c *Catalog) Replace(contracts map[string]schema.Contract) {
	symbols := make([]string, 0, len(contracts))
	for symbol := range contracts {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.contracts = contracts
	c.symbols = symbols
}

// Get returns the contract for a symbol.
func (c *Catalog) Get(symbol string) (schema.Contract, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	contract, ok := c.contracts[symbol]
	return contract, ok
}

// Symbols returns all symbols in lexicographic order.
func (c *Catalog) Symbols() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.symbols))
	copy(out, c.symbols)
	return out
}

// Contracts returns all contracts ordered lexicographically by symbol.
func (c *Catalog) Contracts() []schema.Contract {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]schema.Contract, 0, len(c.symbols))
	for _, symbol := range c.symbols {
		out = append(out, c.contracts[symbol])
	}
	return out
}

// Len returns the number of cached contracts.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.contracts)
}
