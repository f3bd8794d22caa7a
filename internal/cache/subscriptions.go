package cache

import (
	"sort"
	"sync"

	"github.com/kingsmao/binance-futures-connector/pkg/schema"
)

// SubscriptionBook tracks which symbols are subscribed on which streaming
// channel. Sets never contain duplicates; Add reports whether the symbol was
// newly recorded so callers can deduplicate outbound subscribe messages.
type SubscriptionBook struct {
	mu       sync.RWMutex
	channels map[schema.Channel]map[string]struct{}
}

// NewSubscriptionBook creates an empty subscription book.
func NewSubscriptionBook() *SubscriptionBook {
	return &SubscriptionBook{channels: make(map[schema.Channel]map[string]struct{})}
}

// Add records a symbol as subscribed on a channel. Returns true if the
// symbol was not present before.
func (b *SubscriptionBook) Add(channel schema.Channel, symbol string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	set, ok := b.channels[channel]
	if !ok {
		set = make(map[string]struct{})
		b.channels[channel] = set
	}
	if _, exists := set[symbol]; exists {
		return false
	}
	set[symbol] = struct{}{}
	return true
}

// Has reports whether a symbol is subscribed on a channel.
func (b *SubscriptionBook) Has(channel schema.Channel, symbol string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.channels[channel][symbol]
	return ok
}

// Snapshot returns the sorted symbols subscribed on a channel. The copy lets
// the reconnect replay iterate without holding the lock.
func (b *SubscriptionBook) Snapshot(channel schema.Channel) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	set := b.channels[channel]
	symbols := make([]string, 0, len(set))
	for symbol := range set {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Channels returns the channels that have at least one subscription.
func (b *SubscriptionBook) Channels() []schema.Channel {
	b.mu.RLock()
	defer b.mu.RUnlock()
	channels := make([]schema.Channel, 0, len(b.channels))
	for channel, set := range b.channels {
		if len(set) > 0 {
			channels = append(channels, channel)
		}
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i] < channels[j] })
	return channels
}
