package schema

import (
	"sync"

	"github.com/shopspring/decimal"
)

// TradeSide is the direction of an open position.
type TradeSide string

const (
	TradeSideLong  TradeSide = "long"
	TradeSideShort TradeSide = "short"
)

// TradeStatus of a tracked position.
type TradeStatus string

const (
	TradeStatusOpen   TradeStatus = "open"
	TradeStatusClosed TradeStatus = "closed"
)

// Trade is a position tracked by a strategy. Its unrealized PnL is rewritten
// by the stream context on every matching book ticker while other contexts
// read it, so the field is guarded.
type Trade struct {
	Time       int64
	Contract   Contract
	Side       TradeSide
	EntryPrice decimal.Decimal
	Quantity   decimal.Decimal
	EntryID    int64

	mu     sync.RWMutex
	status TradeStatus
	pnl    decimal.Decimal
}

// NewTrade creates an open trade with zero PnL.
func NewTrade(time int64, contract Contract, side TradeSide, entryPrice, quantity decimal.Decimal, entryID int64) *Trade {
	return &Trade{
		Time:       time,
		Contract:   contract,
		Side:       side,
		EntryPrice: entryPrice,
		Quantity:   quantity,
		EntryID:    entryID,
		status:     TradeStatusOpen,
	}
}

// Status returns the current open/closed state.
func (t *Trade) Status() TradeStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// SetStatus transitions the trade between open and closed.
func (t *Trade) SetStatus(status TradeStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = status
}

// PnL returns the last computed unrealized profit/loss.
func (t *Trade) PnL() decimal.Decimal {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pnl
}

// SetPnL replaces the unrealized profit/loss.
func (t *Trade) SetPnL(pnl decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pnl = pnl
}
