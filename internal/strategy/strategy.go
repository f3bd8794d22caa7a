package strategy

import (
	"github.com/shopspring/decimal"

	"github.com/kingsmao/binance-futures-connector/pkg/schema"
)

// TickResult is what a strategy's trade ingestion reports back: whether the
// tick extended the current candle or opened a new one. The evaluation entry
// point receives it unchanged.
type TickResult string

const (
	TickSameCandle TickResult = "same_candle"
	TickNewCandle  TickResult = "new_candle"
)

// Strategy is the trading-decision collaborator. The connectivity layer does
// not decide when to trade; it feeds strategies aggregated trades from the
// stream and recomputes the PnL of the trades they track. Implementations
// must tolerate OnAggTrade and Evaluate being invoked from the stream
// context.
type Strategy interface {
	// Contract returns the instrument this strategy trades.
	Contract() schema.Contract

	// OnAggTrade ingests one executed trade from the stream.
	OnAggTrade(price, quantity decimal.Decimal, timestamp int64) TickResult

	// Evaluate runs the strategy's trade check with the ingestion result.
	Evaluate(result TickResult)

	// Trades returns the positions this strategy tracks.
	Trades() []*schema.Trade
}
