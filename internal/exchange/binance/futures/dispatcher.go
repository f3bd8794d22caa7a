package futures

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/kingsmao/binance-futures-connector/internal/cache"
	"github.com/kingsmao/binance-futures-connector/internal/strategy"
	"github.com/kingsmao/binance-futures-connector/pkg/logger"
	"github.com/kingsmao/binance-futures-connector/pkg/schema"
)

// Dispatcher decodes inbound stream messages and fans them out: book tickers
// update the quote cache and recompute open-position PnL, aggregated trades
// feed the strategies. It always iterates a snapshot of the strategy book,
// so concurrent Add/Remove can never corrupt an in-flight update.
type Dispatcher struct {
	quotes     *cache.QuoteCache
	strategies *strategy.Book
}

// NewDispatcher wires the dispatcher to the shared caches.
func NewDispatcher(quotes *cache.QuoteCache, strategies *strategy.Book) *Dispatcher {
	return &Dispatcher{quotes: quotes, strategies: strategies}
}

// streamEvent covers the recognized data events. In aggTrade messages "a" is
// the aggregate trade id rather than an ask price; it decodes harmlessly and
// is never read on that path.
type streamEvent struct {
	Event     string          `json:"e"`
	Symbol    string          `json:"s"`
	BidPrice  decimal.Decimal `json:"b"`
	AskPrice  decimal.Decimal `json:"a"`
	Price     decimal.Decimal `json:"p"`
	Quantity  decimal.Decimal `json:"q"`
	TradeTime int64           `json:"T"`
}

// Dispatch handles one raw inbound message. Unrecognized event types,
// including subscribe acknowledgements, are ignored without error.
func (d *Dispatcher) Dispatch(raw []byte) {
	var ev streamEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		logger.Error("Failed to decode stream message: %v", err)
		return
	}

	switch schema.Channel(ev.Event) {
	case schema.ChannelBookTicker:
		d.onBookTicker(ev)
	case schema.ChannelAggTrade:
		d.onAggTrade(ev)
	}
}

// onBookTicker overwrites the symbol's quote, then recomputes the PnL of
// every open position on that symbol: long positions against the bid, short
// positions against the ask. Trades without a recorded entry price or not in
// the open state are skipped.
func (d *Dispatcher) onBookTicker(ev streamEvent) {
	d.quotes.Set(ev.Symbol, ev.BidPrice, ev.AskPrice)

	for _, strat := range d.strategies.ForSymbol(ev.Symbol) {
		for _, trade := range strat.Trades() {
			if trade.Status() != schema.TradeStatusOpen || trade.EntryPrice.IsZero() {
				continue
			}
			switch trade.Side {
			case schema.TradeSideLong:
				trade.SetPnL(ev.BidPrice.Sub(trade.EntryPrice).Mul(trade.Quantity))
			case schema.TradeSideShort:
				trade.SetPnL(trade.EntryPrice.Sub(ev.AskPrice).Mul(trade.Quantity))
			}
		}
	}
}

// onAggTrade forwards the executed trade to each matching strategy's
// ingestion entry point, then to its evaluation entry point with the
// ingestion result.
func (d *Dispatcher) onAggTrade(ev streamEvent) {
	for _, strat := range d.strategies.ForSymbol(ev.Symbol) {
		result := strat.OnAggTrade(ev.Price, ev.Quantity, ev.TradeTime)
		strat.Evaluate(result)
	}
}
