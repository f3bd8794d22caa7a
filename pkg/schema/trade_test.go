package schema

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewTradeStartsOpenWithZeroPnL(t *testing.T) {
	c := NewContract("XRPUSDT", "XRP", "USDT", 4, 1)
	trade := NewTrade(1700000000000, c, TradeSideLong, decimal.RequireFromString("0.5"), decimal.RequireFromString("100"), 42)

	if trade.Status() != TradeStatusOpen {
		t.Errorf("Status() = %s, want %s", trade.Status(), TradeStatusOpen)
	}
	if !trade.PnL().IsZero() {
		t.Errorf("PnL() = %s, want 0", trade.PnL())
	}
}

func TestTradeStatusTransition(t *testing.T) {
	c := NewContract("XRPUSDT", "XRP", "USDT", 4, 1)
	trade := NewTrade(0, c, TradeSideShort, decimal.Zero, decimal.Zero, 0)

	trade.SetStatus(TradeStatusClosed)
	if trade.Status() != TradeStatusClosed {
		t.Errorf("Status() = %s, want %s", trade.Status(), TradeStatusClosed)
	}
}

func TestTradePnLConcurrentAccess(t *testing.T) {
	c := NewContract("XRPUSDT", "XRP", "USDT", 4, 1)
	trade := NewTrade(0, c, TradeSideLong, decimal.RequireFromString("1"), decimal.RequireFromString("1"), 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				trade.SetPnL(decimal.NewFromInt(int64(n)))
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				trade.PnL()
			}
		}()
	}
	wg.Wait()
}
