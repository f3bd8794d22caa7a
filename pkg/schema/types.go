package schema

import (
	"github.com/shopspring/decimal"
)

// Channel is a named streaming topic symbols are subscribed to.
type Channel string

const (
	ChannelBookTicker Channel = "bookTicker"
	ChannelAggTrade   Channel = "aggTrade"
)

// OrderSide defines the side of an order on the wire.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// OrderType defines the type of an order on the wire.
type OrderType string

const (
	OrderTypeMarket OrderType = "MARKET"
	OrderTypeLimit  OrderType = "LIMIT"
)

// TimeInForce values accepted by the order endpoint.
type TimeInForce string

const (
	TimeInForceGTC TimeInForce = "GTC"
	TimeInForceIOC TimeInForce = "IOC"
	TimeInForceFOK TimeInForce = "FOK"
)

// Interval for candle queries.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval4h  Interval = "4h"
	Interval1d  Interval = "1d"
)

// Balance holds the margin figures of a single asset. Refreshed on demand,
// never cached long-term.
type Balance struct {
	Asset             string          `json:"asset"`
	InitialMargin     decimal.Decimal `json:"initialMargin"`
	MaintenanceMargin decimal.Decimal `json:"maintMargin"`
	MarginBalance     decimal.Decimal `json:"marginBalance"`
	WalletBalance     decimal.Decimal `json:"walletBalance"`
	UnrealizedPnL     decimal.Decimal `json:"unrealizedProfit"`
}

// Candle is an immutable historical bar.
type Candle struct {
	Timestamp int64           `json:"timestamp"` // open time, ms epoch
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    decimal.Decimal `json:"volume"`
}

// OrderStatus is a snapshot of one order at one point in time. Status is the
// exchange enumeration lowercased ("new", "filled", "canceled", ...).
type OrderStatus struct {
	OrderID     int64           `json:"orderId"`
	Status      string          `json:"status"`
	AvgPrice    decimal.Decimal `json:"avgPrice"`
	ExecutedQty decimal.Decimal `json:"executedQty"`
}

// Quote is the last known best bid/ask of a symbol.
type Quote struct {
	Bid decimal.Decimal `json:"bid"`
	Ask decimal.Decimal `json:"ask"`
}
