package schema

import (
	"github.com/shopspring/decimal"
)

// Contract describes a tradable instrument with its exchange-defined
// precision. Immutable once constructed; rebuilt on every catalog refresh.
type Contract struct {
	Symbol            string          `json:"symbol"`
	BaseAsset         string          `json:"baseAsset"`
	QuoteAsset        string          `json:"quoteAsset"`
	PriceDecimals     int             `json:"priceDecimals"`
	QuantityDecimals  int             `json:"quantityDecimals"`
	TickSize          decimal.Decimal `json:"tickSize"`
	LotSize           decimal.Decimal `json:"lotSize"`
}

// NewContract derives tickSize and lotSize from the decimal-precision
// configuration: tickSize = 10^-priceDecimals, lotSize = 10^-quantityDecimals.
func NewContract(symbol, base, quote string, priceDecimals, quantityDecimals int) Contract {
	return Contract{
		Symbol:           symbol,
		BaseAsset:        base,
		QuoteAsset:       quote,
		PriceDecimals:    priceDecimals,
		QuantityDecimals: quantityDecimals,
		TickSize:         decimal.New(1, -int32(priceDecimals)),
		LotSize:          decimal.New(1, -int32(quantityDecimals)),
	}
}

// TruncateQuantity floors a quantity toward zero to the nearest multiple of
// the contract's lot size. 1.2347 with lotSize 0.001 becomes 1.234, never
// 1.235.
func (c Contract) TruncateQuantity(quantity decimal.Decimal) decimal.Decimal {
	return quantity.Div(c.LotSize).Truncate(0).Mul(c.LotSize)
}

// QuantizePrice rounds a price to the nearest multiple of the contract's
// tick size.
func (c Contract) QuantizePrice(price decimal.Decimal) decimal.Decimal {
	return price.Div(c.TickSize).Round(0).Mul(c.TickSize)
}

// FormatPrice renders a price with exactly PriceDecimals fractional digits.
// The fixed-point form keeps the wire representation free of exponential
// notation even for very small tick sizes.
func (c Contract) FormatPrice(price decimal.Decimal) string {
	return price.StringFixed(int32(c.PriceDecimals))
}
