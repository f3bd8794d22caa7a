package futures

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kingsmao/binance-futures-connector/internal/rest"
	"github.com/kingsmao/binance-futures-connector/pkg/logger"
	"github.com/kingsmao/binance-futures-connector/pkg/schema"
)

const (
	apiExchangeInfo = "/fapi/v1/exchangeInfo"
	apiKlines       = "/fapi/v1/klines"
	apiBookTicker   = "/fapi/v1/ticker/bookTicker"
	apiAccount      = "/fapi/v1/account"
	apiOrder        = "/fapi/v1/order"

	// The exchange serves at most 1000 candles per query.
	maxCandleLimit = 1000
)

// REST is the synchronous half of the connectivity layer: catalog, candles,
// one-shot quotes, balances and the order gateway.
type REST struct {
	transport *rest.Transport
	signer    *rest.Signer
}

// NewREST creates a REST client for the USDT-margined futures API.
func NewREST(transport *rest.Transport, signer *rest.Signer) *REST {
	return &REST{transport: transport, signer: signer}
}

// signParams appends the millisecond timestamp and the signature over the
// full parameter set, in that order. The signature must cover the timestamp,
// so these are always the final two parameters.
func (r *REST) signParams(params *rest.Params) {
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	params.Set("signature", r.signer.Sign(params))
}

// GetContracts fetches the tradable-contract catalog. On failure it returns
// an empty map together with the error; the caller keeps its previous
// catalog.
func (r *REST) GetContracts(ctx context.Context) (map[string]schema.Contract, error) {
	body, err := r.transport.Execute(ctx, http.MethodGet, apiExchangeInfo, rest.NewParams())
	if err != nil {
		return map[string]schema.Contract{}, err
	}

	var resp struct {
		Symbols []struct {
			Symbol            string `json:"symbol"`
			BaseAsset         string `json:"baseAsset"`
			QuoteAsset        string `json:"quoteAsset"`
			PricePrecision    int    `json:"pricePrecision"`
			QuantityPrecision int    `json:"quantityPrecision"`
		} `json:"symbols"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		logger.Error("Failed to decode exchangeInfo response: %v", err)
		return map[string]schema.Contract{}, fmt.Errorf("decode exchangeInfo: %w", err)
	}

	contracts := make(map[string]schema.Contract, len(resp.Symbols))
	for _, s := range resp.Symbols {
		contracts[s.Symbol] = schema.NewContract(s.Symbol, s.BaseAsset, s.QuoteAsset,
			s.PricePrecision, s.QuantityPrecision)
	}
	return contracts, nil
}

// GetHistoricalCandles fetches up to limit candles, oldest first. limit is
// capped at 1000; zero or negative means 1000. A transport failure yields an
// empty sequence.
func (r *REST) GetHistoricalCandles(ctx context.Context, contract schema.Contract, interval schema.Interval, limit int) ([]schema.Candle, error) {
	if limit <= 0 || limit > maxCandleLimit {
		limit = maxCandleLimit
	}

	params := rest.NewParams().
		Set("symbol", contract.Symbol).
		Set("interval", string(interval)).
		Set("limit", strconv.Itoa(limit))

	body, err := r.transport.Execute(ctx, http.MethodGet, apiKlines, params)
	if err != nil {
		return []schema.Candle{}, err
	}

	var rows [][]any
	if err := json.Unmarshal(body, &rows); err != nil {
		logger.Error("Failed to decode klines response for %s: %v", contract.Symbol, err)
		return []schema.Candle{}, fmt.Errorf("decode klines: %w", err)
	}

	candles := make([]schema.Candle, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}
		ts, ok := row[0].(float64)
		if !ok {
			continue
		}
		candles = append(candles, schema.Candle{
			Timestamp: int64(ts),
			Open:      decimalField(row[1]),
			High:      decimalField(row[2]),
			Low:       decimalField(row[3]),
			Close:     decimalField(row[4]),
			Volume:    decimalField(row[5]),
		})
	}
	return candles, nil
}

// GetBookTicker fetches the current best bid/ask of a contract.
func (r *REST) GetBookTicker(ctx context.Context, contract schema.Contract) (schema.Quote, error) {
	params := rest.NewParams().Set("symbol", contract.Symbol)

	body, err := r.transport.Execute(ctx, http.MethodGet, apiBookTicker, params)
	if err != nil {
		return schema.Quote{}, err
	}

	var resp struct {
		BidPrice decimal.Decimal `json:"bidPrice"`
		AskPrice decimal.Decimal `json:"askPrice"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		logger.Error("Failed to decode bookTicker response for %s: %v", contract.Symbol, err)
		return schema.Quote{}, fmt.Errorf("decode bookTicker: %w", err)
	}
	return schema.Quote{Bid: resp.BidPrice, Ask: resp.AskPrice}, nil
}

// GetBalances fetches the per-asset account balances. Signed.
func (r *REST) GetBalances(ctx context.Context) (map[string]schema.Balance, error) {
	params := rest.NewParams()
	r.signParams(params)

	body, err := r.transport.Execute(ctx, http.MethodGet, apiAccount, params)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Assets []schema.Balance `json:"assets"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		logger.Error("Failed to decode account response: %v", err)
		return nil, fmt.Errorf("decode account: %w", err)
	}

	balances := make(map[string]schema.Balance, len(resp.Assets))
	for _, b := range resp.Assets {
		balances[b.Asset] = b
	}
	return balances, nil
}

// decimalField converts a kline array entry to a decimal. The exchange mixes
// quoted strings and bare numbers in those rows.
func decimalField(v any) decimal.Decimal {
	switch x := v.(type) {
	case string:
		d, err := decimal.NewFromString(x)
		if err != nil {
			return decimal.Zero
		}
		return d
	case float64:
		return decimal.NewFromFloat(x)
	default:
		return decimal.Zero
	}
}
