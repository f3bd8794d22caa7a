// Package sdk exposes the exchange connectivity layer as a single client:
// synchronous REST access (catalog, candles, balances, orders) plus a
// self-healing streaming session feeding the shared quote cache and the
// registered strategies.
package sdk

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/kingsmao/binance-futures-connector/internal/cache"
	"github.com/kingsmao/binance-futures-connector/internal/config"
	"github.com/kingsmao/binance-futures-connector/internal/exchange/binance/futures"
	"github.com/kingsmao/binance-futures-connector/internal/rest"
	"github.com/kingsmao/binance-futures-connector/internal/strategy"
	"github.com/kingsmao/binance-futures-connector/pkg/logger"
	"github.com/kingsmao/binance-futures-connector/pkg/schema"
)

// Client is the facade the rest of the system depends on.
type Client struct {
	cfg *config.Config

	rest   *futures.REST
	stream *futures.Stream

	quotes     *cache.QuoteCache
	catalog    *cache.Catalog
	strategies *strategy.Book
}

// New wires the connectivity layer from a validated config.
func New(cfg *config.Config) *Client {
	transport := rest.NewTransport(cfg.BaseURL, cfg.APIKey)
	signer := rest.NewSigner(cfg.APISecret)

	quotes := cache.NewQuoteCache()
	strategies := strategy.NewBook()
	dispatcher := futures.NewDispatcher(quotes, strategies)
	subs := cache.NewSubscriptionBook()

	return &Client{
		cfg:        cfg,
		rest:       futures.NewREST(transport, signer),
		stream:     futures.NewStream(cfg.StreamURL, subs, dispatcher, cfg.ReconnectWait()),
		quotes:     quotes,
		catalog:    cache.NewCatalog(),
		strategies: strategies,
	}
}

// Start launches the stream's run loop and warms up the client: the contract
// catalog and an account probe are fetched in parallel. A warmup failure is
// returned but leaves the client usable; the stream keeps reconnecting on
// its own.
func (c *Client) Start(ctx context.Context) error {
	c.stream.Start()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.RefreshContracts(ctx)
	})
	g.Go(func() error {
		balances, err := c.rest.GetBalances(ctx)
		if err != nil {
			return err
		}
		logger.Info("Account probe ok, %d assets", len(balances))
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Warn("Client warmup incomplete: %v", err)
		return err
	}

	logger.Info("Futures client successfully started")
	return nil
}

// Stop shuts the stream down permanently and waits for the run loop to end.
func (c *Client) Stop() {
	c.stream.Shutdown()
	<-c.stream.Done()
}

// StreamState returns the streaming session's connection state.
func (c *Client) StreamState() futures.StreamState {
	return c.stream.State()
}

// StreamConnected reports whether the streaming session is established.
func (c *Client) StreamConnected() bool {
	return c.stream.Connected()
}

// RefreshContracts reloads the contract catalog, fully replacing the
// previous one. On failure the previous catalog stays untouched.
func (c *Client) RefreshContracts(ctx context.Context) error {
	contracts, err := c.rest.GetContracts(ctx)
	if err != nil {
		return err
	}
	c.catalog.Replace(contracts)
	logger.Info("Contract catalog refreshed, %d symbols", len(contracts))
	return nil
}

// Contracts returns the cached catalog ordered lexicographically by symbol.
func (c *Client) Contracts() []schema.Contract {
	return c.catalog.Contracts()
}

// Contract looks up one cached contract by symbol.
func (c *Client) Contract(symbol string) (schema.Contract, bool) {
	return c.catalog.Get(symbol)
}

// HistoricalCandles fetches up to limit candles, oldest first.
func (c *Client) HistoricalCandles(ctx context.Context, contract schema.Contract, interval schema.Interval, limit int) ([]schema.Candle, error) {
	return c.rest.GetHistoricalCandles(ctx, contract, interval, limit)
}

// BidAsk fetches a one-shot quote over REST and feeds it into the shared
// quote cache, so stream and REST reads agree on the latest value.
func (c *Client) BidAsk(ctx context.Context, contract schema.Contract) (schema.Quote, error) {
	quote, err := c.rest.GetBookTicker(ctx, contract)
	if err != nil {
		return schema.Quote{}, err
	}
	c.quotes.Set(contract.Symbol, quote.Bid, quote.Ask)
	return quote, nil
}

// Quote returns the cached last known bid/ask of a symbol.
func (c *Client) Quote(symbol string) (schema.Quote, bool) {
	return c.quotes.Get(symbol)
}

// Balances fetches the per-asset account balances.
func (c *Client) Balances(ctx context.Context) (map[string]schema.Balance, error) {
	return c.rest.GetBalances(ctx)
}

// PlaceOrder submits an order with quantized quantity and price.
func (c *Client) PlaceOrder(ctx context.Context, req futures.OrderRequest) (schema.OrderStatus, error) {
	return c.rest.PlaceOrder(ctx, req)
}

// CancelOrder cancels an order by id.
func (c *Client) CancelOrder(ctx context.Context, contract schema.Contract, orderID int64) (schema.OrderStatus, error) {
	return c.rest.CancelOrder(ctx, contract, orderID)
}

// OrderStatus queries the current state of an order.
func (c *Client) OrderStatus(ctx context.Context, contract schema.Contract, orderID int64) (schema.OrderStatus, error) {
	return c.rest.GetOrderStatus(ctx, contract, orderID)
}

// TradeSize derives an order quantity from the quote-asset wallet balance.
func (c *Client) TradeSize(ctx context.Context, contract schema.Contract, price, balancePercentage decimal.Decimal) (decimal.Decimal, error) {
	return c.rest.ComputeTradeSize(ctx, contract, price, balancePercentage)
}

// Subscribe subscribes contracts to a streaming channel. Already-subscribed
// symbols are deduplicated.
func (c *Client) Subscribe(channel schema.Channel, contracts ...schema.Contract) error {
	return c.stream.Subscribe(channel, contracts...)
}

// AddStrategy registers a strategy for stream fanout and PnL recompute.
func (c *Client) AddStrategy(s strategy.Strategy) int64 {
	return c.strategies.Add(s)
}

// RemoveStrategy unregisters a strategy.
func (c *Client) RemoveStrategy(id int64) {
	c.strategies.Remove(id)
}
