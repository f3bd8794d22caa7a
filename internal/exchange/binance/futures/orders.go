package futures

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kingsmao/binance-futures-connector/internal/rest"
	"github.com/kingsmao/binance-futures-connector/pkg/logger"
	"github.com/kingsmao/binance-futures-connector/pkg/schema"
)

// OrderRequest describes one order to place. Price and TimeInForce are
// optional; both are passed through only when set.
type OrderRequest struct {
	Contract    schema.Contract
	Type        schema.OrderType
	Side        schema.OrderSide
	Quantity    decimal.Decimal
	Price       *decimal.Decimal
	TimeInForce schema.TimeInForce
}

// PlaceOrder submits an order. The quantity is floored toward zero to the
// contract's lot size and the price, when present, is rounded to the nearest
// tick and rendered with the contract's exact decimal count. Side and type
// are uppercased. A generated client order id makes the fill attributable
// even if the response is lost.
func (r *REST) PlaceOrder(ctx context.Context, req OrderRequest) (schema.OrderStatus, error) {
	quantity := req.Contract.TruncateQuantity(req.Quantity)

	params := rest.NewParams().
		Set("symbol", req.Contract.Symbol).
		Set("side", strings.ToUpper(string(req.Side))).
		Set("quantity", quantity.String()).
		Set("type", strings.ToUpper(string(req.Type)))

	if req.Price != nil {
		price := req.Contract.QuantizePrice(*req.Price)
		params.Set("price", req.Contract.FormatPrice(price))
	}
	if req.TimeInForce != "" {
		params.Set("timeInForce", string(req.TimeInForce))
	}
	params.Set("newClientOrderId", uuid.NewString())
	r.signParams(params)

	return r.orderCall(ctx, http.MethodPost, params)
}

// CancelOrder cancels an order by id. Same signing discipline as placement.
func (r *REST) CancelOrder(ctx context.Context, contract schema.Contract, orderID int64) (schema.OrderStatus, error) {
	params := rest.NewParams().
		Set("orderId", strconv.FormatInt(orderID, 10)).
		Set("symbol", contract.Symbol)
	r.signParams(params)

	return r.orderCall(ctx, http.MethodDelete, params)
}

// GetOrderStatus queries the current state of an order.
func (r *REST) GetOrderStatus(ctx context.Context, contract schema.Contract, orderID int64) (schema.OrderStatus, error) {
	params := rest.NewParams().
		Set("symbol", contract.Symbol).
		Set("orderId", strconv.FormatInt(orderID, 10))
	r.signParams(params)

	return r.orderCall(ctx, http.MethodGet, params)
}

// ComputeTradeSize derives an order quantity from the current wallet balance
// of the contract's quote asset: (balance * balancePercentage / 100) / price,
// floored to the lot size exactly as in order placement.
func (r *REST) ComputeTradeSize(ctx context.Context, contract schema.Contract, price decimal.Decimal, balancePercentage decimal.Decimal) (decimal.Decimal, error) {
	balances, err := r.GetBalances(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch balances: %w", err)
	}

	balance, ok := balances[contract.QuoteAsset]
	if !ok {
		return decimal.Zero, fmt.Errorf("no %s balance on the account", contract.QuoteAsset)
	}

	size := balance.WalletBalance.Mul(balancePercentage).Div(decimal.NewFromInt(100)).Div(price)
	size = contract.TruncateQuantity(size)

	logger.Info("Current %s balance = %s, trade size = %s",
		contract.QuoteAsset, balance.WalletBalance.String(), size.String())
	return size, nil
}

func (r *REST) orderCall(ctx context.Context, method string, params *rest.Params) (schema.OrderStatus, error) {
	body, err := r.transport.Execute(ctx, method, apiOrder, params)
	if err != nil {
		return schema.OrderStatus{}, err
	}

	var status schema.OrderStatus
	if err := json.Unmarshal(body, &status); err != nil {
		logger.Error("Failed to decode order response: %v", err)
		return schema.OrderStatus{}, fmt.Errorf("decode order response: %w", err)
	}
	status.Status = strings.ToLower(status.Status)
	return status, nil
}
