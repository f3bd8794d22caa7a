package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/kingsmao/binance-futures-connector/pkg/logger"
)

const apiKeyHeader = "X-MBX-APIKEY"

// Transport performs synchronous HTTP calls against the exchange REST API.
// The API key travels in a header only, never in the body or query. No
// retries happen at this layer; retry policy belongs to the caller.
type Transport struct {
	http   *resty.Client
	apiKey string
}

// NewTransport creates a transport bound to a base URL.
func NewTransport(baseURL, apiKey string) *Transport {
	return &Transport{
		http:   resty.New().SetBaseURL(baseURL),
		apiKey: apiKey,
	}
}

// Execute sends one request and returns the raw response body. Parameters
// are encoded into the query string in insertion order so that signed
// requests arrive exactly as they were signed.
//
// Failures are logged once here and returned as *TransportError (no response
// obtained) or *ExchangeError (non-success status). Methods other than GET,
// POST and DELETE are a caller defect and panic.
func (t *Transport) Execute(ctx context.Context, method, path string, params *Params) ([]byte, error) {
	url := path
	if params.Len() > 0 {
		url = path + "?" + params.Encode()
	}

	req := t.http.R().SetContext(ctx).SetHeader(apiKeyHeader, t.apiKey)

	var (
		r   *resty.Response
		err error
	)
	switch method {
	case http.MethodGet:
		r, err = req.Get(url)
	case http.MethodPost:
		r, err = req.Post(url)
	case http.MethodDelete:
		r, err = req.Delete(url)
	default:
		panic(fmt.Sprintf("rest: unsupported HTTP method %q", method))
	}

	if err != nil {
		logger.Error("Connection error while making %s request to %s: %v", method, path, err)
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	if r.IsError() {
		logger.Error("Error while making %s request to %s: %s (error code %d)",
			method, path, string(r.Body()), r.StatusCode())
		return nil, &ExchangeError{Method: method, Path: path, Status: r.StatusCode(), Body: string(r.Body())}
	}
	return r.Body(), nil
}
