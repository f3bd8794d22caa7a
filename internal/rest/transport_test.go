package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExecuteReturnsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	transport := NewTransport(server.URL, "test-key")
	body, err := transport.Execute(context.Background(), http.MethodGet, "/fapi/v1/time", NewParams())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("Execute() body = %s", body)
	}
}

func TestExecuteSendsAPIKeyHeaderAndRawQuery(t *testing.T) {
	var gotHeader, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-MBX-APIKEY")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	transport := NewTransport(server.URL, "test-key")
	params := NewParams().Set("symbol", "BTCUSDT").Set("side", "BUY").Set("a", "1")
	if _, err := transport.Execute(context.Background(), http.MethodPost, "/fapi/v1/order", params); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if gotHeader != "test-key" {
		t.Errorf("X-MBX-APIKEY = %q, want test-key", gotHeader)
	}
	// The query must arrive exactly as encoded, order intact.
	if gotQuery != "symbol=BTCUSDT&side=BUY&a=1" {
		t.Errorf("raw query = %q, want symbol=BTCUSDT&side=BUY&a=1", gotQuery)
	}
}

func TestExecuteRejectionBecomesExchangeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer server.Close()

	transport := NewTransport(server.URL, "test-key")
	_, err := transport.Execute(context.Background(), http.MethodGet, "/fapi/v1/klines", NewParams())

	var exchangeErr *ExchangeError
	if !errors.As(err, &exchangeErr) {
		t.Fatalf("Execute() error = %T, want *ExchangeError", err)
	}
	if exchangeErr.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", exchangeErr.Status, http.StatusBadRequest)
	}
	if exchangeErr.Body != `{"code":-1121,"msg":"Invalid symbol."}` {
		t.Errorf("Body = %q", exchangeErr.Body)
	}
}

func TestExecuteConnectionFailureBecomesTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	transport := NewTransport(server.URL, "test-key")
	_, err := transport.Execute(context.Background(), http.MethodGet, "/fapi/v1/time", NewParams())

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Execute() error = %T, want *TransportError", err)
	}
	if transportErr.Unwrap() == nil {
		t.Error("TransportError does not wrap the underlying error")
	}
}

func TestExecutePanicsOnUnsupportedMethod(t *testing.T) {
	transport := NewTransport("http://localhost", "test-key")

	defer func() {
		if recover() == nil {
			t.Error("Execute() with PUT did not panic")
		}
	}()
	transport.Execute(context.Background(), http.MethodPut, "/fapi/v1/order", NewParams())
}
