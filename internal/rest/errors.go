package rest

import "fmt"

// TransportError reports that no response was obtained at all: DNS failure,
// timeout, connection reset. The caller decides whether to retry.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error on %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ExchangeError reports a non-success status code together with the decoded
// response body.
type ExchangeError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("exchange rejected %s %s: %s (status %d)", e.Method, e.Path, e.Body, e.Status)
}
