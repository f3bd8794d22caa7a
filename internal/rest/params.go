package rest

import (
	"net/url"
	"strings"
)

// Params is an insertion-ordered list of request parameters. Order matters:
// the request signature is computed over the encoded form, and the exchange
// verifies it against the query string exactly as sent, so the encoding must
// be deterministic and order-preserving. url.Values cannot be used here
// because it sorts keys on Encode.
type Params struct {
	pairs []pair
}

type pair struct {
	key   string
	value string
}

// NewParams returns an empty parameter list.
func NewParams() *Params {
	return &Params{}
}

// Set appends a key/value pair, preserving insertion order.
func (p *Params) Set(key, value string) *Params {
	p.pairs = append(p.pairs, pair{key: key, value: value})
	return p
}

// Len returns the number of pairs.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.pairs)
}

// Get returns the value of the first pair with the given key.
func (p *Params) Get(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, kv := range p.pairs {
		if kv.key == key {
			return kv.value, true
		}
	}
	return "", false
}

// Encode serializes the pairs as a URL query string in insertion order.
func (p *Params) Encode() string {
	if p == nil || len(p.pairs) == 0 {
		return ""
	}
	var b strings.Builder
	for i, kv := range p.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv.value))
	}
	return b.String()
}
