package rest

import (
	"strings"
	"testing"
)

func TestParamsEncodePreservesInsertionOrder(t *testing.T) {
	params := NewParams().
		Set("symbol", "BTCUSDT").
		Set("side", "BUY").
		Set("quantity", "0.5").
		Set("type", "MARKET")

	got := params.Encode()
	want := "symbol=BTCUSDT&side=BUY&quantity=0.5&type=MARKET"
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestParamsEncodeEscapesValues(t *testing.T) {
	got := NewParams().Set("note", "a b&c").Encode()
	want := "note=a+b%26c"
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestParamsEncodeEmpty(t *testing.T) {
	if got := NewParams().Encode(); got != "" {
		t.Errorf("Encode() on empty params = %q, want empty string", got)
	}
	var nilParams *Params
	if got := nilParams.Encode(); got != "" {
		t.Errorf("Encode() on nil params = %q, want empty string", got)
	}
}

func TestParamsGet(t *testing.T) {
	params := NewParams().Set("symbol", "ETHUSDT").Set("limit", "500")

	if v, ok := params.Get("limit"); !ok || v != "500" {
		t.Errorf("Get(limit) = %q, %v, want 500, true", v, ok)
	}
	if _, ok := params.Get("missing"); ok {
		t.Error("Get(missing) reported a value for an absent key")
	}
	if params.Len() != 2 {
		t.Errorf("Len() = %d, want 2", params.Len())
	}
}

func TestParamsOrderChangesEncoding(t *testing.T) {
	a := NewParams().Set("x", "1").Set("y", "2").Encode()
	b := NewParams().Set("y", "2").Set("x", "1").Encode()
	if a == b {
		t.Errorf("different insertion orders encoded identically: %q", a)
	}
	if !strings.HasPrefix(a, "x=1") || !strings.HasPrefix(b, "y=2") {
		t.Errorf("encodings lost their leading pair: %q / %q", a, b)
	}
}
