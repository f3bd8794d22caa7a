package futures

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kingsmao/binance-futures-connector/internal/cache"
	"github.com/kingsmao/binance-futures-connector/internal/strategy"
	"github.com/kingsmao/binance-futures-connector/pkg/schema"
)

// wsHarness is a mock stream endpoint. Every accepted connection is handed to
// the test through conns; every control message received on any connection is
// forwarded through msgs.
type wsHarness struct {
	url   string
	msgs  chan subscribeMessage
	conns chan *websocket.Conn
}

func newWSHarness(t *testing.T) *wsHarness {
	t.Helper()
	h := &wsHarness{
		msgs:  make(chan subscribeMessage, 16),
		conns: make(chan *websocket.Conn, 4),
	}

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.conns <- conn
		for {
			var msg subscribeMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			h.msgs <- msg
		}
	}))
	t.Cleanup(server.Close)

	h.url = "ws" + strings.TrimPrefix(server.URL, "http")
	return h
}

func (h *wsHarness) recvMessage(t *testing.T) subscribeMessage {
	t.Helper()
	select {
	case msg := <-h.msgs:
		return msg
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for a control message")
		return subscribeMessage{}
	}
}

func (h *wsHarness) recvConn(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case conn := <-h.conns:
		return conn
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for a connection")
		return nil
	}
}

func (h *wsHarness) expectSilence(t *testing.T) {
	t.Helper()
	select {
	case msg := <-h.msgs:
		t.Fatalf("unexpected control message: %+v", msg)
	case <-time.After(150 * time.Millisecond):
	}
}

func newTestStream(t *testing.T, h *wsHarness) (*Stream, *cache.QuoteCache) {
	t.Helper()
	quotes := cache.NewQuoteCache()
	dispatcher := NewDispatcher(quotes, strategy.NewBook())
	stream := NewStream(h.url, cache.NewSubscriptionBook(), dispatcher, 50*time.Millisecond)
	t.Cleanup(func() {
		stream.Shutdown()
		select {
		case <-stream.Done():
		case <-time.After(3 * time.Second):
			t.Error("stream did not stop after Shutdown")
		}
	})
	return stream, quotes
}

func contractFor(symbol string) schema.Contract {
	return schema.NewContract(symbol, symbol[:3], "USDT", 2, 3)
}

func TestStreamSubscribesDefaultSymbolOnConnect(t *testing.T) {
	h := newWSHarness(t)
	stream, _ := newTestStream(t, h)
	stream.Start()

	msg := h.recvMessage(t)
	if msg.Method != "SUBSCRIBE" {
		t.Errorf("method = %q, want SUBSCRIBE", msg.Method)
	}
	if !reflect.DeepEqual(msg.Params, []string{"xrpusdt@bookTicker"}) {
		t.Errorf("params = %v, want the default book-ticker topic", msg.Params)
	}
	if msg.ID != 1 {
		t.Errorf("id = %d, want 1", msg.ID)
	}
	if !stream.Connected() {
		t.Errorf("state = %s, want connected", stream.State())
	}
}

func TestStreamSubscribeDeduplicatesAndNumbersMessages(t *testing.T) {
	h := newWSHarness(t)
	stream, _ := newTestStream(t, h)
	stream.Start()
	first := h.recvMessage(t) // default subscription

	if err := stream.Subscribe(schema.ChannelBookTicker, contractFor("BTCUSDT")); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	second := h.recvMessage(t)
	if !reflect.DeepEqual(second.Params, []string{"btcusdt@bookTicker"}) {
		t.Errorf("params = %v, want btcusdt@bookTicker", second.Params)
	}
	if second.ID <= first.ID {
		t.Errorf("ids not monotonic: %d then %d", first.ID, second.ID)
	}

	// Fully duplicate request: no message at all.
	if err := stream.Subscribe(schema.ChannelBookTicker, contractFor("BTCUSDT")); err != nil {
		t.Fatalf("duplicate Subscribe() error = %v", err)
	}
	h.expectSilence(t)

	// Mixed request: only the new symbol goes on the wire.
	if err := stream.Subscribe(schema.ChannelBookTicker, contractFor("BTCUSDT"), contractFor("ETHUSDT")); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	third := h.recvMessage(t)
	if !reflect.DeepEqual(third.Params, []string{"ethusdt@bookTicker"}) {
		t.Errorf("params = %v, want only ethusdt@bookTicker", third.Params)
	}
	if third.ID <= second.ID {
		t.Errorf("ids not monotonic: %d then %d", second.ID, third.ID)
	}
}

func TestStreamSubscribeBeforeConnectIsReplayed(t *testing.T) {
	h := newWSHarness(t)
	stream, _ := newTestStream(t, h)

	// Not connected yet: the send fails but the subscription is recorded.
	if err := stream.Subscribe(schema.ChannelBookTicker, contractFor("BTCUSDT")); err != ErrNotConnected {
		t.Fatalf("Subscribe() before connect error = %v, want ErrNotConnected", err)
	}

	stream.Start()

	msg := h.recvMessage(t)
	if !reflect.DeepEqual(msg.Params, []string{"btcusdt@bookTicker"}) {
		t.Errorf("replayed params = %v, want btcusdt@bookTicker", msg.Params)
	}
	// The default symbol still gets its own subscription.
	msg = h.recvMessage(t)
	if !reflect.DeepEqual(msg.Params, []string{"xrpusdt@bookTicker"}) {
		t.Errorf("default params = %v, want xrpusdt@bookTicker", msg.Params)
	}
}

func TestStreamReconnectReplaysSubscriptions(t *testing.T) {
	h := newWSHarness(t)
	stream, _ := newTestStream(t, h)
	stream.Start()

	conn := h.recvConn(t)
	h.recvMessage(t) // default subscription
	if err := stream.Subscribe(schema.ChannelAggTrade, contractFor("BTCUSDT")); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	last := h.recvMessage(t)

	// Kill the session server-side and wait for the reconnect.
	conn.Close()
	h.recvConn(t)

	var replayed [][]string
	for i := 0; i < 2; i++ {
		msg := h.recvMessage(t)
		if msg.ID <= last.ID {
			t.Errorf("replay id = %d, want > %d", msg.ID, last.ID)
		}
		last = msg
		replayed = append(replayed, msg.Params)
	}

	want := [][]string{{"btcusdt@aggTrade"}, {"xrpusdt@bookTicker"}}
	if !reflect.DeepEqual(replayed, want) {
		t.Errorf("replayed topics = %v, want %v", replayed, want)
	}
}

func TestStreamDispatchesInboundMessages(t *testing.T) {
	h := newWSHarness(t)
	stream, quotes := newTestStream(t, h)
	stream.Start()

	conn := h.recvConn(t)
	h.recvMessage(t) // default subscription

	payload := `{"e":"bookTicker","s":"XRPUSDT","b":"0.5001","a":"0.5003"}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		if quote, ok := quotes.Get("XRPUSDT"); ok {
			if quote.Bid.String() != "0.5001" || quote.Ask.String() != "0.5003" {
				t.Errorf("quote = %s/%s", quote.Bid, quote.Ask)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("inbound message never reached the quote cache")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStreamShutdownStopsPermanently(t *testing.T) {
	h := newWSHarness(t)
	stream, _ := newTestStream(t, h)
	stream.Start()

	h.recvConn(t)
	h.recvMessage(t)

	stream.Shutdown()
	select {
	case <-stream.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("run loop still alive after Shutdown")
	}
	if stream.State() != StateDisconnected {
		t.Errorf("state = %s after Shutdown, want disconnected", stream.State())
	}
	if stream.Connected() {
		t.Error("Connected() = true after Shutdown")
	}
}
