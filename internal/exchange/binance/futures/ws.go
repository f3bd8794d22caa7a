package futures

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kingsmao/binance-futures-connector/internal/cache"
	"github.com/kingsmao/binance-futures-connector/pkg/logger"
	"github.com/kingsmao/binance-futures-connector/pkg/schema"
)

const (
	// defaultSymbol guarantees at least one live price stream at all times.
	defaultSymbol = "XRPUSDT"

	// Batches above this size are empirically likely to be dropped by the
	// remote. The client warns but does not enforce the limit.
	maxSubscribeBatch = 200

	writeWait = 10 * time.Second
)

// ErrNotConnected is returned when a control message cannot be sent because
// no session is established.
var ErrNotConnected = errors.New("stream not connected")

// StreamState is the connection state of the streaming session.
type StreamState int32

const (
	StateDisconnected StreamState = iota
	StateConnecting
	StateConnected
	StateErrored
)

func (s StreamState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

type subscribeMessage struct {
	Method string   `json:"method"`
	Params []string `json:"params"`
	ID     int64    `json:"id"`
}

// Stream is a single persistent streaming session. One background goroutine
// owns the connect/read/reconnect cycle; reconnects replay every channel's
// subscription set so they are transparent to consumers. Reconnection is
// attempted indefinitely with a fixed backoff until Shutdown.
type Stream struct {
	url           string
	dialer        *websocket.Dialer
	subs          *cache.SubscriptionBook
	dispatcher    *Dispatcher
	reconnectWait time.Duration

	mu   sync.Mutex
	conn *websocket.Conn

	state    atomic.Int32
	started  atomic.Bool
	shutdown atomic.Bool
	msgID    atomic.Int64

	quit     chan struct{}
	quitOnce sync.Once
	done     chan struct{}
}

// NewStream creates a stream for the given endpoint. reconnectWait is the
// fixed delay between reconnect attempts.
func NewStream(url string, subs *cache.SubscriptionBook, dispatcher *Dispatcher, reconnectWait time.Duration) *Stream {
	return &Stream{
		url:           url,
		dialer:        &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		subs:          subs,
		dispatcher:    dispatcher,
		reconnectWait: reconnectWait,
		quit:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start launches the background run loop. Subsequent calls are no-ops.
func (s *Stream) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go s.run()
}

// Shutdown requests a permanent stop. The run loop consults the flag at its
// reconnect decision point; the current socket is closed to unblock an
// in-flight receive, so shutdown latency is bounded by one read cycle.
func (s *Stream) Shutdown() {
	s.shutdown.Store(true)
	s.quitOnce.Do(func() { close(s.quit) })

	s.mu.Lock()
	if s.conn != nil {
		s.conn.Close()
	}
	s.mu.Unlock()
}

// Done is closed once the run loop has stopped permanently.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// State returns the current connection state.
func (s *Stream) State() StreamState {
	return StreamState(s.state.Load())
}

// Connected reports whether a session is currently established.
func (s *Stream) Connected() bool {
	return s.State() == StateConnected
}

// Subscribe subscribes the contracts to a streaming channel. Symbols already
// subscribed on that channel are skipped; at most one control message is
// sent per call.
func (s *Stream) Subscribe(channel schema.Channel, contracts ...schema.Contract) error {
	symbols := make([]string, 0, len(contracts))
	for _, c := range contracts {
		symbols = append(symbols, c.Symbol)
	}
	return s.subscribe(channel, symbols, false)
}

// subscribe builds and sends one SUBSCRIBE control message. During a replay
// every symbol is included regardless of bookkeeping; otherwise only symbols
// not yet recorded are sent. Bookkeeping is optimistic: a symbol is recorded
// before the message goes out and kept even if the send fails, because the
// replay on the next reconnect resubscribes everything recorded.
func (s *Stream) subscribe(channel schema.Channel, symbols []string, replay bool) error {
	if len(symbols) > maxSubscribeBatch {
		logger.Warn("Subscribing to more than %d symbols at once will most likely fail; "+
			"consider subscribing symbols as they are actually needed", maxSubscribeBatch)
	}

	topics := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		if s.subs.Add(channel, symbol) || replay {
			topics = append(topics, strings.ToLower(symbol)+"@"+string(channel))
		}
	}
	if len(topics) == 0 {
		return nil
	}

	msg := subscribeMessage{
		Method: "SUBSCRIBE",
		Params: topics,
		ID:     s.msgID.Add(1),
	}
	if err := s.send(msg); err != nil {
		logger.Error("Failed to send subscribe message for @%s: %v", channel, err)
		return err
	}
	logger.Info("Subscribing to: %s", strings.Join(topics, ","))
	return nil
}

func (s *Stream) send(msg any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return ErrNotConnected
	}
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(msg)
}

func (s *Stream) setConn(conn *websocket.Conn) {
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
}

func (s *Stream) setState(state StreamState) {
	s.state.Store(int32(state))
}

// run is the single background context owning the session lifecycle.
func (s *Stream) run() {
	for {
		if s.shutdown.Load() {
			s.setState(StateDisconnected)
			close(s.done)
			return
		}

		s.setState(StateConnecting)
		conn, _, err := s.dialer.Dial(s.url, nil)
		if err != nil {
			logger.Error("Stream connection failed: %v", err)
			s.setState(StateErrored)
			s.wait()
			continue
		}

		s.setConn(conn)
		if s.shutdown.Load() {
			conn.Close()
			s.setConn(nil)
			continue
		}

		s.setState(StateConnected)
		logger.Info("Stream connection opened")
		s.replaySubscriptions()

		s.readLoop(conn)

		s.setConn(nil)
		conn.Close()
		if s.shutdown.Load() {
			continue
		}
		s.setState(StateErrored)
		logger.Warn("Stream connection closed, reconnecting in %s", s.reconnectWait)
		s.wait()
	}
}

// replaySubscriptions resubscribes every channel's recorded symbols after a
// (re)connect and guarantees the default book-ticker subscription.
func (s *Stream) replaySubscriptions() {
	for _, channel := range s.subs.Channels() {
		if err := s.subscribe(channel, s.subs.Snapshot(channel), true); err != nil {
			logger.Error("Failed to replay @%s subscriptions: %v", channel, err)
		}
	}
	if !s.subs.Has(schema.ChannelBookTicker, defaultSymbol) {
		if err := s.subscribe(schema.ChannelBookTicker, []string{defaultSymbol}, false); err != nil {
			logger.Error("Failed to subscribe default symbol %s: %v", defaultSymbol, err)
		}
	}
}

func (s *Stream) readLoop(conn *websocket.Conn) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if !s.shutdown.Load() {
				logger.Error("Stream read error: %v", err)
			}
			return
		}
		s.dispatcher.Dispatch(message)
	}
}

func (s *Stream) wait() {
	select {
	case <-s.quit:
	case <-time.After(s.reconnectWait):
	}
}
