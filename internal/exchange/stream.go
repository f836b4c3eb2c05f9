package exchange

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"whalewatch/internal/classify"
	"whalewatch/internal/model"
)

// Conn is the subset of a websocket connection the supervisor needs.
// *websocket.Conn satisfies it directly.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Dialer opens a streaming connection to the given endpoint.
type Dialer func(ctx context.Context, url string) (Conn, error)

// DialWebsocket is the production Dialer, backed by gorilla/websocket.
func DialWebsocket(ctx context.Context, url string) (Conn, error) {
	c, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Sink receives qualifying trades for durable persistence, in arrival order.
type Sink interface {
	Append(ctx context.Context, trade model.ClassifiedTrade) error
}

// Alerter renders a qualifying trade for a human. Alerting happens after
// persistence and must never affect it.
type Alerter interface {
	Alert(trade model.ClassifiedTrade)
}

// SupervisorConfig holds the per-symbol stream settings.
type SupervisorConfig struct {
	Symbol  string        // instrument code, lowercase as used in the stream path
	BaseURL string        // stream endpoint prefix, e.g. "wss://fstream.binance.com/ws/"
	Backoff time.Duration // fixed delay between reconnect attempts
	Dial    Dialer        // defaults to DialWebsocket
}

// StreamURL builds the per-symbol aggTrade endpoint.
func StreamURL(baseURL, symbol string) string {
	return baseURL + symbol + "@aggTrade"
}

// Supervisor owns the lifetime of one connection for one symbol: connect,
// consume messages until failure, run each message through decode, classify
// and the sinks, and reconnect after a fixed delay on any termination.
// Supervisors for different symbols are fully independent.
type Supervisor struct {
	logger     *slog.Logger
	cfg        SupervisorConfig
	url        string
	classifier *classify.Classifier
	sinks      []Sink
	alerter    Alerter
}

// NewSupervisor creates a Supervisor for one symbol.
func NewSupervisor(logger *slog.Logger, cfg SupervisorConfig, classifier *classify.Classifier, sinks []Sink, alerter Alerter) *Supervisor {
	if cfg.Dial == nil {
		cfg.Dial = DialWebsocket
	}
	return &Supervisor{
		logger:     logger.With("symbol", cfg.Symbol),
		cfg:        cfg,
		url:        StreamURL(cfg.BaseURL, cfg.Symbol),
		classifier: classifier,
		sinks:      sinks,
		alerter:    alerter,
	}
}

// Run drives the connect/stream/backoff loop until ctx is cancelled. There
// is no terminal state on stream failure: the loop retries forever, and a
// failure in this symbol's session has no effect on any other symbol.
func (s *Supervisor) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			s.logger.Info("supervisor stopped")
			return
		}

		s.logger.Info("connecting to trade stream", "url", s.url)
		conn, err := s.cfg.Dial(ctx, s.url)
		if err != nil {
			s.logger.Error("connection failed, will retry", "error", err, "backoff", s.cfg.Backoff)
			if !s.wait(ctx) {
				return
			}
			continue
		}

		s.stream(ctx, conn)
		conn.Close()

		if ctx.Err() != nil {
			s.logger.Info("supervisor stopped")
			return
		}
		s.logger.Info("stream closed, attempting to reconnect", "backoff", s.cfg.Backoff)
		if !s.wait(ctx) {
			return
		}
	}
}

// stream consumes messages until the connection reports an error or ctx is
// cancelled. The in-flight message is always processed to completion before
// the method returns.
func (s *Supervisor) stream(ctx context.Context, conn Conn) {
	// Unblock the pending read on shutdown by closing the connection.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	s.logger.Info("streaming trades")
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Error("failed to read message", "error", err)
			}
			return
		}
		s.process(ctx, payload)
	}
}

// process runs one inbound payload through decode, classify, persistence and
// alerting. Decode and persist errors are logged and contained here; they
// never change the session state.
func (s *Supervisor) process(ctx context.Context, payload []byte) {
	event, err := DecodeAggTrade(payload)
	if err != nil {
		s.logger.Warn("dropping malformed message", "error", err)
		return
	}

	trade, ok := s.classifier.Classify(event, s.cfg.Symbol)
	if !ok {
		return
	}

	// Sinks run before the alerter so a render problem can never suppress
	// persistence.
	for _, sink := range s.sinks {
		if err := sink.Append(ctx, trade); err != nil {
			s.logger.Error("failed to persist trade", "error", err, "aggTradeId", event.AggTradeID)
		}
	}
	if s.alerter != nil {
		s.alerter.Alert(trade)
	}
}

// wait sleeps for the configured backoff, suspending only this supervisor.
// It reports false when ctx was cancelled during the wait.
func (s *Supervisor) wait(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		s.logger.Info("supervisor stopped")
		return false
	case <-time.After(s.cfg.Backoff):
		return true
	}
}
