// Package monitor wires the per-symbol stream supervisors into one fleet.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"whalewatch/internal/classify"
	"whalewatch/internal/config"
	"whalewatch/internal/exchange"
)

// Fleet starts one stream supervisor per configured symbol and lets them
// run concurrently and independently: a failure or backoff in one symbol's
// session has zero effect on any other.
type Fleet struct {
	logger     *slog.Logger
	cfg        config.MonitorConfig
	classifier *classify.Classifier
	sinks      []exchange.Sink
	alerter    exchange.Alerter
	dial       exchange.Dialer
}

// New creates a Fleet. dial may be nil to use the production websocket
// dialer.
func New(logger *slog.Logger, cfg config.MonitorConfig, classifier *classify.Classifier, sinks []exchange.Sink, alerter exchange.Alerter, dial exchange.Dialer) *Fleet {
	return &Fleet{
		logger:     logger,
		cfg:        cfg,
		classifier: classifier,
		sinks:      sinks,
		alerter:    alerter,
		dial:       dial,
	}
}

// Run starts every supervisor and returns once all of them have exited,
// which under normal operation only happens when ctx is cancelled. Symbols
// are not deduplicated or validated beyond non-emptiness: an invalid symbol
// simply produces a connection that perpetually fails and backs off.
func (f *Fleet) Run(ctx context.Context) error {
	if len(f.cfg.Symbols) == 0 {
		return errors.New("no symbols configured")
	}

	backoff := time.Duration(f.cfg.BackoffMS) * time.Millisecond
	f.logger.Info("starting fleet", "symbols", f.cfg.Symbols, "backoff", backoff)

	var wg sync.WaitGroup
	for _, symbol := range f.cfg.Symbols {
		sup := exchange.NewSupervisor(f.logger, exchange.SupervisorConfig{
			Symbol:  symbol,
			BaseURL: f.cfg.StreamURL,
			Backoff: backoff,
			Dial:    f.dial,
		}, f.classifier, f.sinks, f.alerter)

		wg.Add(1)
		go func() {
			defer wg.Done()
			sup.Run(ctx)
		}()
	}

	wg.Wait()
	f.logger.Info("fleet stopped")
	return nil
}
