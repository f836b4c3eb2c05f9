// Package alert formats classified trades for a human and dispatches
// push notifications for the largest ones. Rendering is separated from
// dispatch so classification and persistence can be tested without any
// output sink.
package alert

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"whalewatch/internal/model"
)

const (
	ansiReset   = "\033[0m"
	ansiBold    = "\033[1m"
	ansiRed     = "\033[31m"
	ansiGreen   = "\033[32m"
	ansiBlue    = "\033[34m"
	ansiMagenta = "\033[35m"
)

// exchangeTimeZone is the fixed zone used to render trade timestamps.
const exchangeTimeZone = "America/New_York"

// Renderer turns classified trades into display lines and, above the
// notification ceiling, push notifications. It never affects logging or
// reconnection; notifier failures are swallowed.
type Renderer struct {
	out         io.Writer
	logger      *slog.Logger
	loc         *time.Location
	notifier    Notifier
	notifyFloor decimal.Decimal
}

// NewRenderer creates a Renderer writing display lines to out. notifier may
// be nil; notifyNotional is the inclusive notional ceiling above which a
// notification is pushed.
func NewRenderer(out io.Writer, logger *slog.Logger, notifier Notifier, notifyNotional float64) (*Renderer, error) {
	loc, err := time.LoadLocation(exchangeTimeZone)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", exchangeTimeZone, err)
	}
	return &Renderer{
		out:         out,
		logger:      logger,
		loc:         loc,
		notifier:    notifier,
		notifyFloor: decimal.NewFromFloat(notifyNotional),
	}, nil
}

// Render formats one trade as a display line with tier-dependent emphasis
// and direction-dependent color. It is pure and never fails on a valid
// classified trade.
func (r *Renderer) Render(trade model.ClassifiedTrade) string {
	tradeTime := time.UnixMilli(trade.Event.TradeTime).In(r.loc).Format("15:04:05")

	stars := ""
	switch trade.Tier {
	case model.TierWhale:
		stars = "** "
	case model.TierLarge:
		stars = "* "
	}

	color := ansiGreen
	if trade.Direction == model.Sell {
		color = ansiRed
	}
	if trade.Tier == model.TierWhale {
		color = ansiBlue
		if trade.Direction == model.Sell {
			color = ansiMagenta
		}
	}

	line := fmt.Sprintf("%s%s %s %s $%s",
		stars, trade.Direction, displaySymbol(trade.Symbol), tradeTime, formatNotional(trade.Notional))

	line = color + line + ansiReset
	if trade.Tier >= model.TierNotable {
		line = ansiBold + line
	}
	return line
}

// Alert writes the rendered line and pushes a notification when the trade
// reaches the notification ceiling.
func (r *Renderer) Alert(trade model.ClassifiedTrade) {
	fmt.Fprintln(r.out, r.Render(trade))

	if r.notifier == nil || trade.Notional.LessThan(r.notifyFloor) {
		return
	}
	title := fmt.Sprintf("%s %s", trade.Direction, displaySymbol(trade.Symbol))
	body := "$" + formatNotional(trade.Notional)
	if err := r.notifier.Push(title, body); err != nil {
		// Notifications are fire-and-forget; the trade pipeline is unaffected.
		r.logger.Warn("notification failed", "error", err, "title", title)
	}
}

// displaySymbol strips the quote-currency suffix for the console.
func displaySymbol(symbol string) string {
	return strings.TrimSuffix(symbol, "USDT")
}

// formatNotional renders a notional rounded to whole dollars with
// thousands separators.
func formatNotional(n decimal.Decimal) string {
	digits := n.Round(0).BigInt().String()
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
