package classify

import (
	"strings"

	"github.com/shopspring/decimal"
	"whalewatch/internal/config"
	"whalewatch/internal/model"
)

// Classifier derives notional value, direction and severity tier from trade
// events. Classification is pure: no I/O, no randomness, same input always
// yields the same output.
type Classifier struct {
	floor   decimal.Decimal
	notable decimal.Decimal
	large   decimal.Decimal
	whale   decimal.Decimal
}

// New builds a Classifier from the monitor configuration. Thresholds are
// inclusive lower bounds.
func New(cfg config.MonitorConfig) *Classifier {
	return &Classifier{
		floor:   decimal.NewFromFloat(cfg.MinNotional),
		notable: decimal.NewFromFloat(cfg.Tiers.Notable),
		large:   decimal.NewFromFloat(cfg.Tiers.Large),
		whale:   decimal.NewFromFloat(cfg.Tiers.Whale),
	}
}

// Classify computes the classified form of a trade event. Trades whose
// notional value is below the minimum reporting floor are discarded
// entirely (ok is false): the floor is a hard filter, not a tier.
func (c *Classifier) Classify(event model.TradeEvent, symbol string) (trade model.ClassifiedTrade, ok bool) {
	notional := event.Price.Mul(event.Quantity)
	if notional.LessThan(c.floor) {
		return model.ClassifiedTrade{}, false
	}

	direction := model.Buy
	if event.IsBuyerMaker {
		direction = model.Sell
	}

	tier := model.TierBase
	switch {
	case notional.GreaterThanOrEqual(c.whale):
		tier = model.TierWhale
	case notional.GreaterThanOrEqual(c.large):
		tier = model.TierLarge
	case notional.GreaterThanOrEqual(c.notable):
		tier = model.TierNotable
	}

	return model.ClassifiedTrade{
		Symbol:    strings.ToUpper(symbol),
		Event:     event,
		Notional:  notional,
		Direction: direction,
		Tier:      tier,
	}, true
}
