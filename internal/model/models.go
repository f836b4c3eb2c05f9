package model

import "github.com/shopspring/decimal"

// TradeEvent represents a single aggregated trade received from the exchange.
// It is immutable once decoded. Price and quantity are non-negative finite
// decimals and quantity is always positive.
type TradeEvent struct {
	EventTime    int64           // exchange event timestamp, epoch millis
	AggTradeID   int64           // aggregate trade id
	Price        decimal.Decimal // trade price
	Quantity     decimal.Decimal // traded base quantity
	PriceText    string          // price exactly as sent on the wire
	QuantityText string          // quantity exactly as sent on the wire
	TradeTime    int64           // trade timestamp, epoch millis
	IsBuyerMaker bool            // true when the resting order was the buyer
}

// Direction is the aggressor side of a trade, inferred from the buyer-maker
// flag: the flag names the passive side, so an active buy has the flag unset.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// Tier is a severity bucket derived from notional value. The ordering
// BASE < NOTABLE < LARGE < WHALE drives alert emphasis and notification
// eligibility.
type Tier int

const (
	TierBase Tier = iota
	TierNotable
	TierLarge
	TierWhale
)

func (t Tier) String() string {
	switch t {
	case TierBase:
		return "BASE"
	case TierNotable:
		return "NOTABLE"
	case TierLarge:
		return "LARGE"
	case TierWhale:
		return "WHALE"
	default:
		return "UNKNOWN"
	}
}

// ClassifiedTrade is a TradeEvent that passed the minimum notional floor,
// enriched with its source symbol and the derived notional, direction and tier.
type ClassifiedTrade struct {
	Symbol    string // instrument code, uppercase
	Event     TradeEvent
	Notional  decimal.Decimal // price * quantity, in quote currency
	Direction Direction
	Tier      Tier
}
