package exchange

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"whalewatch/internal/model"
)

// DecodeError reports an inbound message that could not be turned into a
// trade event. It is non-fatal to the owning session: the message is
// dropped and the connection stays open.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode trade: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode trade: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// aggTradeMessage mirrors the aggTrade stream payload. Price and quantity
// arrive as string-encoded decimals.
type aggTradeMessage struct {
	EventTime    int64  `json:"E"`
	AggTradeID   int64  `json:"a"`
	Price        string `json:"p"`
	Quantity     string `json:"q"`
	TradeTime    int64  `json:"T"`
	IsBuyerMaker bool   `json:"m"`
}

// DecodeAggTrade parses one raw aggTrade payload into a TradeEvent. It fails
// with *DecodeError when the payload is not well-formed JSON, a required
// field is missing, or a numeric field does not parse as a decimal.
func DecodeAggTrade(payload []byte) (model.TradeEvent, error) {
	var msg aggTradeMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return model.TradeEvent{}, &DecodeError{Reason: "malformed payload", Err: err}
	}
	if msg.Price == "" {
		return model.TradeEvent{}, &DecodeError{Reason: "missing price"}
	}
	if msg.Quantity == "" {
		return model.TradeEvent{}, &DecodeError{Reason: "missing quantity"}
	}

	price, err := decimal.NewFromString(msg.Price)
	if err != nil {
		return model.TradeEvent{}, &DecodeError{Reason: "invalid price", Err: err}
	}
	qty, err := decimal.NewFromString(msg.Quantity)
	if err != nil {
		return model.TradeEvent{}, &DecodeError{Reason: "invalid quantity", Err: err}
	}
	if price.IsNegative() {
		return model.TradeEvent{}, &DecodeError{Reason: "negative price"}
	}
	if !qty.IsPositive() {
		return model.TradeEvent{}, &DecodeError{Reason: "non-positive quantity"}
	}

	return model.TradeEvent{
		EventTime:    msg.EventTime,
		AggTradeID:   msg.AggTradeID,
		Price:        price,
		Quantity:     qty,
		PriceText:    msg.Price,
		QuantityText: msg.Quantity,
		TradeTime:    msg.TradeTime,
		IsBuyerMaker: msg.IsBuyerMaker,
	}, nil
}
