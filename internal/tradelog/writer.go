// Package tradelog appends qualifying trades to a durable, line-oriented
// CSV log shared by all stream supervisors.
package tradelog

import (
	"context"
	"fmt"
	"os"
	"sync"

	"whalewatch/internal/model"
)

// Header is written exactly once, when the log file does not yet exist at
// startup. It deliberately lists a "First Trade ID" column that data rows
// never populate, for compatibility with existing log files.
const Header = "Event Time, Symbol, Aggregate Trade ID, Price, Quantity, First Trade ID, Trade Time, Is Buyer Maker\n"

// PersistError reports a failed append. It is non-fatal: the record is
// lost but the owning session keeps streaming.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("trade log %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Writer is an append-only CSV trade log. Appends from concurrent
// supervisors are serialized so records never interleave mid-line.
type Writer struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

// Open opens the trade log at path, creating it and writing the header
// first if it does not exist. Call it once, before any supervisor starts,
// so the header check never races.
func Open(path string) (*Writer, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte(Header), 0o644); err != nil {
			return nil, &PersistError{Path: path, Err: err}
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, &PersistError{Path: path, Err: err}
	}
	return &Writer{f: f, path: path}, nil
}

// Append writes one data line for the trade. Price and quantity are emitted
// in their original wire text so the log reproduces the exchange's digits.
func (w *Writer) Append(_ context.Context, trade model.ClassifiedTrade) error {
	ev := trade.Event
	line := fmt.Sprintf("%d,%s,%d,%s,%s,%d,%t\n",
		ev.EventTime, trade.Symbol, ev.AggTradeID, ev.PriceText, ev.QuantityText, ev.TradeTime, ev.IsBuyerMaker)

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.f.WriteString(line); err != nil {
		return &PersistError{Path: w.path, Err: err}
	}
	return nil
}

// Close releases the underlying file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}
