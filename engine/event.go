package engine

import "kestrel/domain/book"

// EventType tags the operations an engine accepts.
type EventType uint8

const (
	EventNewLimit EventType = iota
	EventNewMarket
	EventCancel
	EventReplace
	// EventStop is the async worker's shutdown sentinel; the
	// synchronous engine treats it as a no-op.
	EventStop
)

// Event is the external form of an engine operation: the symbol is
// still a string, as produced by the protocol layer.
type Event struct {
	Type   EventType
	Symbol string

	Side  book.Side
	Price int64
	Qty   int64

	ID     int64 // cancel / replace target
	TIF    book.TimeInForce
	UserID int64
}

// InternalEvent is the hot-path form: trivially copyable, symbol
// pre-resolved to its dense id, passed by value through the SPSC
// queue.
type InternalEvent struct {
	Symbol uint32
	ID     int64
	Price  int64
	Qty    int64
	UserID int64
	Type   EventType
	Side   book.Side
	TIF    book.TimeInForce
}
