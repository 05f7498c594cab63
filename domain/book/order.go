package book

// Side is the direction of an order.
type Side uint8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Sell {
		return "S"
	}
	return "B"
}

// OrderType distinguishes resting-capable limit orders from
// always-aggressive market orders.
type OrderType uint8

const (
	Limit OrderType = iota
	Market
)

// TimeInForce controls what happens to the unmatched part of an order.
type TimeInForce uint8

const (
	// GFD rests any residual quantity on the book.
	GFD TimeInForce = iota
	// IOC matches what it can and drops the rest.
	IOC
	// FOK matches the full quantity immediately or does nothing.
	FOK
)

func (t TimeInForce) String() string {
	switch t {
	case IOC:
		return "IOC"
	case FOK:
		return "FOK"
	default:
		return "GFD"
	}
}

// Order is a resting or in-flight order. Qty is the remaining
// (unfilled) quantity and is decremented as trades execute.
//
// next/prev link the order into its price level's FIFO; they are
// only meaningful for resting orders.
type Order struct {
	ID    int64
	Price int64
	Qty   int64

	Side Side
	Type OrderType
	TIF  TimeInForce

	next *Order
	prev *Order
}

// Next walks the level FIFO in time-priority order.
func (o *Order) Next() *Order {
	return o.next
}

// Trade is one atomic match between a buy and a sell order.
// Symbol is owned by the engine's symbol index and valid for its
// lifetime.
type Trade struct {
	SymbolID uint32
	Symbol   string
	Price    int64
	Qty      int64
	BuyID    int64
	SellID   int64
}

// BookStats accumulates per-book trade totals since construction.
type BookStats struct {
	TradeCount     uint64
	TradedQty      int64
	LastTradePrice int64
	HasLastTrade   bool
}
