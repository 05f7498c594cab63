package book

import (
	"fmt"
	"io"
	"math"

	"kestrel/infra/memory"
)

// TradeFn receives each emitted trade synchronously, inside the
// matching routine. It must not reenter the same book.
type TradeFn func(Trade)

// orderRef locates a resting order: its side, its price level, and
// the node itself for O(1) unlink.
type orderRef struct {
	side  Side
	price int64
	node  *Order
}

// OrderBook holds the bids and asks for one symbol and performs
// price-time priority matching. It is single-writer: all mutation
// must come from one logical thread.
type OrderBook struct {
	symbolID uint32
	symbol   string
	onTrade  TradeFn

	bids *ladder
	asks *ladder

	index  map[int64]orderRef
	pool   *memory.Pool[Order]
	nextID int64
	stats  BookStats
}

// New creates an empty book. The symbol string is borrowed from the
// engine's symbol index. A nil pool allocates a private one.
func New(symbolID uint32, symbol string, pool *memory.Pool[Order], onTrade TradeFn) *OrderBook {
	if pool == nil {
		pool = memory.NewPool(func() *Order { return &Order{} })
	}
	return &OrderBook{
		symbolID: symbolID,
		symbol:   symbol,
		onTrade:  onTrade,
		bids:     newLadder(false),
		asks:     newLadder(true),
		index:    make(map[int64]orderRef),
		pool:     pool,
		nextID:   1,
	}
}

// AddLimit submits a new limit order and returns its id. FOK orders
// that cannot fill in full consume an id but emit no trades and do
// not rest. IOC residuals are dropped. Quantity is not validated
// here; the protocol layer filters external input.
func (b *OrderBook) AddLimit(side Side, price, qty int64, tif TimeInForce) int64 {
	o := Order{ID: b.nextID, Price: price, Qty: qty, Side: side, Type: Limit, TIF: tif}
	b.nextID++

	if tif == FOK && !b.canFullyMatch(side, price, qty) {
		return o.ID
	}

	b.match(&o)

	if o.Qty > 0 && tif == GFD {
		b.rest(&o)
	}
	return o.ID
}

// AddMarket submits a market order: an aggressive IOC limit at the
// most extreme price. It never rests; residual quantity after the
// opposite side is exhausted is dropped.
func (b *OrderBook) AddMarket(side Side, qty int64) int64 {
	px := int64(math.MaxInt64)
	if side == Sell {
		px = math.MinInt64
	}
	o := Order{ID: b.nextID, Price: px, Qty: qty, Side: side, Type: Market, TIF: IOC}
	b.nextID++
	b.match(&o)
	return o.ID
}

// Cancel removes a resting order. It returns false for unknown ids
// and for stale index entries whose level has disappeared (the stale
// entry is cleaned either way).
func (b *OrderBook) Cancel(id int64) bool {
	ref, ok := b.index[id]
	if !ok {
		return false
	}

	side := b.bids
	if ref.side == Sell {
		side = b.asks
	}
	lvl := side.find(ref.price)
	if lvl == nil {
		delete(b.index, id)
		return false
	}

	lvl.Unlink(ref.node)
	delete(b.index, id)
	b.pool.Put(ref.node)
	if lvl.Empty() {
		side.remove(ref.price)
	}
	return true
}

// Replace is cancel + new: the old id is canceled (result ignored)
// and a fresh limit order is submitted. The new order gets a new id
// and loses time priority, even on a pure quantity reduction.
func (b *OrderBook) Replace(oldID int64, side Side, price, qty int64, tif TimeInForce) int64 {
	b.Cancel(oldID)
	return b.AddLimit(side, price, qty, tif)
}

// ---- matching ----

func (b *OrderBook) match(o *Order) {
	if o.Side == Buy {
		b.matchBuy(o)
	} else {
		b.matchSell(o)
	}
}

func (b *OrderBook) matchBuy(buy *Order) {
	for buy.Qty > 0 && !b.asks.empty() {
		lvl := b.asks.best() // lowest ask
		if buy.Type == Limit && buy.Price < lvl.Price {
			return
		}

		for o := lvl.Head(); o != nil && buy.Qty > 0; {
			next := o.Next()
			traded := min(buy.Qty, o.Qty)
			buy.Qty -= traded
			o.Qty -= traded
			lvl.TotalQty -= traded

			b.emit(lvl.Price, traded, buy.ID, o.ID)

			if o.Qty == 0 {
				delete(b.index, o.ID)
				lvl.Unlink(o)
				b.pool.Put(o)
			}
			o = next
		}
		if lvl.Empty() {
			b.asks.popBest()
		}
	}
}

func (b *OrderBook) matchSell(sell *Order) {
	for sell.Qty > 0 && !b.bids.empty() {
		lvl := b.bids.best() // highest bid
		if sell.Type == Limit && sell.Price > lvl.Price {
			return
		}

		for o := lvl.Head(); o != nil && sell.Qty > 0; {
			next := o.Next()
			traded := min(sell.Qty, o.Qty)
			sell.Qty -= traded
			o.Qty -= traded
			lvl.TotalQty -= traded

			b.emit(lvl.Price, traded, o.ID, sell.ID)

			if o.Qty == 0 {
				delete(b.index, o.ID)
				lvl.Unlink(o)
				b.pool.Put(o)
			}
			o = next
		}
		if lvl.Empty() {
			b.bids.popBest()
		}
	}
}

// emit updates stats, then invokes the callback. Trade price is the
// resting order's price.
func (b *OrderBook) emit(price, qty, buyID, sellID int64) {
	b.stats.TradeCount++
	b.stats.TradedQty += qty
	b.stats.LastTradePrice = price
	b.stats.HasLastTrade = true
	if b.onTrade != nil {
		b.onTrade(Trade{
			SymbolID: b.symbolID,
			Symbol:   b.symbol,
			Price:    price,
			Qty:      qty,
			BuyID:    buyID,
			SellID:   sellID,
		})
	}
}

func (b *OrderBook) rest(o *Order) {
	side := b.bids
	if o.Side == Sell {
		side = b.asks
	}
	lvl := side.getOrCreate(o.Price)

	n := b.pool.Get()
	*n = *o
	lvl.Enqueue(n)
	b.index[n.ID] = orderRef{side: o.Side, price: o.Price, node: n}
}

// canFullyMatch reports whether qty can be filled in full against the
// opposite side at prices that cross. It does not mutate state.
func (b *OrderBook) canFullyMatch(side Side, price, qty int64) bool {
	if qty <= 0 {
		return true
	}
	need := qty
	opp := b.asks
	if side == Sell {
		opp = b.bids
	}
	opp.walkBestFirst(func(lvl *PriceLevel) bool {
		if side == Buy && lvl.Price > price {
			return false
		}
		if side == Sell && lvl.Price < price {
			return false
		}
		need -= lvl.TotalQty
		return need > 0
	})
	return need <= 0
}

// ---- queries ----

func (b *OrderBook) BestBid() (int64, bool) {
	lvl := b.bids.best()
	if lvl == nil {
		return 0, false
	}
	return lvl.Price, true
}

func (b *OrderBook) BestBidSize() (int64, bool) {
	lvl := b.bids.best()
	if lvl == nil {
		return 0, false
	}
	return lvl.TotalQty, true
}

func (b *OrderBook) BestAsk() (int64, bool) {
	lvl := b.asks.best()
	if lvl == nil {
		return 0, false
	}
	return lvl.Price, true
}

func (b *OrderBook) BestAskSize() (int64, bool) {
	lvl := b.asks.best()
	if lvl == nil {
		return 0, false
	}
	return lvl.TotalQty, true
}

// MidPrice is the truncated mean of best bid and best ask; it is
// undefined while either side is empty.
func (b *OrderBook) MidPrice() (int64, bool) {
	bb, okB := b.BestBid()
	ba, okA := b.BestAsk()
	if !okB || !okA {
		return 0, false
	}
	return (bb + ba) / 2, true
}

func (b *OrderBook) Stats() BookStats {
	return b.stats
}

func (b *OrderBook) SymbolID() uint32 {
	return b.symbolID
}

func (b *OrderBook) Symbol() string {
	return b.symbol
}

// BidLevels / AskLevels report the number of populated price levels.
func (b *OrderBook) BidLevels() int { return b.bids.size() }
func (b *OrderBook) AskLevels() int { return b.asks.size() }

// PrintBook writes the top depth levels of each side, best first.
func (b *OrderBook) PrintBook(w io.Writer, depth int) {
	fmt.Fprintf(w, "OrderBook(%s)\n", b.symbol)

	fmt.Fprintf(w, "\tAsks:\n")
	b.printSide(w, b.asks, depth)

	fmt.Fprintf(w, "\tBids:\n")
	b.printSide(w, b.bids, depth)
}

func (b *OrderBook) printSide(w io.Writer, side *ladder, depth int) {
	shown := 0
	side.walkBestFirst(func(lvl *PriceLevel) bool {
		if shown >= depth {
			return false
		}
		fmt.Fprintf(w, "\t\tpx=%d total_qty=%d (orders=%d)\n",
			lvl.Price, lvl.TotalQty, lvl.OrderCount)
		shown++
		return true
	})
	if shown == 0 {
		fmt.Fprintf(w, "\t\t<empty>\n")
	}
}
