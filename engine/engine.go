package engine

import (
	"kestrel/domain/book"
	"kestrel/infra/memory"
)

// TradeCallback is the user-facing trade fan-out. It is invoked
// synchronously from inside matching and must not submit further
// events into the same book.
type TradeCallback func(book.Trade)

// TopOfBook is a point-in-time view of the best levels of one book.
type TopOfBook struct {
	BestBid int64
	BidSize int64
	HasBid  bool

	BestAsk int64
	AskSize int64
	HasAsk  bool

	Mid    int64
	HasMid bool
}

// Engine owns all books, indexed densely by symbol id, and routes
// events to them. Books capture the engine's trade hook at creation,
// so an Engine is always used behind the pointer New returns and is
// never copied.
type Engine struct {
	symbols  *SymbolIndex
	books    []*book.OrderBook
	pool     *memory.Pool[book.Order]
	callback TradeCallback
	users    tracker
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithUserTracking enables per-user position accounting and the
// pre-trade risk check. Off by default; the default noop tracker has
// no observable cost on the hot path.
func WithUserTracking(maxAbsPosition int64) Option {
	return func(e *Engine) {
		e.users = newPositionTracker(maxAbsPosition)
	}
}

func New(cb TradeCallback, opts ...Option) *Engine {
	e := &Engine{
		symbols:  NewSymbolIndex(),
		pool:     memory.NewPool(func() *book.Order { return &book.Order{} }),
		callback: cb,
		users:    noopTracker{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ResolveSymbol maps a name to its id, creating it on first sight.
func (e *Engine) ResolveSymbol(name string) uint32 {
	return e.symbols.GetOrCreate(name)
}

func (e *Engine) SymbolName(id uint32) string {
	return e.symbols.Name(id)
}

func (e *Engine) Symbols() *SymbolIndex {
	return e.symbols
}

// Process resolves the symbol string and dispatches the event.
func (e *Engine) Process(ev Event) {
	e.ProcessInternal(InternalEvent{
		Symbol: e.symbols.GetOrCreate(ev.Symbol),
		ID:     ev.ID,
		Price:  ev.Price,
		Qty:    ev.Qty,
		UserID: ev.UserID,
		Type:   ev.Type,
		Side:   ev.Side,
		TIF:    ev.TIF,
	})
}

// ProcessInternal dispatches a pre-resolved event. This is the hot
// path; it allocates nothing itself.
func (e *Engine) ProcessInternal(ev InternalEvent) {
	switch ev.Type {
	case EventNewLimit:
		e.NewLimit(ev.Symbol, ev.UserID, ev.Side, ev.Price, ev.Qty, ev.TIF)
	case EventNewMarket:
		e.NewMarket(ev.Symbol, ev.UserID, ev.Side, ev.Qty)
	case EventCancel:
		e.Cancel(ev.Symbol, ev.ID)
	case EventReplace:
		e.Replace(ev.Symbol, ev.ID, ev.Side, ev.Price, ev.Qty, ev.TIF)
	case EventStop:
		// handled by the async worker
	}
}

// NewLimit submits a limit order and returns the assigned id, or 0
// on a risk reject (user tracking only).
func (e *Engine) NewLimit(symbol uint32, user int64, side book.Side, price, qty int64, tif book.TimeInForce) int64 {
	if !e.users.checkRisk(user, symbol, side, qty) {
		return 0
	}
	b := e.getOrCreateBook(symbol)
	e.users.beginOrder(user, side)
	id := b.AddLimit(side, price, qty, tif)
	e.users.endOrder(id, user)
	return id
}

// NewMarket submits a market order and returns the assigned id, or 0
// on a risk reject.
func (e *Engine) NewMarket(symbol uint32, user int64, side book.Side, qty int64) int64 {
	if !e.users.checkRisk(user, symbol, side, qty) {
		return 0
	}
	b := e.getOrCreateBook(symbol)
	e.users.beginOrder(user, side)
	id := b.AddMarket(side, qty)
	e.users.endOrder(id, user)
	return id
}

func (e *Engine) Cancel(symbol uint32, id int64) bool {
	b := e.findBook(symbol)
	if b == nil {
		return false
	}
	ok := b.Cancel(id)
	if ok {
		e.users.dropOwner(id)
	}
	return ok
}

// CancelByName cancels against an existing symbol; an unknown symbol
// is not created and reports false.
func (e *Engine) CancelByName(name string, id int64) bool {
	sid, ok := e.symbols.Find(name)
	if !ok {
		return false
	}
	return e.Cancel(sid, id)
}

// Replace is cancel + new: the cancel result is ignored, the new
// order receives a fresh id and loses time priority. When user
// tracking is on, the new order is attributed to the old order's
// owner.
func (e *Engine) Replace(symbol uint32, oldID int64, side book.Side, price, qty int64, tif book.TimeInForce) int64 {
	user := e.users.ownerOf(oldID, 1)
	e.Cancel(symbol, oldID)
	return e.NewLimit(symbol, user, side, price, qty, tif)
}

// ---- queries ----

func (e *Engine) TopOfBook(symbol uint32) TopOfBook {
	var tob TopOfBook
	b := e.findBook(symbol)
	if b == nil {
		return tob
	}
	tob.BestBid, tob.HasBid = b.BestBid()
	tob.BidSize, _ = b.BestBidSize()
	tob.BestAsk, tob.HasAsk = b.BestAsk()
	tob.AskSize, _ = b.BestAskSize()
	tob.Mid, tob.HasMid = b.MidPrice()
	return tob
}

func (e *Engine) TopOfBookByName(name string) TopOfBook {
	sid, ok := e.symbols.Find(name)
	if !ok {
		return TopOfBook{}
	}
	return e.TopOfBook(sid)
}

func (e *Engine) Stats(symbol uint32) (book.BookStats, bool) {
	b := e.findBook(symbol)
	if b == nil {
		return book.BookStats{}, false
	}
	return b.Stats(), true
}

func (e *Engine) StatsByName(name string) (book.BookStats, bool) {
	sid, ok := e.symbols.Find(name)
	if !ok {
		return book.BookStats{}, false
	}
	return e.Stats(sid)
}

// FindBook returns the book for an existing symbol, or nil. Intended
// for read-only access such as depth dumps.
func (e *Engine) FindBook(name string) *book.OrderBook {
	sid, ok := e.symbols.Find(name)
	if !ok {
		return nil
	}
	return e.findBook(sid)
}

// UserPosition reports a user's position in a symbol. It is always
// absent unless user tracking was enabled at construction.
func (e *Engine) UserPosition(user int64, symbol string) (Position, bool) {
	sid, ok := e.symbols.Find(symbol)
	if !ok {
		return Position{}, false
	}
	return e.users.position(user, sid)
}

// ---- internals ----

func (e *Engine) findBook(symbol uint32) *book.OrderBook {
	if int(symbol) >= len(e.books) {
		return nil
	}
	return e.books[symbol]
}

func (e *Engine) getOrCreateBook(symbol uint32) *book.OrderBook {
	if int(symbol) >= len(e.books) {
		grown := make([]*book.OrderBook, symbol+1)
		copy(grown, e.books)
		e.books = grown
	}
	if e.books[symbol] == nil {
		e.books[symbol] = book.New(symbol, e.symbols.Name(symbol), e.pool, e.handleTrade)
	}
	return e.books[symbol]
}

// handleTrade is the single fan-out point: engine-level accounting
// first, then the user callback.
func (e *Engine) handleTrade(t book.Trade) {
	e.users.onTrade(t)
	if e.callback != nil {
		e.callback(t)
	}
}
