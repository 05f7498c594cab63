package engine

import "kestrel/domain/book"

// Position is a user's running state in one symbol: signed position
// (long positive) and cumulative traded volume.
type Position struct {
	Position     int64
	TradedVolume int64
}

// tracker is the user-accounting strategy. The noop implementation
// is selected by default; WithUserTracking swaps in the real one at
// construction time.
type tracker interface {
	checkRisk(user int64, symbol uint32, side book.Side, qty int64) bool
	beginOrder(user int64, side book.Side)
	endOrder(id, user int64)
	onTrade(t book.Trade)
	ownerOf(id, fallback int64) int64
	dropOwner(id int64)
	position(user int64, symbol uint32) (Position, bool)
}

type noopTracker struct{}

func (noopTracker) checkRisk(int64, uint32, book.Side, int64) bool { return true }
func (noopTracker) beginOrder(int64, book.Side)                    {}
func (noopTracker) endOrder(int64, int64)                          {}
func (noopTracker) onTrade(book.Trade)                             {}
func (noopTracker) ownerOf(_ int64, fallback int64) int64          { return fallback }
func (noopTracker) dropOwner(int64)                                {}
func (noopTracker) position(int64, uint32) (Position, bool)        { return Position{}, false }

// positionTracker maintains order ownership and per-user per-symbol
// positions, and enforces the absolute position limit.
type positionTracker struct {
	owner     map[int64]int64
	positions map[int64]map[uint32]*Position
	maxAbs    int64

	// hint for trades whose incoming order id has not been
	// recorded yet: the order currently being matched
	currentUser int64
	currentSide book.Side
	haveCurrent bool
}

func newPositionTracker(maxAbs int64) *positionTracker {
	return &positionTracker{
		owner:     make(map[int64]int64),
		positions: make(map[int64]map[uint32]*Position),
		maxAbs:    maxAbs,
	}
}

// checkRisk rejects an order whose hypothetical new absolute
// position would exceed the limit.
func (u *positionTracker) checkRisk(user int64, symbol uint32, side book.Side, qty int64) bool {
	var curr int64
	if bySym, ok := u.positions[user]; ok {
		if pos, ok := bySym[symbol]; ok {
			curr = pos.Position
		}
	}
	newPos := curr + qty
	if side == book.Sell {
		newPos = curr - qty
	}
	if newPos < 0 {
		newPos = -newPos
	}
	return newPos <= u.maxAbs
}

func (u *positionTracker) beginOrder(user int64, side book.Side) {
	u.currentUser = user
	u.currentSide = side
	u.haveCurrent = true
}

func (u *positionTracker) endOrder(id, user int64) {
	u.haveCurrent = false
	if id != 0 {
		u.owner[id] = user
	}
}

func (u *positionTracker) onTrade(t book.Trade) {
	if buyer, ok := u.owner[t.BuyID]; ok {
		u.apply(buyer, t.SymbolID, t.Qty)
	} else if u.haveCurrent && u.currentSide == book.Buy && t.BuyID != 0 {
		u.apply(u.currentUser, t.SymbolID, t.Qty)
	}

	if seller, ok := u.owner[t.SellID]; ok {
		u.apply(seller, t.SymbolID, -t.Qty)
	} else if u.haveCurrent && u.currentSide == book.Sell && t.SellID != 0 {
		u.apply(u.currentUser, t.SymbolID, -t.Qty)
	}
}

func (u *positionTracker) apply(user int64, symbol uint32, delta int64) {
	bySym := u.positions[user]
	if bySym == nil {
		bySym = make(map[uint32]*Position)
		u.positions[user] = bySym
	}
	pos := bySym[symbol]
	if pos == nil {
		pos = &Position{}
		bySym[symbol] = pos
	}
	pos.Position += delta
	if delta < 0 {
		pos.TradedVolume -= delta
	} else {
		pos.TradedVolume += delta
	}
}

func (u *positionTracker) ownerOf(id, fallback int64) int64 {
	if user, ok := u.owner[id]; ok {
		return user
	}
	return fallback
}

func (u *positionTracker) dropOwner(id int64) {
	delete(u.owner, id)
}

func (u *positionTracker) position(user int64, symbol uint32) (Position, bool) {
	bySym, ok := u.positions[user]
	if !ok {
		return Position{}, false
	}
	pos, ok := bySym[symbol]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}
