package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kestrel/domain/book"
	"kestrel/engine"
)

func limit(symbol string, side book.Side, px, qty int64, tif book.TimeInForce) engine.Event {
	return engine.Event{
		Type: engine.EventNewLimit, Symbol: symbol, Side: side,
		Price: px, Qty: qty, TIF: tif, UserID: 1,
	}
}

func TestRoutesBySymbol(t *testing.T) {
	var trades []book.Trade
	eng := engine.New(func(tr book.Trade) { trades = append(trades, tr) })

	eng.Process(limit("FOO", book.Sell, 100, 10, book.GFD))
	eng.Process(limit("BAR", book.Buy, 100, 10, book.GFD))

	assert.Empty(t, trades, "books must not cross symbols")

	eng.Process(limit("FOO", book.Buy, 100, 10, book.GFD))
	require.Len(t, trades, 1)
	assert.Equal(t, "FOO", trades[0].Symbol)

	bar := eng.TopOfBookByName("BAR")
	assert.True(t, bar.HasBid)
	assert.Equal(t, int64(100), bar.BestBid)
}

func TestPerBookOrderIDs(t *testing.T) {
	eng := engine.New(nil)
	foo := eng.ResolveSymbol("FOO")
	bar := eng.ResolveSymbol("BAR")

	assert.Equal(t, int64(1), eng.NewLimit(foo, 1, book.Buy, 100, 10, book.GFD))
	assert.Equal(t, int64(2), eng.NewLimit(foo, 1, book.Buy, 99, 10, book.GFD))
	assert.Equal(t, int64(1), eng.NewLimit(bar, 1, book.Buy, 100, 10, book.GFD),
		"id sequences are per symbol")
}

func TestCancelByName(t *testing.T) {
	eng := engine.New(nil)
	foo := eng.ResolveSymbol("FOO")
	id := eng.NewLimit(foo, 1, book.Buy, 100, 10, book.GFD)

	before := eng.Symbols().Size()
	assert.False(t, eng.CancelByName("NOPE", id), "unknown symbol")
	assert.Equal(t, before, eng.Symbols().Size(), "cancel must not create symbols")

	assert.True(t, eng.CancelByName("FOO", id))
	assert.False(t, eng.CancelByName("FOO", id))
}

func TestReplaceThroughEngine(t *testing.T) {
	var trades []book.Trade
	eng := engine.New(func(tr book.Trade) { trades = append(trades, tr) })
	foo := eng.ResolveSymbol("FOO")

	old := eng.NewLimit(foo, 1, book.Sell, 100, 50, book.GFD)
	newID := eng.Replace(foo, old, book.Sell, 102, 30, book.GFD)
	assert.Greater(t, newID, old)

	eng.NewLimit(foo, 1, book.Buy, 101, 100, book.GFD)
	assert.Empty(t, trades)

	tob := eng.TopOfBook(foo)
	assert.Equal(t, int64(101), tob.BestBid)
	assert.Equal(t, int64(102), tob.BestAsk)
}

func TestQueriesOnUnknownSymbol(t *testing.T) {
	eng := engine.New(nil)

	assert.Equal(t, engine.TopOfBook{}, eng.TopOfBookByName("NOPE"))
	_, ok := eng.StatsByName("NOPE")
	assert.False(t, ok)
	assert.Nil(t, eng.FindBook("NOPE"))
	_, ok = eng.UserPosition(1, "NOPE")
	assert.False(t, ok)
}

func TestStatsByName(t *testing.T) {
	eng := engine.New(nil)
	eng.Process(limit("FOO", book.Sell, 100, 10, book.GFD))
	eng.Process(limit("FOO", book.Buy, 100, 10, book.GFD))

	stats, ok := eng.StatsByName("FOO")
	require.True(t, ok)
	assert.Equal(t, uint64(1), stats.TradeCount)
	assert.Equal(t, int64(10), stats.TradedQty)
}

func TestMarketThroughProcess(t *testing.T) {
	var trades []book.Trade
	eng := engine.New(func(tr book.Trade) { trades = append(trades, tr) })

	eng.Process(limit("FOO", book.Sell, 100, 30, book.GFD))
	eng.Process(engine.Event{Type: engine.EventNewMarket, Symbol: "FOO", Side: book.Buy, Qty: 50, UserID: 1})

	require.Len(t, trades, 1)
	assert.Equal(t, int64(30), trades[0].Qty)
	tob := eng.TopOfBookByName("FOO")
	assert.False(t, tob.HasAsk)
	assert.False(t, tob.HasBid)
}

func TestTIFThroughProcess(t *testing.T) {
	var trades []book.Trade
	eng := engine.New(func(tr book.Trade) { trades = append(trades, tr) })

	eng.Process(limit("FOO", book.Sell, 100, 50, book.GFD))
	eng.Process(limit("FOO", book.Buy, 100, 80, book.FOK))
	assert.Empty(t, trades, "infeasible FOK must not trade")

	eng.Process(limit("FOO", book.Buy, 100, 80, book.IOC))
	require.Len(t, trades, 1)
	assert.Equal(t, int64(50), trades[0].Qty)
	tob := eng.TopOfBookByName("FOO")
	assert.False(t, tob.HasBid, "IOC residual must not rest")
	assert.False(t, tob.HasAsk)
}

// ---- user tracking ----

func TestUserTrackingOffByDefault(t *testing.T) {
	eng := engine.New(nil)
	foo := eng.ResolveSymbol("FOO")
	eng.NewLimit(foo, 1, book.Sell, 100, 10, book.GFD)
	eng.NewLimit(foo, 2, book.Buy, 100, 10, book.GFD)

	_, ok := eng.UserPosition(1, "FOO")
	assert.False(t, ok)
	_, ok = eng.UserPosition(2, "FOO")
	assert.False(t, ok)
}

func TestUserPositionsAfterCross(t *testing.T) {
	eng := engine.New(nil, engine.WithUserTracking(1000))
	foo := eng.ResolveSymbol("FOO")

	eng.NewLimit(foo, 1, book.Sell, 100, 50, book.GFD)
	eng.NewLimit(foo, 2, book.Buy, 100, 50, book.GFD)

	p1, ok := eng.UserPosition(1, "FOO")
	require.True(t, ok)
	assert.Equal(t, engine.Position{Position: -50, TradedVolume: 50}, p1)

	p2, ok := eng.UserPosition(2, "FOO")
	require.True(t, ok, "taker position must be attributed via the in-flight order")
	assert.Equal(t, engine.Position{Position: 50, TradedVolume: 50}, p2)
}

func TestRiskReject(t *testing.T) {
	eng := engine.New(nil, engine.WithUserTracking(100))
	foo := eng.ResolveSymbol("FOO")

	assert.Equal(t, int64(0), eng.NewLimit(foo, 1, book.Buy, 100, 150, book.GFD),
		"order breaching the limit is rejected with id 0")
	tob := eng.TopOfBook(foo)
	assert.False(t, tob.HasBid, "rejected order must not touch the book")

	assert.NotEqual(t, int64(0), eng.NewLimit(foo, 1, book.Buy, 100, 100, book.GFD))
	assert.Equal(t, int64(0), eng.NewMarket(foo, 2, book.Sell, 101),
		"market orders are risk checked too")
}

func TestRiskUsesCurrentPosition(t *testing.T) {
	eng := engine.New(nil, engine.WithUserTracking(100))
	foo := eng.ResolveSymbol("FOO")

	// user 1 gets long 80
	eng.NewLimit(foo, 2, book.Sell, 100, 80, book.GFD)
	eng.NewLimit(foo, 1, book.Buy, 100, 80, book.GFD)

	assert.Equal(t, int64(0), eng.NewLimit(foo, 1, book.Buy, 100, 30, book.GFD),
		"80+30 breaches the 100 limit")
	assert.NotEqual(t, int64(0), eng.NewLimit(foo, 1, book.Sell, 105, 150, book.GFD),
		"selling 150 from +80 lands at -70, inside the limit")
}

func TestReplaceKeepsOwner(t *testing.T) {
	var trades []book.Trade
	eng := engine.New(func(tr book.Trade) { trades = append(trades, tr) }, engine.WithUserTracking(1000))
	foo := eng.ResolveSymbol("FOO")

	old := eng.NewLimit(foo, 3, book.Sell, 100, 50, book.GFD)
	newID := eng.Replace(foo, old, book.Sell, 99, 50, book.GFD)
	require.NotEqual(t, int64(0), newID)

	eng.NewLimit(foo, 4, book.Buy, 99, 50, book.GFD)
	require.Len(t, trades, 1)

	p3, ok := eng.UserPosition(3, "FOO")
	require.True(t, ok, "the replacement stays attributed to the original owner")
	assert.Equal(t, int64(-50), p3.Position)
}

func TestPositionsArePerSymbol(t *testing.T) {
	eng := engine.New(nil, engine.WithUserTracking(1000))
	foo := eng.ResolveSymbol("FOO")
	bar := eng.ResolveSymbol("BAR")

	eng.NewLimit(foo, 2, book.Sell, 100, 10, book.GFD)
	eng.NewLimit(foo, 1, book.Buy, 100, 10, book.GFD)
	eng.NewLimit(bar, 2, book.Buy, 50, 5, book.GFD)
	eng.NewLimit(bar, 1, book.Sell, 50, 5, book.GFD)

	p1foo, _ := eng.UserPosition(1, "FOO")
	p1bar, _ := eng.UserPosition(1, "BAR")
	assert.Equal(t, int64(10), p1foo.Position)
	assert.Equal(t, int64(-5), p1bar.Position)
}
