package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kestrel/domain/book"
	"kestrel/engine"
)

func TestParseLimit(t *testing.T) {
	ev, err := ParseLine("L,AAPL,B,100,50,GFD")
	require.NoError(t, err)
	assert.Equal(t, engine.Event{
		Type: engine.EventNewLimit, Symbol: "AAPL", Side: book.Buy,
		Price: 100, Qty: 50, TIF: book.GFD, UserID: 1,
	}, ev)
}

func TestParseLimitWithUser(t *testing.T) {
	ev, err := ParseLine("L,7,AAPL,S,101,25,IOC")
	require.NoError(t, err)
	assert.Equal(t, int64(7), ev.UserID)
	assert.Equal(t, book.Sell, ev.Side)
	assert.Equal(t, book.IOC, ev.TIF)
}

func TestParseMarket(t *testing.T) {
	ev, err := ParseLine("M,AAPL,S,30")
	require.NoError(t, err)
	assert.Equal(t, engine.EventNewMarket, ev.Type)
	assert.Equal(t, book.Sell, ev.Side)
	assert.Equal(t, int64(30), ev.Qty)
	assert.Equal(t, int64(1), ev.UserID)

	ev, err = ParseLine("M,3,AAPL,B,10")
	require.NoError(t, err)
	assert.Equal(t, int64(3), ev.UserID)
	assert.Equal(t, "AAPL", ev.Symbol)
}

func TestParseCancel(t *testing.T) {
	ev, err := ParseLine("C,AAPL,42")
	require.NoError(t, err)
	assert.Equal(t, engine.EventCancel, ev.Type)
	assert.Equal(t, int64(42), ev.ID)
}

func TestParseReplace(t *testing.T) {
	ev, err := ParseLine("R,AAPL,42,B,99,10,GFD")
	require.NoError(t, err)
	assert.Equal(t, engine.EventReplace, ev.Type)
	assert.Equal(t, int64(42), ev.ID)
	assert.Equal(t, int64(99), ev.Price)
	assert.Equal(t, int64(10), ev.Qty)
}

func TestParseTrimsWhitespace(t *testing.T) {
	ev, err := ParseLine("  L , AAPL , B , 100 , 50 , GFD  ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", ev.Symbol)
	assert.Equal(t, int64(100), ev.Price)
}

func TestParseSkipsBlankAndComments(t *testing.T) {
	for _, line := range []string{"", "   ", "# a comment", "  # indented"} {
		_, err := ParseLine(line)
		assert.ErrorIs(t, err, ErrSkip, "line %q", line)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	bad := []string{
		"X,AAPL,B,100,50,GFD", // unknown type
		"L,AAPL,B,100,50",     // missing tif
		"L,AAPL,Q,100,50,GFD", // bad side
		"L,AAPL,B,abc,50,GFD", // bad price
		"L,AAPL,B,100,x,GFD",  // bad qty
		"L,AAPL,B,100,50,XXX", // bad tif
		"L,u,AAPL,B,1,1,GFD",  // bad user
		"M,AAPL,S",            // too short
		"M,AAPL,S,ten",        // bad qty
		"C,AAPL",              // missing id
		"C,AAPL,abc",          // bad id
		"R,AAPL,1,B,99,10",    // missing tif
		"R,AAPL,x,B,99,10,GFD",
	}
	for _, line := range bad {
		_, err := ParseLine(line)
		require.Error(t, err, "line %q", line)
		assert.NotErrorIs(t, err, ErrSkip, "line %q", line)
	}
}

func TestTradeLine(t *testing.T) {
	line := TradeLine(book.Trade{Symbol: "AAPL", Price: 100, Qty: 5, BuyID: 3, SellID: 1})
	assert.Equal(t, "T,AAPL,100,5,3,1", line)
}

func TestTopOfBookLine(t *testing.T) {
	full := TopOfBookLine("AAPL", engine.TopOfBook{
		BestBid: 99, BidSize: 10, HasBid: true,
		BestAsk: 101, AskSize: 5, HasAsk: true,
		Mid: 100, HasMid: true,
	})
	assert.Equal(t, "AAPL bid=99 x 10   ask=101 x 5   mid=100", full)

	oneSided := TopOfBookLine("AAPL", engine.TopOfBook{BestBid: 99, BidSize: 10, HasBid: true})
	assert.Equal(t, "AAPL bid=99 x 10   ask=none x 0", oneSided)

	empty := TopOfBookLine("AAPL", engine.TopOfBook{})
	assert.Equal(t, "AAPL bid=none x 0   ask=none x 0", empty)
}
