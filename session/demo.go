package session

import (
	"fmt"
	"io"

	"kestrel/domain/book"
	"kestrel/engine"
	"kestrel/protocol"
)

// Demo runs the scripted walkthrough: a basic cross with cancel, an
// IOC remainder drop, a FOK reject-then-accept, a replace that loses
// priority, and a short async round trip.
func Demo(out io.Writer) {
	eng := engine.New(func(t book.Trade) {
		fmt.Fprintf(out, "TRADE symbol=%s px=%d qty=%d buy=%d sell=%d\n",
			t.Symbol, t.Price, t.Qty, t.BuyID, t.SellID)
	})

	// basic cross on FOO
	eng.Process(engine.Event{Type: engine.EventNewLimit, Symbol: "FOO", Side: book.Sell, Price: 100, Qty: 50, TIF: book.GFD, UserID: 1})
	eng.Process(engine.Event{Type: engine.EventNewLimit, Symbol: "FOO", Side: book.Sell, Price: 100, Qty: 60, TIF: book.GFD, UserID: 1})
	eng.Process(engine.Event{Type: engine.EventNewLimit, Symbol: "FOO", Side: book.Buy, Price: 100, Qty: 80, TIF: book.GFD, UserID: 1})

	fmt.Fprintln(out, protocol.TopOfBookLine("FOO", eng.TopOfBookByName("FOO")))
	if b := eng.FindBook("FOO"); b != nil {
		b.PrintBook(out, 5)
	}

	// cancel the second ask (id 2 in this script)
	eng.Process(engine.Event{Type: engine.EventCancel, Symbol: "FOO", ID: 2})
	fmt.Fprintln(out, "after cancel:")
	fmt.Fprintln(out, protocol.TopOfBookLine("FOO", eng.TopOfBookByName("FOO")))
	if b := eng.FindBook("FOO"); b != nil {
		b.PrintBook(out, 5)
	}

	// IOC: trades what it can, drops the remainder
	fmt.Fprintln(out, "\n--- IOC test (BAR) ---")
	barID := eng.ResolveSymbol("BAR")
	eng.NewLimit(barID, 1, book.Sell, 100, 50, book.GFD)
	eng.NewLimit(barID, 1, book.Buy, 100, 80, book.IOC)
	fmt.Fprintln(out, protocol.TopOfBookLine("BAR", eng.TopOfBook(barID)))

	// FOK: reject leaves the book untouched, then a feasible one fills
	fmt.Fprintln(out, "\n--- FOK test (BAZ) ---")
	bazID := eng.ResolveSymbol("BAZ")
	eng.NewLimit(bazID, 1, book.Sell, 100, 50, book.GFD)
	eng.NewLimit(bazID, 1, book.Buy, 100, 80, book.FOK)
	fmt.Fprintf(out, "after FOK(80) %s\n", protocol.TopOfBookLine("BAZ", eng.TopOfBook(bazID)))
	eng.NewLimit(bazID, 1, book.Buy, 100, 40, book.FOK)
	fmt.Fprintf(out, "after FOK(40) %s\n", protocol.TopOfBookLine("BAZ", eng.TopOfBook(bazID)))

	// replace: new id, new price, no time priority
	fmt.Fprintln(out, "\n--- Replace test (QUX) ---")
	quxID := eng.ResolveSymbol("QUX")
	id1 := eng.NewLimit(quxID, 1, book.Sell, 100, 50, book.GFD)
	eng.Replace(quxID, id1, book.Sell, 102, 30, book.GFD)
	eng.NewLimit(quxID, 1, book.Buy, 101, 100, book.GFD)
	fmt.Fprintln(out, protocol.TopOfBookLine("QUX", eng.TopOfBook(quxID)))

	if stats, ok := eng.StatsByName("FOO"); ok {
		fmt.Fprintf(out, "\nFOO trades=%d volume=%d", stats.TradeCount, stats.TradedQty)
		if stats.HasLastTrade {
			fmt.Fprintf(out, " last_px=%d", stats.LastTradePrice)
		}
		fmt.Fprintln(out)
	}

	// async round trip: submit, drain via Stop, then read
	fmt.Fprintln(out, "\n--- Async engine demo (ASY) ---")
	async := engine.NewAsync(func(t book.Trade) {
		fmt.Fprintf(out, "ASY TRADE symbol=%s px=%d qty=%d buy=%d sell=%d\n",
			t.Symbol, t.Price, t.Qty, t.BuyID, t.SellID)
	}, 1<<10)
	async.Submit(engine.Event{Type: engine.EventNewLimit, Symbol: "ASY", Side: book.Sell, Price: 100, Qty: 50, TIF: book.GFD, UserID: 1})
	async.Submit(engine.Event{Type: engine.EventNewLimit, Symbol: "ASY", Side: book.Buy, Price: 100, Qty: 50, TIF: book.GFD, UserID: 1})
	async.Stop()
	fmt.Fprintln(out, protocol.TopOfBookLine("ASY", async.Engine().TopOfBookByName("ASY")))
}
