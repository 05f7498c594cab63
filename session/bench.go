package session

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"kestrel/domain/book"
	"kestrel/engine"
	"kestrel/protocol"
)

const benchSeed = 12345

// benchStream replays the same randomized mix for both benchmark
// paths: ~10% cancels of random live orders, the rest new GFD limits
// around a 95..105 price band.
type benchStream struct {
	rng  *rand.Rand
	live []int64
}

func newBenchStream(n int) *benchStream {
	return &benchStream{
		rng:  rand.New(rand.NewSource(benchSeed)),
		live: make([]int64, 0, n),
	}
}

// next returns either a cancel of a random live order or a fresh
// limit event. For new limits the caller reports the assigned id via
// track.
func (s *benchStream) next() (ev engine.Event, isCancel bool) {
	if len(s.live) > 0 && s.rng.Intn(10) == 0 {
		idx := s.rng.Intn(len(s.live))
		id := s.live[idx]
		s.live[idx] = s.live[len(s.live)-1]
		s.live = s.live[:len(s.live)-1]
		return engine.Event{Type: engine.EventCancel, Symbol: "FOO", ID: id, UserID: 1}, true
	}
	side := book.Buy
	if s.rng.Intn(2) == 1 {
		side = book.Sell
	}
	return engine.Event{
		Type:   engine.EventNewLimit,
		Symbol: "FOO",
		Side:   side,
		Price:  int64(95 + s.rng.Intn(11)),
		Qty:    int64(1 + s.rng.Intn(100)),
		TIF:    book.GFD,
		UserID: 1,
	}, false
}

func (s *benchStream) track(id int64) {
	s.live = append(s.live, id)
}

// Bench pushes n randomized events through a synchronous engine and
// reports throughput, final top-of-book, and totals.
func Bench(out io.Writer, n int) {
	var tradeCount uint64
	var tradedQty int64
	eng := engine.New(func(t book.Trade) {
		tradeCount++
		tradedQty += t.Qty
	})

	stream := newBenchStream(n)
	fooID := eng.ResolveSymbol("FOO")

	start := time.Now()
	for i := 0; i < n; i++ {
		ev, isCancel := stream.next()
		if isCancel {
			eng.Cancel(fooID, ev.ID)
			continue
		}
		id := eng.NewLimit(fooID, ev.UserID, ev.Side, ev.Price, ev.Qty, ev.TIF)
		stream.track(id)
	}
	elapsed := time.Since(start)

	printThroughput(out, n, elapsed)
	fmt.Fprintln(out, protocol.TopOfBookLine("FOO", eng.TopOfBook(fooID)))
	fmt.Fprintf(out, "Trades executed: %d, total traded qty = %d\n", tradeCount, tradedQty)
}

// BenchAsync pushes the same mix through the SPSC queue and worker.
// The book hands out ids densely in add order, so the producer can
// mirror the id sequence with a counter and cancel real orders.
func BenchAsync(out io.Writer, n int, queueCapacity uint64) {
	var tradeCount uint64
	var tradedQty int64
	async := engine.NewAsync(func(t book.Trade) {
		tradeCount++
		tradedQty += t.Qty
	}, queueCapacity)

	stream := newBenchStream(n)
	fooID := async.Engine().ResolveSymbol("FOO")

	start := time.Now()
	seq := int64(0)
	for i := 0; i < n; i++ {
		ev, isCancel := stream.next()
		ie := engine.InternalEvent{
			Symbol: fooID,
			ID:     ev.ID,
			Price:  ev.Price,
			Qty:    ev.Qty,
			UserID: ev.UserID,
			Type:   ev.Type,
			Side:   ev.Side,
			TIF:    ev.TIF,
		}
		async.SubmitInternal(ie)
		if !isCancel {
			seq++
			stream.track(seq)
		}
	}
	async.Stop()
	elapsed := time.Since(start)

	fmt.Fprintln(out, "--- Async benchmark ---")
	printThroughput(out, n, elapsed)
	if stats, ok := async.Engine().Stats(fooID); ok {
		fmt.Fprintf(out, "FOO trades=%d volume=%d", stats.TradeCount, stats.TradedQty)
		if stats.HasLastTrade {
			fmt.Fprintf(out, " last_px=%d", stats.LastTradePrice)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Trades executed: %d, total traded qty = %d\n", tradeCount, tradedQty)
}

func printThroughput(out io.Writer, n int, elapsed time.Duration) {
	seconds := elapsed.Seconds()
	fmt.Fprintf(out, "Processed %d events in %.3f s, ~%.2f M events/s\n",
		n, seconds, float64(n)/seconds/1e6)
}
