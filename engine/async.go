package engine

import (
	"runtime"
	"sync/atomic"

	"kestrel/infra/spsc"
)

// DefaultQueueCapacity is the default SPSC queue size (events).
const DefaultQueueCapacity = 1 << 20

// AsyncEngine wraps an Engine behind a bounded SPSC queue drained by
// exactly one worker goroutine. Submit is single-producer: calls
// must come from one goroutine at a time.
//
// Known limitation: the producer never learns the order ids the book
// assigns; only the worker sees them. There is no ack channel.
type AsyncEngine struct {
	engine  *Engine
	queue   *spsc.Ring[InternalEvent]
	running atomic.Bool
	done    chan struct{}
}

// NewAsync starts the worker. capacity must be a power of two;
// 0 selects DefaultQueueCapacity.
func NewAsync(cb TradeCallback, capacity uint64, opts ...Option) *AsyncEngine {
	if capacity == 0 {
		capacity = DefaultQueueCapacity
	}
	a := &AsyncEngine{
		engine: New(cb, opts...),
		queue:  spsc.NewRing[InternalEvent](capacity),
		done:   make(chan struct{}),
	}
	a.running.Store(true)
	go a.run()
	return a
}

// Submit resolves the symbol on the producer side and enqueues the
// event, spinning with a yield while the queue is full. Events are
// never dropped.
func (a *AsyncEngine) Submit(ev Event) {
	a.SubmitInternal(InternalEvent{
		Symbol: a.engine.ResolveSymbol(ev.Symbol),
		ID:     ev.ID,
		Price:  ev.Price,
		Qty:    ev.Qty,
		UserID: ev.UserID,
		Type:   ev.Type,
		Side:   ev.Side,
		TIF:    ev.TIF,
	})
}

// SubmitInternal is the pre-resolved fast path: no string handling.
func (a *AsyncEngine) SubmitInternal(ev InternalEvent) {
	for !a.queue.Enqueue(ev) {
		runtime.Gosched()
	}
}

// Stop flips running off, pushes a single Stop sentinel so the
// worker wakes, and joins it. All previously submitted events are
// processed first. Idempotent: a second call is a no-op.
func (a *AsyncEngine) Stop() {
	if !a.running.CompareAndSwap(true, false) {
		return
	}
	for !a.queue.Enqueue(InternalEvent{Type: EventStop}) {
		runtime.Gosched()
	}
	<-a.done
}

// Engine exposes the wrapped engine for queries. Reading book state
// is only safe once Stop has returned, or between submissions when
// the queue is known to be drained.
func (a *AsyncEngine) Engine() *Engine {
	return a.engine
}

func (a *AsyncEngine) run() {
	defer close(a.done)
	for {
		ev, ok := a.queue.Dequeue()
		if ok {
			if ev.Type == EventStop {
				return
			}
			a.engine.ProcessInternal(ev)
			continue
		}
		if !a.running.Load() {
			return
		}
		runtime.Gosched()
	}
}
