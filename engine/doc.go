// Package engine routes order events to per-symbol books. It owns
// the symbol index, the dense book table, the engine-wide trade
// fan-out, and the optional user-position tracking.
//
// The synchronous Engine is single-writer. AsyncEngine offloads
// matching to a dedicated worker goroutine fed by a lock-free SPSC
// queue; the submitting goroutine resolves symbols, the worker does
// everything else.
package engine
