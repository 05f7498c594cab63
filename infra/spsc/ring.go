// Package spsc provides a bounded lock-free single-producer /
// single-consumer ring buffer that hands events off by value.
package spsc

import "sync/atomic"

// Ring is a power-of-two SPSC ring. Exactly one goroutine may call
// Enqueue and exactly one may call Dequeue.
type Ring[T any] struct {
	head  uint64
	_pad1 [56]byte
	tail  uint64
	_pad2 [56]byte
	buf   []T
	mask  uint64
}

func NewRing[T any](size uint64) *Ring[T] {
	if size == 0 || size&(size-1) != 0 {
		panic("spsc: ring size must be a power of two")
	}
	return &Ring[T]{
		buf:  make([]T, size),
		mask: size - 1,
	}
}

// Enqueue publishes v; it returns false when the ring is full.
func (r *Ring[T]) Enqueue(v T) bool {
	h := atomic.LoadUint64(&r.head)
	t := atomic.LoadUint64(&r.tail)
	if h-t == uint64(len(r.buf)) {
		return false
	}
	r.buf[h&r.mask] = v
	atomic.StoreUint64(&r.head, h+1)
	return true
}

// Dequeue removes the oldest element; ok is false when the ring is
// momentarily empty.
func (r *Ring[T]) Dequeue() (v T, ok bool) {
	t := atomic.LoadUint64(&r.tail)
	h := atomic.LoadUint64(&r.head)
	if t == h {
		return v, false
	}
	var zero T
	v = r.buf[t&r.mask]
	r.buf[t&r.mask] = zero
	atomic.StoreUint64(&r.tail, t+1)
	return v, true
}

func (r *Ring[T]) Empty() bool {
	return atomic.LoadUint64(&r.tail) == atomic.LoadUint64(&r.head)
}

func (r *Ring[T]) Cap() uint64 {
	return uint64(len(r.buf))
}
