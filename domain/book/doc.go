// Package book implements the per-symbol limit order book: flat
// sorted price ladders with the best level at one end, an intrusive
// FIFO per price level for time priority, and an order-id index for
// O(1) cancel and replace.
//
// The book is a single-writer structure. All mutation, including the
// trade callback it invokes, runs on one logical thread; in the async
// setup that thread is the engine worker.
package book
