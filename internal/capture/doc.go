// Package capture turns the asynchronous "identifier observed" callbacks of a
// tag reader into a single candidate card that the caller commits or
// abandons.
//
// STATES:
//
//	Idle ──(first identifier)──▶ Captured ──(Commit)──▶ Committed
//	                                │
//	                                └──────(Abandon)───▶ Abandoned
//
// Start and Stop only toggle listening while Idle. Reset returns any state to
// Idle with a fresh session id.
//
// CONCURRENCY:
//
// The reader may call back on its own goroutine, more than once, and even
// after StopListening was requested (one event can already be in flight).
// The session is the only authority on acceptance: a callback is honoured
// only if it belongs to the current listening period and the session is
// still Idle. Everything else is dropped. The first accepted identifier
// triggers StopListening immediately.
//
// Consumer methods (Start, Commit, Abandon, ...) are meant to be called from
// one logical caller; they are nonetheless safe to call concurrently with
// reader callbacks.
package capture
