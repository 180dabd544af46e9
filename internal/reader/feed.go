package reader

import "sync"

// Feed is a programmatic source. Deliver forwards to the session callback
// synchronously while listening.
type Feed struct {
	mu       sync.Mutex
	callback func([]byte)
}

// StartListening implements capture.Source.
func (f *Feed) StartListening(onIdentifier func([]byte)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callback = onIdentifier
}

// StopListening implements capture.Source.
func (f *Feed) StopListening() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callback = nil
}

// Listening reports whether a callback is registered.
func (f *Feed) Listening() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.callback != nil
}

// Deliver hands identifier to the listener and reports whether one was
// registered. The callback runs outside the lock because it typically calls
// StopListening.
func (f *Feed) Deliver(identifier []byte) bool {
	f.mu.Lock()
	cb := f.callback
	f.mu.Unlock()
	if cb == nil {
		return false
	}
	cb(identifier)
	return true
}
