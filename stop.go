package coflux

import "sync"

// StopSource is the write end of a cooperative cancellation signal: exactly
// one exists per computation, and cancelling it runs every callback
// registered through its StopToken, in registration order, at most once.
// Grounded on the parent/child stop-source chain in promise.hpp: a parent's
// StopSource cancelling fires a callback installed on every live child's
// StopSource, recursively.
type StopSource struct {
	mu        sync.Mutex
	cancelled bool
	cause     error
	callbacks []func(error)
}

// NewStopSource returns a fresh, not-yet-cancelled StopSource.
func NewStopSource() *StopSource { return &StopSource{} }

// Token returns the read-only view callbacks register against.
func (s *StopSource) Token() *StopToken { return &StopToken{source: s} }

// Cancel requests cancellation with cause (nil is fine). Idempotent: only the
// first call has effect, and it alone invokes the registered callbacks.
func (s *StopSource) Cancel(cause error) {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		return
	}
	s.cancelled = true
	s.cause = cause
	callbacks := s.callbacks
	s.callbacks = nil
	s.mu.Unlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(cause)
		}
	}
}

// IsCancelled reports whether Cancel has already run.
func (s *StopSource) IsCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

func (s *StopSource) storedCause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cause
}

// register installs cb to run on cancellation, or runs it immediately if
// already cancelled. Returns an unregister func, a no-op once cb has run.
func (s *StopSource) register(cb func(error)) (unregister func()) {
	s.mu.Lock()
	if s.cancelled {
		cause := s.cause
		s.mu.Unlock()
		cb(cause)
		return func() {}
	}
	s.callbacks = append(s.callbacks, cb)
	idx := len(s.callbacks) - 1
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < len(s.callbacks) {
			s.callbacks[idx] = nil
		}
	}
}

// StopToken is the read-only handle a computation body consults to check for,
// or react to, a cancellation request.
type StopToken struct {
	source *StopSource
}

// IsCancelled reports whether cancellation was requested.
func (t *StopToken) IsCancelled() bool {
	if t == nil || t.source == nil {
		return false
	}
	return t.source.IsCancelled()
}

// Cause returns the cause passed to Cancel, if any.
func (t *StopToken) Cause() error {
	if t == nil || t.source == nil {
		return nil
	}
	return t.source.storedCause()
}

// OnCancel registers a callback to run when cancellation is requested (or
// immediately, if it already was). Returns an unregister function.
func (t *StopToken) OnCancel(cb func(error)) (unregister func()) {
	if t == nil || t.source == nil {
		return func() {}
	}
	return t.source.register(cb)
}

// installParentLink makes child observe parent's cancellation by installing a
// callback on parent that cancels child. It is called once per computation,
// when newPromise creates it, so a child has exactly one parent-cancellation
// callback. WhenAll/WhenAny/WhenN do not replace it and have no stop source of
// their own: they cancel forks directly through Fork.Cancel, and cancelling
// the parent reaches the forks through this link.
func installParentLink(parent *StopToken, child *StopSource) (unregister func()) {
	if parent == nil {
		return func() {}
	}
	return parent.OnCancel(func(cause error) {
		child.Cancel(cause)
	})
}
