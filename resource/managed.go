package resource

import (
	"fmt"
	"sync"

	"github.com/wippyai/jtalk/errors"
)

// Managed owns an initialized resource until Close.
type Managed[R Resource] struct {
	r         R
	kind      string
	observers []Observer
	mu        sync.Mutex
	closed    bool
}

// Option configures Acquire.
type Option func(*options)

type options struct {
	observers []Observer
}

// WithObserver registers o for the resource's lifecycle events.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		opts.observers = append(opts.observers, o)
	}
}

// Acquire initializes r and returns it under management. If the native
// initialize fails, whatever it set up is cleared and a not_initialized
// error is returned.
func Acquire[R Resource](r R, opts ...Option) (*Managed[R], error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	m := &Managed[R]{
		r:         r,
		kind:      fmt.Sprintf("%T", r),
		observers: o.observers,
	}

	if !r.Initialize() {
		r.Clear()
		m.notify(EventInitFailed)
		return nil, errors.NotInitialized(errors.PhaseInit, m.kind)
	}
	m.notify(EventInitialized)
	return m, nil
}

// Get returns the managed resource. It panics after Close.
func (m *Managed[R]) Get() R {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		panic(fmt.Sprintf("resource: %s used after Close", m.kind))
	}
	return m.r
}

// Closed reports whether Close has run.
func (m *Managed[R]) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close clears the resource. Only the first call has any effect.
func (m *Managed[R]) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	if !m.r.Clear() {
		m.notify(EventClearFailed)
		return errors.New(errors.PhaseInit, errors.KindUnsuccessful).
			Function(m.kind + ".Clear").
			Build()
	}
	m.notify(EventCleared)
	return nil
}

func (m *Managed[R]) notify(t EventType) {
	e := Event{Type: t, Kind: m.kind, Value: m.r}
	for _, o := range m.observers {
		o.OnResourceEvent(e)
	}
}
