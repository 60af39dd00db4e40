// Package future provides a single-assignment asynchronous value with
// continuation registration.
package future

import (
	"context"
	"sync"
)

// Future holds a value that becomes available at most once. Continuations
// registered with OnComplete run exactly once, after the value is set, on the
// goroutine that completes the future (or on the registering goroutine when
// the value is already there).
type Future[T any] struct {
	mux       sync.Mutex
	done      chan struct{}
	value     T
	completed bool
	callbacks []func(T)
}

// New returns a pending future.
func New[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Completed returns a future that already holds value.
func Completed[T any](value T) *Future[T] {
	f := New[T]()
	f.Complete(value)

	return f
}

// Complete assigns the value and runs every registered continuation. It
// returns false when the future was already completed, in which case value
// is discarded.
func (f *Future[T]) Complete(value T) bool {
	f.mux.Lock()
	if f.completed {
		f.mux.Unlock()
		return false
	}

	f.value = value
	f.completed = true
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mux.Unlock()

	for _, callback := range callbacks {
		callback(value)
	}

	return true
}

// OnComplete registers fn to be called with the value once it is available.
func (f *Future[T]) OnComplete(fn func(T)) {
	f.mux.Lock()
	if !f.completed {
		f.callbacks = append(f.callbacks, fn)
		f.mux.Unlock()
		return
	}
	value := f.value
	f.mux.Unlock()

	fn(value)
}

// Done returns a channel that is closed when the value is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Value returns the value and whether it has been assigned yet.
func (f *Future[T]) Value() (T, bool) {
	f.mux.Lock()
	defer f.mux.Unlock()

	return f.value, f.completed
}

// Wait blocks until the value is available or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		value, _ := f.Value()
		return value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then returns a future completed with fn applied to the value of f.
func Then[T, R any](f *Future[T], fn func(T) R) *Future[R] {
	result := New[R]()
	f.OnComplete(func(value T) {
		result.Complete(fn(value))
	})

	return result
}
