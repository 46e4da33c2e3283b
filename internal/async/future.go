package async

import (
	"context"
	"runtime/debug"
	"sync"
)

// Future is a handle to the eventual result of an asynchronous operation.
//
// A Future settles exactly once, either resolved with a value or rejected
// with an error. Continuations registered through Then, ThenAsync, Catch and
// Handle run on the Future's loop, never on the goroutine that settled it.
type Future[T any] struct {
	loop *Loop

	mu        sync.Mutex
	settled   bool
	value     T
	err       error
	done      chan struct{}
	callbacks []func(T, error)
}

func newFuture[T any](l *Loop) *Future[T] {
	l.acquire()
	return &Future[T]{loop: l, done: make(chan struct{})}
}

// Go runs fn in a new goroutine and returns a Future settled with its result.
// A panic in fn rejects the future with a *PanicError.
func Go[T any](l *Loop, fn func() (T, error)) *Future[T] {
	f := newFuture[T](l)
	go func() {
		var (
			v   T
			err error
		)
		func() {
			defer func() {
				if p := recover(); p != nil {
					err = &PanicError{Value: p, Stack: debug.Stack()}
				}
			}()
			v, err = fn()
		}()
		f.settle(v, err)
	}()
	return f
}

// Resolved returns a future already resolved with v.
func Resolved[T any](l *Loop, v T) *Future[T] {
	f := newFuture[T](l)
	f.settle(v, nil)
	return f
}

// Rejected returns a future already rejected with err.
func Rejected[T any](l *Loop, err error) *Future[T] {
	f := newFuture[T](l)
	var zero T
	f.settle(zero, err)
	return f
}

// Then returns a future resolved with fn's result once f resolves. If f is
// rejected, fn is skipped and the rejection propagates unmodified.
func Then[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	next := newFuture[U](f.loop)
	f.onSettled(func(v T, err error) {
		if err != nil {
			var zero U
			next.settle(zero, err)
			return
		}
		u, err := fn(v)
		next.settle(u, err)
	})
	return next
}

// ThenAsync is like Then, but fn starts another asynchronous operation whose
// outcome becomes the outcome of the returned future.
func ThenAsync[T, U any](f *Future[T], fn func(T) *Future[U]) *Future[U] {
	next := newFuture[U](f.loop)
	f.onSettled(func(v T, err error) {
		if err != nil {
			var zero U
			next.settle(zero, err)
			return
		}
		inner := fn(v)
		if inner == nil {
			var zero U
			next.settle(zero, nil)
			return
		}
		inner.onSettled(next.settle)
	})
	return next
}

// Catch returns a future that recovers from f's rejection through fn. A
// resolved f passes its value through untouched.
func Catch[T any](f *Future[T], fn func(error) (T, error)) *Future[T] {
	next := newFuture[T](f.loop)
	f.onSettled(func(v T, err error) {
		if err == nil {
			next.settle(v, nil)
			return
		}
		v, err = fn(err)
		next.settle(v, err)
	})
	return next
}

// Handle ends a chain: onOK runs on resolution, onErr on rejection. Either
// may be nil.
func (f *Future[T]) Handle(onOK func(T), onErr func(error)) {
	f.onSettled(func(v T, err error) {
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		if onOK != nil {
			onOK(v)
		}
	})
}

// Await blocks until f settles or ctx is done. It must not be called from a
// loop task of the future's own loop.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done is closed once the future has settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

func (f *Future[T]) onSettled(cb func(T, error)) {
	f.mu.Lock()
	if !f.settled {
		f.callbacks = append(f.callbacks, cb)
		f.mu.Unlock()
		return
	}
	v, err := f.value, f.err
	f.mu.Unlock()
	f.loop.Post(func() { cb(v, err) })
}

// settle records the outcome and schedules pending continuations. Callbacks
// are posted before the future stops counting as outstanding work, so the
// loop never looks idle in between.
func (f *Future[T]) settle(v T, err error) {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return
	}
	f.settled = true
	f.value = v
	f.err = err
	close(f.done)
	callbacks := f.callbacks
	f.callbacks = nil
	f.mu.Unlock()

	for _, cb := range callbacks {
		f.loop.Post(func() { cb(v, err) })
	}
	f.loop.release()
}
