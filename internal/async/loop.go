package async

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Loop is a single-threaded task queue. All tasks posted to a Loop run
// sequentially on the goroutine that calls Run.
//
// Besides queued tasks, the loop tracks every Future created against it that
// has not settled yet. Settle uses this to wait until a whole chain of
// operations has finished.
type Loop struct {
	logger *slog.Logger

	mu     sync.Mutex
	queue  []func()
	busy   int           // queued + running tasks + unsettled futures
	idle   chan struct{} // closed when busy drops to zero
	wake   chan struct{}
	stop   chan struct{}
	closed bool
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLoopLogger sets the logger used for loop diagnostics.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoop creates an idle loop. Nothing runs until Run is called.
func NewLoop(opts ...LoopOption) *Loop {
	idle := make(chan struct{})
	close(idle)
	l := &Loop{
		logger: slog.Default(),
		idle:   idle,
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Post schedules fn to run on the loop. It reports false if the loop is
// closed, in which case fn is dropped.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return true
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.logger.Debug("Dropping task posted to closed loop.")
		return false
	}
	l.queue = append(l.queue, fn)
	l.acquireLocked()
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Do runs fn on the loop and waits for it to finish. If fn panics, the loop
// stops and Do returns ErrLoopClosed. It must not be called from a loop
// task, since that would deadlock.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if !l.Post(func() {
		fn()
		close(done)
	}) {
		return ErrLoopClosed
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stop:
		return ErrLoopClosed
	}
}

// Run executes posted tasks until ctx is done or Close is called. A panicking
// task stops the loop; Run then returns a *PanicError and the loop is closed.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Debug("Loop started.")
	defer l.logger.Debug("Loop stopped.")

	for {
		fn, ok := l.next()
		if !ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-l.stop:
				return ErrLoopClosed
			case <-l.wake:
				continue
			}
		}
		if err := l.runTask(fn); err != nil {
			l.logger.Error("Loop task panicked, stopping loop.", "error", err)
			l.Close()
			return err
		}
	}
}

// Settle waits until the loop has no queued task and no unsettled future.
func (l *Loop) Settle(ctx context.Context) error {
	l.mu.Lock()
	if l.busy == 0 {
		l.mu.Unlock()
		return nil
	}
	idle := l.idle
	l.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stop:
		return ErrLoopClosed
	}
}

// Close stops the loop. Queued tasks are discarded. Close is idempotent.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	l.queue = nil
	close(l.stop)
}

// Closed reports whether Close has been called.
func (l *Loop) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

func (l *Loop) runTask(fn func()) (err error) {
	defer l.release()
	defer func() {
		if p := recover(); p != nil {
			err = &PanicError{Value: p, Stack: debug.Stack()}
		}
	}()
	fn()
	return nil
}

// acquire marks one more unit of outstanding work.
func (l *Loop) acquire() {
	l.mu.Lock()
	l.acquireLocked()
	l.mu.Unlock()
}

func (l *Loop) acquireLocked() {
	if l.busy == 0 {
		l.idle = make(chan struct{})
	}
	l.busy++
}

func (l *Loop) release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.busy--
	if l.busy == 0 {
		close(l.idle)
	}
}
