package devtools

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
)

// ErrLoopClosed is returned by Do once Run has returned.
var ErrLoopClosed = errors.New("devtools: loop closed")

// ErrLoopFull is returned by TryDo when the queue is full.
var ErrLoopFull = errors.New("devtools: loop queue full")

// Loop runs functions one at a time on the goroutine that calls Run.
type Loop struct {
	tasks chan func()
	done  chan struct{}
}

// NewLoop creates a loop with a queue of the given capacity.
func NewLoop(queue int) *Loop {
	if queue < 1 {
		queue = 1
	}
	return &Loop{
		tasks: make(chan func(), queue),
		done:  make(chan struct{}),
	}
}

// Run processes queued functions until ctx is canceled. It must be called
// once.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Do runs fn on the loop goroutine and waits for it to return. A panic in fn
// is returned as an error.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	result := make(chan error, 1)
	task := func() { result <- call(fn) }

	select {
	case l.tasks <- task:
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-result:
		return err
	case <-l.done:
		// Run may have exited after taking the task.
		select {
		case err := <-result:
			return err
		default:
			return ErrLoopClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryDo queues fn without waiting for it to run.
func (l *Loop) TryDo(fn func()) error {
	select {
	case <-l.done:
		return ErrLoopClosed
	default:
	}
	select {
	case l.tasks <- func() { _ = call(fn) }:
		return nil
	default:
		return ErrLoopFull
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }

func call(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("devtools: panic on loop: %v\n%s", r, debug.Stack())
		}
	}()
	fn()
	return nil
}
