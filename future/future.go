// Package future provides a single-assignment completion primitive.
// A future is completed exactly once, with a value, an error or a cancellation,
// and any number of goroutines can block on it until that happens.
package future

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

var ErrCancelled = errors.New("future cancelled")

type completionStatus int

const (
	statusPending completionStatus = iota
	statusCompleted
	statusCancelled
)

type Future[T any] struct {
	lock       sync.Mutex
	status     completionStatus
	result     Result[T]
	done       chan struct{}
	recomplete RecompleteHook
}

func New[T any](opts ...Option) *Future[T] {
	options := newOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &Future[T]{
		done:       make(chan struct{}),
		recomplete: options.recomplete,
	}
}

func (f *Future[T]) Set(value T) {
	f.SetResult(ResultOf(value))
}

func (f *Future[T]) SetError(err error) {
	f.SetResult(ErrResult[T](err))
}

func (f *Future[T]) Fail(format string, args ...any) {
	f.SetResult(ErrResult[T](errors.Errorf(format, args...)))
}

// SetResult completes the future. If the future already left the pending
// state, the re-completion hook is invoked instead of transitioning.
// done is closed under the same lock that guards the transition, so a waiter
// that observed the pending state cannot miss the signal.
func (f *Future[T]) SetResult(result Result[T]) {
	f.lock.Lock()
	if f.status != statusPending {
		f.lock.Unlock()
		f.recomplete()
		return
	}
	f.result = result
	f.status = statusCompleted
	close(f.done)
	f.lock.Unlock()
}

// Cancel reports whether the cancellation took effect,
// false if the future is already completed or cancelled.
func (f *Future[T]) Cancel() bool {
	f.lock.Lock()
	defer f.lock.Unlock()

	if f.status != statusPending {
		return false
	}
	f.status = statusCancelled
	close(f.done)
	return true
}

func (f *Future[T]) IsDone() bool {
	f.lock.Lock()
	defer f.lock.Unlock()

	return f.status != statusPending
}

func (f *Future[T]) IsCancelled() bool {
	f.lock.Lock()
	defer f.lock.Unlock()

	return f.status == statusCancelled
}

// Peek returns the stored result without blocking.
// The second return value is false while the future is pending or cancelled.
func (f *Future[T]) Peek() (Result[T], bool) {
	f.lock.Lock()
	defer f.lock.Unlock()

	return f.result, f.status == statusCompleted
}

// Done is closed once the future leaves the pending state.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// AwaitCompletion blocks until the future is completed or cancelled.
// Returns immediately if it is already done, ctx.Err() if the context
// expires first. An expired wait does not affect the future.
func (f *Future[T]) AwaitCompletion(ctx context.Context) error {
	select {
	case <-f.done:
		return nil
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-f.done:
		return nil
	}
}

// Await blocks until completion and unwraps the outcome: the success value,
// the stored error, ErrCancelled for a cancelled future, or ctx.Err() when
// the context expires before completion.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	var empty T

	err := f.AwaitCompletion(ctx)
	if err != nil {
		return empty, err
	}

	if f.status == statusCancelled {
		return empty, ErrCancelled
	}
	return f.result.Get()
}
