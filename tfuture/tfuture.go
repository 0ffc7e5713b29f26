package tfuture

import (
	"context"
	"testing"
	"time"

	"github.com/Doracoin/goclipse/future"
)

func Completed[T any](value T) *future.Future[T] {
	fut := future.New[T]()
	fut.Set(value)
	return fut
}

func Failed[T any](err error) *future.Future[T] {
	fut := future.New[T]()
	fut.SetError(err)
	return fut
}

func Cancelled[T any]() *future.Future[T] {
	fut := future.New[T]()
	fut.Cancel()
	return fut
}

func AwaitWithin[T any](t *testing.T, fut *future.Future[T], timeout time.Duration) (T, error) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return fut.Await(ctx)
}
