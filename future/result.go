package future

// Result is an immutable success-or-failure container.
// Once stored in a future it is safe to read from any goroutine.
type Result[T any] struct {
	value T
	err   error
}

func ResultOf[T any](value T) Result[T] {
	return Result[T]{value: value}
}

func ErrResult[T any](err error) Result[T] {
	return Result[T]{err: err}
}

func (r Result[T]) Get() (T, error) {
	return r.value, r.err
}

func (r Result[T]) IsError() bool {
	return r.err != nil
}
