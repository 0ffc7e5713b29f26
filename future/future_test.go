package future_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Doracoin/goclipse/future"
	"github.com/Doracoin/goclipse/tfuture"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/txix-open/isp-kit/test/fake"
	"golang.org/x/sync/errgroup"
)

func TestSetReleasesWaiter(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	fut := future.New[int]()
	go func() {
		time.Sleep(100 * time.Millisecond)
		fut.Set(42)
	}()

	value, err := tfuture.AwaitWithin(t, fut, 1*time.Second)
	require.NoError(err)
	require.EqualValues(42, value)
	require.True(fut.IsDone())
	require.False(fut.IsCancelled())
}

func TestBroadcastToAllWaiters(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	fut := future.New[string]()
	expected := fake.It[string]()

	group, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 32; i++ {
		group.Go(func() error {
			value, err := fut.Await(ctx)
			if err != nil {
				return err
			}
			if value != expected {
				return errors.Errorf("unexpected value: %s", value)
			}
			return nil
		})
	}

	time.Sleep(100 * time.Millisecond)
	fut.Set(expected)
	require.NoError(group.Wait())

	value, err := fut.Await(context.Background())
	require.NoError(err)
	require.EqualValues(expected, value)
}

func TestErrorPropagation(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	expected := errors.New("producer failed")
	fut := tfuture.Failed[int](expected)

	_, err := fut.Await(context.Background())
	require.ErrorIs(err, expected)
	require.NotErrorIs(err, future.ErrCancelled)

	result, ok := fut.Peek()
	require.True(ok)
	require.True(result.IsError())
}

func TestFail(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	fut := future.New[int]()
	fut.Fail("boom %d", 7)

	_, err := fut.Await(context.Background())
	require.EqualError(err, "boom 7")
}

func TestCancel(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	fut := future.New[int]()
	require.True(fut.Cancel())
	require.False(fut.Cancel())
	require.True(fut.IsDone())
	require.True(fut.IsCancelled())

	_, ok := fut.Peek()
	require.False(ok)

	_, err := fut.Await(context.Background())
	require.ErrorIs(err, future.ErrCancelled)
}

func TestAwaitTimeoutLeavesFutureUntouched(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	fut := future.New[int]()

	_, err := tfuture.AwaitWithin(t, fut, 100*time.Millisecond)
	require.ErrorIs(err, context.DeadlineExceeded)
	require.False(fut.IsDone())

	fut.Set(42)
	value, err := fut.Await(context.Background())
	require.NoError(err)
	require.EqualValues(42, value)
}

func TestAwaitCompletionIgnoresExpiredContextWhenDone(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	fut := tfuture.Completed(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fut.AwaitCompletion(ctx)
	require.NoError(err)
}

func TestStrictRecompleteIsADefect(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	fut := future.New[int]()
	fut.Set(1)
	require.Panics(func() {
		fut.Set(2)
	})

	value, err := fut.Await(context.Background())
	require.NoError(err)
	require.EqualValues(1, value)

	cancelled := future.New[int]()
	require.True(cancelled.Cancel())
	require.Panics(func() {
		cancelled.Set(1)
	})
}

func TestCancelRace(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	fut := future.New[int]()
	wins := &atomic.Int64{}

	group, _ := errgroup.WithContext(context.Background())
	for i := 0; i < 16; i++ {
		group.Go(func() error {
			if fut.Cancel() {
				wins.Add(1)
			}
			return nil
		})
	}
	require.NoError(group.Wait())

	require.EqualValues(1, wins.Load())
	require.True(fut.IsCancelled())
}

func TestCompleteCancelRace(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	for i := 0; i < 100; i++ {
		fut := future.New[int](future.OnRecomplete(future.DiscardRecomplete()))
		cancelWins := &atomic.Int64{}

		group, _ := errgroup.WithContext(context.Background())
		for j := 0; j < 4; j++ {
			group.Go(func() error {
				fut.Set(42)
				return nil
			})
			group.Go(func() error {
				if fut.Cancel() {
					cancelWins.Add(1)
				}
				return nil
			})
		}
		require.NoError(group.Wait())

		require.True(fut.IsDone())
		result, ok := fut.Peek()
		if fut.IsCancelled() {
			require.EqualValues(1, cancelWins.Load())
			require.False(ok)
			_, err := fut.Await(context.Background())
			require.ErrorIs(err, future.ErrCancelled)
		} else {
			require.EqualValues(0, cancelWins.Load())
			require.True(ok)
			value, err := result.Get()
			require.NoError(err)
			require.EqualValues(42, value)
		}
	}
}

func TestDoneChannel(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	fut := future.New[int]()
	select {
	case <-fut.Done():
		require.Fail("pending future must not be done")
	default:
	}

	fut.Set(1)
	select {
	case <-fut.Done():
	case <-time.After(1 * time.Second):
		require.Fail("done channel is not closed after completion")
	}
}
