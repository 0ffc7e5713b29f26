package agent

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/Doracoin/goclipse/future"
	"github.com/Doracoin/goclipse/metric"
	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/log"
	"github.com/txix-open/isp-kit/requestid"
	"golang.org/x/sync/errgroup"
)

var ErrAgentClosed = errors.New("agent closed")

type Task[T any] func(ctx context.Context) (T, error)

// Agent runs producer tasks on a bounded pool of goroutines and hands each
// outcome to the caller through a future.
type Agent struct {
	name      string
	logger    log.Logger
	group     *errgroup.Group
	lock      sync.Mutex
	closed    bool
	inFlight  *atomic.Int64
	submitted *atomic.Int64
}

func New(name string, logger log.Logger, opts ...Option) *Agent {
	options := newOptions()
	for _, opt := range opts {
		opt(options)
	}

	group := &errgroup.Group{}
	group.SetLimit(options.maxConcurrentTasks)
	return &Agent{
		name:      name,
		logger:    logger,
		group:     group,
		inFlight:  &atomic.Int64{},
		submitted: &atomic.Int64{},
	}
}

// Submit schedules the task and returns its future. While the agent is
// already running maxConcurrentTasks tasks, Submit blocks until a slot
// frees up, the submitting goroutine is the backpressure.
// The future of a task submitted after Close fails with ErrAgentClosed.
// Task futures discard redundant completions, a consumer side Cancel
// racing the task finishing simply wins and the late outcome is dropped.
func Submit[T any](a *Agent, ctx context.Context, task Task[T]) *future.Future[T] {
	fut := future.New[T](future.OnRecomplete(future.DiscardRecomplete()))

	// the task is scheduled under the same lock Close uses to flip closed,
	// so every accepted task is visible to the Close wait
	a.lock.Lock()
	defer a.lock.Unlock()

	if a.closed {
		fut.SetError(ErrAgentClosed)
		return fut
	}
	a.submitted.Add(1)
	a.inFlight.Add(1)

	ctx = log.ToContext(ctx, log.String("agent", a.name), log.String("taskId", requestid.Next()))
	a.group.Go(func() error {
		defer a.inFlight.Add(-1)
		runTask(a, ctx, task, fut)
		return nil
	})
	return fut
}

func runTask[T any](a *Agent, ctx context.Context, task Task[T], fut *future.Future[T]) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		stack := make([]byte, 4<<10)
		length := runtime.Stack(stack, false)
		err := errors.Errorf("task panic: %v\n%s", r, stack[:length])
		a.logger.Error(ctx, err)
		fut.SetError(err)
	}()

	value, err := task(ctx)
	if err != nil {
		a.logger.Error(ctx, errors.WithMessage(err, "task failed"))
		fut.SetError(err)
		return
	}
	fut.Set(value)
}

func (a *Agent) TasksMetric() metric.Metric {
	return metric.Metric{
		Name:        "agent_tasks",
		Description: "Number of tasks for specific agent",
		Labels:      []string{"agent", "status"},
		Collect: func() []metric.Value {
			return []metric.Value{
				metric.ValueOf(int(a.inFlight.Load()), a.name, "in_flight"),
				metric.ValueOf(int(a.submitted.Load()), a.name, "submitted"),
			}
		},
	}
}

// Close stops accepting tasks and waits for the in-flight ones.
func (a *Agent) Close() error {
	a.lock.Lock()
	a.closed = true
	a.lock.Unlock()

	return a.group.Wait()
}
