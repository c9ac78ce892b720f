package session

import (
	"context"
	"errors"
	"sync"
)

const queueSize = 64

type job struct {
	name string
	ctx  context.Context
	run  func(ctx context.Context) error
	done chan error // nil when nobody waits
}

// worker applies jobs one at a time in submission order.
type worker struct {
	mu     sync.Mutex
	closed bool
	jobs   chan job
	exited chan struct{}

	onError func(ctx context.Context, name string, err error)
}

func newWorker(onError func(ctx context.Context, name string, err error)) *worker {
	w := &worker{
		jobs:    make(chan job, queueSize),
		exited:  make(chan struct{}),
		onError: onError,
	}
	go w.loop()
	return w
}

func (w *worker) loop() {
	defer close(w.exited)
	for j := range w.jobs {
		err := j.run(j.ctx)
		if err != nil && w.onError != nil {
			w.onError(j.ctx, j.name, err)
		}
		if j.done != nil {
			j.done <- err
		}
	}
}

// submit queues fn. The job runs with ctx's values but not its cancellation,
// so a persistence step is never abandoned halfway.
func (w *worker) submit(ctx context.Context, name string, fn func(ctx context.Context) error, wait bool) (<-chan error, error) {
	j := job{name: name, ctx: context.WithoutCancel(ctx), run: fn}
	if wait {
		j.done = make(chan error, 1)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, ErrClosed
	}
	w.jobs <- j
	return j.done, nil
}

// flush waits until every job submitted before the call has finished.
func (w *worker) flush(ctx context.Context) error {
	done, err := w.submit(ctx, "flush", func(context.Context) error { return nil }, true)
	if err != nil {
		if errors.Is(err, ErrClosed) {
			return w.wait(ctx)
		}
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close stops accepting jobs and waits for the queue to drain.
func (w *worker) close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.jobs)
	}
	w.mu.Unlock()
	return w.wait(ctx)
}

func (w *worker) wait(ctx context.Context) error {
	select {
	case <-w.exited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
