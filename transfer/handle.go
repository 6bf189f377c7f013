// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transfer

import (
	"context"
	"sync"

	"github.com/gogama/httpsvc/request"
)

// A Handle is the caller's view of one running transfer. A Handle is
// created by Downloader.Start or Uploader.Start and is not reusable.
//
// All methods of Handle are safe for concurrent use.
type Handle[T any] struct {
	lock     sync.Mutex
	progress chan float64
	done     chan struct{}
	finished bool
	result   T
	err      error
	task     Task
	release  context.CancelFunc
}

func newHandle[T any](release context.CancelFunc) *Handle[T] {
	return &Handle[T]{
		progress: make(chan float64, 1),
		done:     make(chan struct{}),
		release:  release,
	}
}

// Progress returns the progress channel. It carries completion fractions
// in [0, 1], starting with 0, and is closed when the transfer ends.
//
// Only the newest unreceived value is kept, so a slow reader observes a
// subsequence of the reported progress.
func (h *Handle[T]) Progress() <-chan float64 {
	return h.progress
}

// Done returns a channel which is closed when the result is available.
func (h *Handle[T]) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the result is available, or until ctx is done, and
// returns the result. Waiting does not cancel the transfer when ctx is
// done.
func (h *Handle[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-h.done:
		h.lock.Lock()
		defer h.lock.Unlock()
		return h.result, h.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result returns the result without blocking. The final return value
// is false if the transfer has not ended yet.
func (h *Handle[T]) Result() (T, error, bool) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if !h.finished {
		var zero T
		return zero, nil, false
	}
	return h.result, h.err, true
}

// Cancel aborts the transfer. The result becomes a Transport error
// which reports Canceled. Cancel is idempotent, and does nothing once
// the transfer has ended.
func (h *Handle[T]) Cancel() {
	h.lock.Lock()
	if h.finished {
		h.lock.Unlock()
		return
	}
	var zero T
	h.end(zero, request.NewTransportError(context.Canceled))
	task := h.task
	h.lock.Unlock()

	if task != nil {
		task.Cancel()
	}
	h.release()
}

// attach records the transport's task. If the handle was cancelled
// while the transport was starting, the task is cancelled at once.
func (h *Handle[T]) attach(task Task) {
	h.lock.Lock()
	if !h.finished {
		h.task = task
		h.lock.Unlock()
		return
	}
	h.lock.Unlock()
	task.Cancel()
}

func (h *Handle[T]) publish(fraction float64) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if h.finished {
		return
	}
	select {
	case <-h.progress:
	default:
	}
	h.progress <- fraction
}

func (h *Handle[T]) report(written, total int64) {
	if total <= 0 {
		return
	}
	fraction := float64(written) / float64(total)
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	h.publish(fraction)
}

func (h *Handle[T]) finish(result T, err error) bool {
	h.lock.Lock()
	if h.finished {
		h.lock.Unlock()
		return false
	}
	if err != nil {
		var zero T
		h.end(zero, request.Classify(err))
	} else {
		h.end(result, nil)
	}
	h.lock.Unlock()
	h.release()
	return true
}

// end must be called with the lock held.
func (h *Handle[T]) end(result T, err error) {
	h.finished = true
	h.result = result
	h.err = err
	close(h.progress)
	close(h.done)
}

func (h *Handle[T]) listener() Listener[T] {
	return Listener[T]{
		Progress: h.report,
		Done:     h.finish,
	}
}

func start[T any](ctx context.Context, begin func(context.Context, Listener[T]) (Task, error)) *Handle[T] {
	ctx, cancel := context.WithCancel(ctx)
	h := newHandle[T](cancel)
	h.publish(0)
	task, err := begin(ctx, h.listener())
	if err != nil {
		var zero T
		h.finish(zero, err)
		return h
	}
	h.attach(task)
	return h
}
