// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpsvc

import (
	"context"

	"github.com/gogama/httpsvc/request"
)

// An Interceptor is middleware in a Service's request pipeline. It has
// two hooks: Adapt, which may rewrite the wire request before every
// attempt, and Retry, which is consulted after every failed attempt.
//
// Implementations of Interceptor must be safe for concurrent use by
// multiple goroutines. Embed Base to pick up the default for whichever
// hook an implementation does not need.
type Interceptor interface {
	// Adapt returns the wire request to send, given the wire request
	// produced by the previous interceptor in the chain. It must not
	// modify w, but should return a modified Clone of it instead. A
	// non-nil error abandons the attempt.
	Adapt(ctx context.Context, w *request.Wire) (*request.Wire, error)

	// Retry reports whether the attempt numbered attempt (zero-based)
	// which failed with err should be retried. It may block, for
	// example to back off, but should return promptly when ctx is
	// done. A non-nil error ends the execution with that error.
	//
	// w is the wire request the failed attempt sent. It is nil when the
	// attempt failed before a wire request existed, because encoding
	// failed or an Adapt hook returned an error.
	Retry(ctx context.Context, w *request.Wire, err error, attempt int) (bool, error)
}

// Base provides the default Interceptor hooks: Adapt returns its input
// unchanged, and Retry never retries.
type Base struct{}

// Adapt returns w unchanged.
func (Base) Adapt(_ context.Context, w *request.Wire) (*request.Wire, error) {
	return w, nil
}

// Retry returns false.
func (Base) Retry(_ context.Context, _ *request.Wire, _ error, _ int) (bool, error) {
	return false, nil
}

// The AdaptFunc type is an adapter to allow the use of an ordinary
// function as an interceptor which only adapts.
type AdaptFunc func(ctx context.Context, w *request.Wire) (*request.Wire, error)

// Adapt calls f(ctx, w).
func (f AdaptFunc) Adapt(ctx context.Context, w *request.Wire) (*request.Wire, error) {
	return f(ctx, w)
}

// Retry returns false.
func (f AdaptFunc) Retry(_ context.Context, _ *request.Wire, _ error, _ int) (bool, error) {
	return false, nil
}

// The RetryFunc type is an adapter to allow the use of an ordinary
// function as an interceptor which only makes retry decisions.
type RetryFunc func(ctx context.Context, w *request.Wire, err error, attempt int) (bool, error)

// Adapt returns w unchanged.
func (f RetryFunc) Adapt(_ context.Context, w *request.Wire) (*request.Wire, error) {
	return w, nil
}

// Retry calls f(ctx, w, err, attempt).
func (f RetryFunc) Retry(ctx context.Context, w *request.Wire, err error, attempt int) (bool, error) {
	return f(ctx, w, err, attempt)
}

// A Chain is an ordered list of interceptors, itself an Interceptor.
type Chain []Interceptor

// Adapt runs every interceptor's Adapt in order, feeding each the
// previous one's output. It stops at the first error.
func (c Chain) Adapt(ctx context.Context, w *request.Wire) (*request.Wire, error) {
	var err error
	for _, i := range c {
		w, err = i.Adapt(ctx, w)
		if err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Retry asks every interceptor in order whether to retry, stopping at
// the first which says yes or returns an error. Interceptors after that
// one are not consulted.
func (c Chain) Retry(ctx context.Context, w *request.Wire, err error, attempt int) (bool, error) {
	for _, i := range c {
		retry, retryErr := i.Retry(ctx, w, err, attempt)
		if retryErr != nil {
			return false, retryErr
		}
		if retry {
			return true, nil
		}
	}
	return false, nil
}
