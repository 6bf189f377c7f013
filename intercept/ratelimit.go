// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package intercept

import (
	"context"
	"fmt"

	"github.com/gogama/httpsvc"
	"github.com/gogama/httpsvc/request"

	"golang.org/x/time/rate"
)

// A RateLimit is an interceptor which holds every attempt back until a
// token bucket limiter allows it. Retries count against the limit like
// first attempts.
type RateLimit struct {
	httpsvc.Base
	limiter *rate.Limiter
}

// NewRateLimit returns a RateLimit allowing r attempts per second with
// bursts of up to burst attempts.
func NewRateLimit(r rate.Limit, burst int) *RateLimit {
	if burst < 1 && r != rate.Inf {
		panic("httpsvc/intercept: burst must be positive")
	}
	return &RateLimit{limiter: rate.NewLimiter(r, burst)}
}

// Limiter returns the underlying limiter, which may be used to adjust
// the limit at runtime.
func (l *RateLimit) Limiter() *rate.Limiter {
	return l.limiter
}

// Adapt waits for the limiter and returns w unchanged. If ctx ends, or
// its deadline is too close for the wait, the attempt fails with a
// Transport error reporting cancellation or timeout accordingly.
func (l *RateLimit) Adapt(ctx context.Context, w *request.Wire) (*request.Wire, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, request.NewTransportError(ctxErr)
		}
		return nil, request.NewTransportError(fmt.Errorf("%w: %v", context.DeadlineExceeded, err))
	}
	return w, nil
}
