// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"context"
	"time"

	"github.com/gogama/httpsvc/request"
)

// A Config describes the classic retry policy: a bounded number of
// retries of selected server responses and of transport failures, with
// exponential backoff.
type Config struct {
	// MaxRetryCount is the maximum number of retries. Zero disables
	// retry.
	MaxRetryCount int `koanf:"maxretrycount" validate:"gte=0"`

	// RetryableStatusCodes lists the status codes whose
	// BadServerResponse errors are retried.
	RetryableStatusCodes []int `koanf:"retryablestatuscodes" validate:"dive,gte=100,lte=599"`

	// RetryOnTransportError enables retry of Transport errors.
	RetryOnTransportError bool `koanf:"retryontransporterror"`

	// BaseDelay is the wait before the first retry. The wait doubles
	// before each further retry. Zero means retry immediately.
	BaseDelay time.Duration `koanf:"basedelay" validate:"gte=0"`
}

// DefaultConfig returns the default retry configuration: two retries of
// status codes 408, 429, 500, 502, 503 and 504 and of transport errors,
// waiting one second and then two.
func DefaultConfig() Config {
	codes := make([]int, len(DefaultStatusCodes))
	copy(codes, DefaultStatusCodes)
	return Config{
		MaxRetryCount:         DefaultTimes,
		RetryableStatusCodes:  codes,
		RetryOnTransportError: true,
		BaseDelay:             1 * time.Second,
	}
}

// A Policy is an interceptor which retries failed attempts when its
// Decider allows, after sleeping for the duration its Waiter gives.
//
// The sleep is interrupted if the context is done, in which case Retry
// reports no retry together with the context error.
type Policy struct {
	decider Decider
	waiter  Waiter
}

// DefaultPolicy is the Policy built from DefaultConfig.
var DefaultPolicy = New(DefaultConfig())

// Never is a Policy that never retries.
var Never = NewPolicy(Times(0), NewFixedWaiter(0))

// New constructs a Policy from a Config.
func New(c Config) *Policy {
	eligible := StatusCode(c.RetryableStatusCodes...)
	if c.RetryOnTransportError {
		eligible = eligible.Or(TransportErr)
	}
	var w Waiter
	if c.BaseDelay > 0 {
		w = NewExpWaiter(c.BaseDelay, maxWait, nil)
	} else {
		w = NewFixedWaiter(0)
	}
	return NewPolicy(Times(c.MaxRetryCount).And(eligible), w)
}

// NewPolicy constructs a Policy from a decider and a waiter.
func NewPolicy(d Decider, w Waiter) *Policy {
	if d == nil {
		panic("httpsvc/retry: nil decider")
	}
	if w == nil {
		panic("httpsvc/retry: nil waiter")
	}
	return &Policy{decider: d, waiter: w}
}

// Decide reports whether the Policy's decider allows a retry.
func (p *Policy) Decide(err error, attempt int) bool {
	return p.decider.Decide(err, attempt)
}

// Wait returns the Policy's backoff before the retry following attempt.
func (p *Policy) Wait(attempt int) time.Duration {
	return p.waiter.Wait(attempt)
}

// Adapt returns w unchanged.
func (p *Policy) Adapt(_ context.Context, w *request.Wire) (*request.Wire, error) {
	return w, nil
}

// Retry decides whether the attempt numbered attempt, which failed with
// err, should be retried. If so, it blocks for the backoff delay before
// returning true.
func (p *Policy) Retry(ctx context.Context, _ *request.Wire, err error, attempt int) (bool, error) {
	if !p.decider.Decide(err, attempt) {
		return false, nil
	}
	d := p.waiter.Wait(attempt)
	if d <= 0 {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return true, nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
