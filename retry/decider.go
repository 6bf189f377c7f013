// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"errors"

	"github.com/gogama/httpsvc/request"
	"github.com/gogama/httpsvc/transient"
)

// A Decider decides whether a failed attempt should be retried.
//
// Implementations of Decider must be safe for concurrent use by
// multiple goroutines.
//
// This package provides a number of Decider implementations which can
// be used on their own or composed together using the methods of
// DeciderFunc.
type Decider interface {
	// Decide decides if a retry should be made after an attempt failed
	// with err. The parameter attempt is the zero-based number of the
	// attempt which just failed.
	Decide(err error, attempt int) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as retry deciders. It implements the Decider interface, and
// also provides composition methods And and Or.
type DeciderFunc func(err error, attempt int) bool

// DefaultTimes is the maximum number of retries the default decider
// allows.
const DefaultTimes = 2

// DefaultStatusCodes are the HTTP status codes the default decider
// considers retryable.
var DefaultStatusCodes = []int{408, 429, 500, 502, 503, 504}

// DefaultDecider is the decider used by DefaultPolicy. It allows up to
// DefaultTimes retries of a BadServerResponse carrying one of
// DefaultStatusCodes, or of any Transport error.
var DefaultDecider = Times(DefaultTimes).And(StatusCode(DefaultStatusCodes...).Or(TransportErr))

// TransportErr is a decider which allows a retry of any request.Error
// of kind Transport, including a timed out attempt.
var TransportErr DeciderFunc = transportErr

// TransientErr is a decider which allows a retry of a Transport error
// only if its cause is in one of the transient categories reported by
// transient.Categorize.
var TransientErr DeciderFunc = transientErr

// Decide returns f(err, attempt).
func (f DeciderFunc) Decide(err error, attempt int) bool {
	return f(err, attempt)
}

// And composes two deciders into a new decider which returns true if
// both sub-deciders return true, and false otherwise.
//
// The composition is short-circuit: g is not evaluated if f returns
// false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(err error, attempt int) bool {
		return f(err, attempt) && g(err, attempt)
	}
}

// Or composes two deciders into a new decider which returns true if
// either of the two sub-deciders returns true, but false if they both
// return false.
//
// The composition is short-circuit: g is not evaluated if f returns
// true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(err error, attempt int) bool {
		return f(err, attempt) || g(err, attempt)
	}
}

// Times constructs a retry decider which allows up to n retries. The
// returned decider returns true while the attempt number is less than
// n, and false otherwise.
func Times(n int) DeciderFunc {
	return func(_ error, attempt int) bool {
		return attempt < n
	}
}

// StatusCode constructs a retry decider allowing a retry of any
// BadServerResponse error whose status code is in the list ss.
func StatusCode(ss ...int) DeciderFunc {
	ss2 := make([]int, len(ss))
	copy(ss2, ss)
	return func(err error, _ int) bool {
		var e *request.Error
		if !errors.As(err, &e) || e.Kind != request.BadServerResponse {
			return false
		}
		for _, s := range ss2 {
			if e.StatusCode == s {
				return true
			}
		}
		return false
	}
}

func transportErr(err error, _ int) bool {
	return kindOf(err) == request.Transport
}

func transientErr(err error, _ int) bool {
	return kindOf(err) == request.Transport && transient.Categorize(err).Transient()
}

func kindOf(err error) request.Kind {
	if err == nil {
		return -1
	}
	return request.Classify(err).Kind
}
