// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/gogama/httpsvc/transient"
)

// An Execution represents the state of a single descriptor execution:
// one logical API call, which may involve several sequential attempts.
//
// When a Service is asked to send a Descriptor, an Execution is created
// for it. The Execution is updated as the call progresses (for example
// when a reply becomes available, or when a retry is granted) and is
// handed to the timeout policy and to event handlers along the way.
//
// Timeout policies and event handlers may set values on an Execution
// using its SetValue method and read them back using the Value method.
// However, they should treat the structure's exported field values as
// immutable, as the execution state is vital to the correct functioning
// of the request pipeline.
type Execution struct {
	// Descriptor specifies the API call being executed. It is never nil.
	Descriptor *Descriptor

	// Start is the start time of the execution. It is assigned a
	// non-zero value when the execution starts, and this value remains
	// constant thereafter.
	Start time.Time

	// End is the end time of the execution. It contains the zero value
	// until the execution ends, when it is set to the current time.
	End time.Time

	// Attempt is the zero-based number of the current attempt. It is set
	// to zero on the initial attempt, one on the first retry, and so on.
	// It is incremented only after an interceptor grants a retry.
	//
	// When the execution is ended, Attempt contains the zero-based
	// number of the last attempt made during the execution.
	Attempt int

	// AttemptTimeouts is the count of the number of times an attempt
	// timed out during the execution.
	AttemptTimeouts int

	// LastAttemptTimedOut reports whether the most recently completed
	// attempt ended in a timeout. It keeps its value while the next
	// attempt is underway, when Err has already been cleared.
	LastAttemptTimedOut bool

	// Request specifies the wire request made in the current attempt,
	// or already made in the last attempt. It is nil until the request
	// has been encoded and adapted, and nil again if an attempt fails to
	// encode or adapt it.
	Request *Wire

	// Reply specifies the reply received in the most recent attempt. It
	// will be nil if the most recent attempt ended in a transport error,
	// or if a current attempt is underway, or before the execution
	// starts.
	//
	// A non-nil Reply does not imply success: the server may have
	// answered with a non-2XX status code.
	Reply *Reply

	// Err indicates the error produced by the most recent attempt. It
	// will be nil if the most recent attempt succeeded, or if a current
	// attempt is underway, or before the execution starts.
	//
	// Whenever Err is non-nil, it has the type *Error.
	//
	// Once the execution has Ended, Err will not change and has the same
	// value as the error value returned by the Service.
	Err error

	data context.Context
}

// StatusCode returns the status code of the reply from the most recent
// attempt in the execution. If there is no reply, 0 is returned.
func (e *Execution) StatusCode() int {
	if e.Reply == nil {
		return 0
	}

	return e.Reply.StatusCode
}

// Header returns the response headers of the reply from the most recent
// attempt in the execution. If there is no reply, the nil header is
// returned, which is safe for read-only operations.
func (e *Execution) Header() http.Header {
	if e.Reply == nil {
		return nil
	}

	return e.Reply.Header
}

// Body returns the response body of the reply from the most recent
// attempt, or nil if there is no reply.
func (e *Execution) Body() []byte {
	if e.Reply == nil {
		return nil
	}

	return e.Reply.Body
}

// Duration returns the duration of the execution.
//
// If the execution has not yet started, the duration is zero. If the
// execution has Ended, the duration returned is equal to End minus
// Start. Otherwise, it is equal to the current time minus Start. The
// return value is thus monotonically increasing over the life of
// the execution, and becomes static when the execution has ended.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Now().Sub(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the execution has started.
//
// If the return value is false, the execution has not started yet. If
// the return value is true, then the execution has started, and Start
// is a non-zero time, indicating the execution start time.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the execution has ended.
//
// If the return value is false, the execution is still in-flight. If
// the return value is true, then the execution is over, End is a
// non-zero time, and there will be no further changes to the execution.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// Timeout indicates whether Err currently contains a non-nil value
// which indicates a timeout. The timeout may have been caused by an
// attempt timeout, or by the caller's context deadline.
//
// Note that Timeout may return false even if AttemptTimeouts > 0, if
// the most recent attempt did not end in a timeout.
func (e *Execution) Timeout() bool {
	cat := transient.Categorize(e.Err)
	return cat == transient.Timeout
}

// SetValue allows event handlers to store arbitrary data in the
// execution.
//
// The key must follow the same rules as the key parameter in
// context.WithValue, namely it:
//
// • it may not be nil;
//
// • it must be comparable;
//
// • it should not be of type string or any other built-in type to avoid
// collisions between different event handlers putting data into the
// same request execution.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this execution for key,
// or nil if there is no value associated with key.
func (e *Execution) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}
