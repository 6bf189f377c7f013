// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpsvc

import "strconv"

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Service to extend it with custom
// functionality.
type Event int

const (
	// BeforeExecutionStart identifies the event that occurs before the
	// execution of a descriptor starts.
	//
	// When Service fires BeforeExecutionStart, the execution is
	// non-nil but the only field that has been set is the descriptor.
	BeforeExecutionStart Event = iota
	// BeforeAttempt identifies the event that occurs before each
	// individual attempt, after the descriptor has been encoded and the
	// interceptor chain has adapted the wire request.
	//
	// When Service fires BeforeAttempt, the execution's request field
	// is set to the wire request that WILL BE sent after all
	// BeforeAttempt handlers have finished. Handlers which need to change
	// the request should replace the field with a modified Clone rather
	// than modify it in place.
	BeforeAttempt
	// AfterReply identifies the event that occurs after an attempt has
	// resulted in a reply from the server (as opposed to a transport
	// error) but before the reply is classified and decoded.
	//
	// Note that AfterReply fires regardless of the reply's status code.
	AfterReply
	// AfterAttemptTimeout identifies the event that occurs after an
	// attempt failed because of a timeout error.
	//
	// When Service fires AfterAttemptTimeout, the execution's error
	// field is set to the timeout error, and its attempt timeout counter
	// has been incremented.
	AfterAttemptTimeout
	// AfterAttempt identifies the event that occurs after an attempt is
	// concluded, regardless of whether it concluded successfully or not.
	//
	// Note that AfterAttempt always fires on every attempt that reached
	// the transport, and that it runs before the interceptor chain is
	// consulted for a retry decision.
	AfterAttempt
	// AfterExecutionTimeout identifies the event that occurs after the
	// deadline of the caller's context is exceeded, either at the same
	// time as an attempt timeout or during a retry backoff.
	//
	// Note that AfterExecutionTimeout always occurs after AfterAttempt.
	AfterExecutionTimeout
	// AfterExecutionEnd identifies the event that occurs after the
	// execution ends.
	//
	// When Service fires AfterExecutionEnd, the execution is in the same
	// state it was in after the final attempt EXCEPT that the end time
	// is set and the error field holds the error returned to the caller.
	AfterExecutionEnd
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecutionStart",
	"BeforeAttempt",
	"AfterReply",
	"AfterAttemptTimeout",
	"AfterAttempt",
	"AfterExecutionTimeout",
	"AfterExecutionEnd",
}

// Events returns a slice containing all events which can occur in a
// descriptor execution by Service, in the order in which they would
// occur.
func Events() []Event {
	return []Event{
		BeforeExecutionStart,
		BeforeAttempt,
		AfterReply,
		AfterAttemptTimeout,
		AfterAttempt,
		AfterExecutionTimeout,
		AfterExecutionEnd,
	}
}

// Name returns the name of the event, or "Event(n)" if evt is not one
// of the values returned by Events.
func (evt Event) Name() string {
	if evt < 0 || evt >= eventSentinel {
		return "Event(" + strconv.Itoa(int(evt)) + ")"
	}
	return eventNames[evt]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
