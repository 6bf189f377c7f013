// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpsvc

import (
	"github.com/gogama/httpsvc/request"
)

// A HandlerGroup holds one handler chain per Event. Install it in a
// Service to observe, or lightly steer, each descriptor execution: a
// BeforeAttempt handler sees the adapted wire request about to be sent,
// an AfterReply handler sees the raw reply before it is classified, and
// so on.
//
// Handlers in one chain run in the order they were pushed. The zero
// value is an empty group ready to use. A HandlerGroup must not be
// modified while a Service which uses it is executing descriptors.
type HandlerGroup struct {
	chains [numEvents][]Handler
}

// PushBack appends h to the chain for evt. It panics if h is nil or evt
// is not one of the values returned by Events.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("httpsvc: nil handler")
	}
	if evt < 0 || evt >= eventSentinel {
		panic("httpsvc: unknown event " + evt.String())
	}
	g.chains[evt] = append(g.chains[evt], h)
}

// run fires evt on every handler in the chain, in order.
func (g *HandlerGroup) run(evt Event, e *request.Execution) {
	for _, h := range g.chains[evt] {
		h.Handle(evt, e)
	}
}

// A Handler reacts to an event during a descriptor execution. The
// execution passed in reflects the pipeline's state at the moment evt
// fires; see the documentation of each Event for which fields are set.
type Handler interface {
	Handle(evt Event, e *request.Execution)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as event handlers.
type HandlerFunc func(Event, *request.Execution)

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *request.Execution) {
	f(evt, e)
}
