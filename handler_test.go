// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpsvc

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gogama/httpsvc/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHandlerGroup(t *testing.T) {
	t.Run("PushBack", func(t *testing.T) {
		g := &HandlerGroup{}
		h := HandlerFunc(func(Event, *request.Execution) {})
		assert.PanicsWithValue(t, "httpsvc: nil handler", func() { g.PushBack(BeforeAttempt, nil) })
		assert.PanicsWithValue(t, "httpsvc: unknown event Event(123)", func() { g.PushBack(Event(123), h) })
		assert.PanicsWithValue(t, "httpsvc: unknown event Event(-1)", func() { g.PushBack(Event(-1), h) })
	})
	t.Run("run", func(t *testing.T) {
		var log []string
		named := func(name string) Handler {
			return HandlerFunc(func(evt Event, e *request.Execution) {
				log = append(log, fmt.Sprintf("%s:%s:%s", name, evt, e.Descriptor.Path))
			})
		}
		g := &HandlerGroup{}
		g.PushBack(BeforeExecutionStart, named("audit"))
		g.PushBack(BeforeExecutionStart, named("metrics"))
		g.PushBack(AfterAttempt, named("audit"))
		widgets := &request.Execution{Descriptor: &request.Descriptor{Path: "widgets"}}
		orders := &request.Execution{Descriptor: &request.Descriptor{Path: "orders"}}

		g.run(AfterExecutionTimeout, widgets)
		assert.Empty(t, log)
		g.run(BeforeExecutionStart, widgets)
		g.run(AfterAttempt, orders)
		g.run(BeforeExecutionStart, orders)

		assert.Equal(t, []string{
			"audit:BeforeExecutionStart:widgets",
			"metrics:BeforeExecutionStart:widgets",
			"audit:AfterAttempt:orders",
			"audit:BeforeExecutionStart:orders",
			"metrics:BeforeExecutionStart:orders",
		}, log)
	})
	t.Run("zero value", func(t *testing.T) {
		var g HandlerGroup
		assert.NotPanics(t, func() { g.run(AfterExecutionEnd, &request.Execution{}) })
	})
}

func TestHandlerGroup_RetriedCall(t *testing.T) {
	svc := newMockService(t)
	svc.Interceptors = Chain{RetryFunc(func(_ context.Context, _ *request.Wire, err error, attempt int) (bool, error) {
		return request.Classify(err).Kind == request.BadServerResponse && attempt < 1, nil
	})}
	var log []string
	svc.Handlers = &HandlerGroup{}
	for _, evt := range Events() {
		svc.Handlers.PushBack(evt, HandlerFunc(func(evt Event, e *request.Execution) {
			entry := fmt.Sprintf("%s #%d", evt, e.Attempt)
			if e.Request != nil {
				entry += " " + e.Request.Method + " " + e.Request.URL.Path
			}
			if e.Reply != nil {
				entry += fmt.Sprintf(" -> %d", e.StatusCode())
			}
			log = append(log, entry)
		}))
	}
	m := svc.Transport.(*mockTransport)
	m.On("Execute", mock.Anything, mock.Anything).Return(reply(503, "busy"), nil).Once()
	m.On("Execute", mock.Anything, mock.Anything).Return(reply(200, `{"id":7}`), nil).Once()

	e, err := svc.Do(context.Background(), &request.Descriptor{Method: request.DELETE, Path: "widgets/7"})

	require.NoError(t, err)
	assert.Equal(t, 1, e.Attempt)
	assert.Equal(t, []string{
		"BeforeExecutionStart #0",
		"BeforeAttempt #0 DELETE /v1/widgets/7",
		"AfterReply #0 DELETE /v1/widgets/7 -> 503",
		"AfterAttempt #0 DELETE /v1/widgets/7 -> 503",
		"BeforeAttempt #1 DELETE /v1/widgets/7",
		"AfterReply #1 DELETE /v1/widgets/7 -> 200",
		"AfterAttempt #1 DELETE /v1/widgets/7 -> 200",
		"AfterExecutionEnd #1 DELETE /v1/widgets/7 -> 200",
	}, log)
	m.AssertExpectations(t)
}

func TestHandlerGroup_BeforeAttemptReplacesRequest(t *testing.T) {
	svc := newMockService(t)
	svc.Handlers = &HandlerGroup{}
	svc.Handlers.PushBack(BeforeAttempt, HandlerFunc(func(_ Event, e *request.Execution) {
		w := e.Request.Clone()
		w.Header.Set("X-Attempt", fmt.Sprint(e.Attempt))
		e.Request = w
	}))
	m := svc.Transport.(*mockTransport)
	m.On("Execute", mock.Anything, mock.MatchedBy(func(w *request.Wire) bool {
		return w.Header.Get("X-Attempt") == "0"
	})).Return(reply(http.StatusNoContent, ""), nil).Once()

	status, err := svc.Status(context.Background(), &request.Descriptor{Path: "ping"})

	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status)
	m.AssertExpectations(t)
}

func TestHandlerFunc(t *testing.T) {
	var gotEvt Event
	var gotExec *request.Execution
	h := HandlerFunc(func(evt Event, e *request.Execution) {
		gotEvt = evt
		gotExec = e
	})
	e := &request.Execution{Descriptor: &request.Descriptor{Path: "widgets"}}
	h.Handle(AfterReply, e)

	assert.Equal(t, AfterReply, gotEvt)
	assert.Same(t, e, gotExec)
}
