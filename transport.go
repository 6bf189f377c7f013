// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpsvc

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gogama/httpsvc/request"
)

// A Transport performs one single-shot exchange with the server: it
// sends the wire request and returns the reply, whatever its status
// code, or the error which prevented getting one.
//
// The exchange must be abandoned promptly when ctx is done.
type Transport interface {
	Execute(ctx context.Context, w *request.Wire) (*request.Reply, error)
}

// The TransportFunc type is an adapter to allow the use of ordinary
// functions as transports.
type TransportFunc func(ctx context.Context, w *request.Wire) (*request.Reply, error)

// Execute calls f(ctx, w).
func (f TransportFunc) Execute(ctx context.Context, w *request.Wire) (*request.Reply, error) {
	return f(ctx, w)
}

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

// HTTPTransport is the default Transport. It sends wire requests with
// an HTTPDoer and reads and buffers the entire response body.
//
// Every error it returns has the type *url.Error.
type HTTPTransport struct {
	// Doer sends the HTTP requests. If Doer is nil, http.DefaultClient
	// from the standard net/http package is used.
	Doer HTTPDoer
}

// Execute sends w and returns the buffered reply.
func (t *HTTPTransport) Execute(ctx context.Context, w *request.Wire) (*request.Reply, error) {
	doer := t.Doer
	if doer == nil {
		doer = http.DefaultClient
	}
	resp, err := doer.Do(w.ToRequest(ctx))
	if err != nil {
		return nil, urlErrorWrap(w, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, urlErrorWrap(w, err)
	}
	return &request.Reply{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// CloseIdleConnections invokes the same method on the transport's
// underlying HTTPDoer.
//
// If the HTTPDoer has no CloseIdleConnections method, this method does
// nothing.
func (t *HTTPTransport) CloseIdleConnections() {
	var doer HTTPDoer = http.DefaultClient
	if t.Doer != nil {
		doer = t.Doer
	}
	if ic, ok := doer.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func urlErrorWrap(w *request.Wire, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(w.Method),
		URL: w.URL.String(),
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
