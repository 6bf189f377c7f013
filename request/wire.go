// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"
)

var (
	template, _ = http.NewRequest("GET", "", nil)
)

// A Wire is a fully resolved, ready-to-send HTTP request: the result of
// encoding a Descriptor against a server configuration and running it
// through the interceptor chain.
//
// A Wire is produced fresh for every attempt. Code which adapts a Wire,
// such as an interceptor, must not modify the Wire it receives but should
// return a modified Clone instead.
type Wire struct {
	// Method specifies the HTTP method (GET, POST, PUT, etc.).
	Method string

	// URL specifies the absolute URL to access.
	URL *urlpkg.URL

	// Header contains the request header fields. Keys are canonical,
	// so lookups through Header.Get are case-insensitive.
	//
	// A Host header, if present, is sent as the HTTP Host rather than
	// as an ordinary header field.
	Header http.Header

	// Body is the pre-buffered request body to be sent. A nil or empty
	// body indicates no request body should be sent.
	Body []byte
}

// Clone returns a deep copy of w.
func (w *Wire) Clone() *Wire {
	w2 := &Wire{
		Method: w.Method,
		Header: w.Header.Clone(),
	}
	if w.URL != nil {
		u := *w.URL
		if w.URL.User != nil {
			user := *w.URL.User
			u.User = &user
		}
		w2.URL = &u
	}
	if w.Body != nil {
		w2.Body = append([]byte(nil), w.Body...)
	}
	if w2.Header == nil {
		w2.Header = make(http.Header)
	}
	return w2
}

// WithHeader returns a clone of w with the header field key set to
// value.
func (w *Wire) WithHeader(key, value string) *Wire {
	w2 := w.Clone()
	w2.Header.Set(key, value)
	return w2
}

// ToRequest creates an HTTP request corresponding to the wire request.
// The context of the new request is set to ctx, which may not be nil.
func (w *Wire) ToRequest(ctx context.Context) *http.Request {
	r := template.WithContext(ctx)
	r.Method = w.Method
	r.URL = w.URL
	r.Host = removeEmptyPort(w.URL.Host)
	r.Header = w.Header.Clone()
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	if host := r.Header.Get("Host"); host != "" {
		r.Host = host
		r.Header.Del("Host")
	}
	if len(w.Body) > 0 {
		body := w.Body
		r.Body = io.NopCloser(bytes.NewReader(body))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		r.ContentLength = int64(len(body))
	}
	return r
}

// hasPort is lifted verbatim from net/http/http.go
//
// Given a string of the form "host", "host:port", or "[ipv6::address]:port",
// return true if the string includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort is lifted verbatim from net/http/http.go
//
// removeEmptyPort strips the empty port in ":port" to ""
// as mandated by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
