// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package intercept

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gogama/httpsvc"
	"github.com/gogama/httpsvc/request"

	"golang.org/x/net/http/httpguts"
)

// A HeaderSetter is an interceptor which sets fixed header fields on
// every attempt, replacing any values already present.
type HeaderSetter struct {
	httpsvc.Base
	header http.Header
}

// Headers returns a HeaderSetter for h. Header names and values are
// validated against RFC 7230 up front, and Headers panics if any is
// invalid. The caller may modify h afterwards without affecting the
// returned interceptor.
func Headers(h http.Header) *HeaderSetter {
	for name, values := range h {
		if !httpguts.ValidHeaderFieldName(name) {
			panic(fmt.Sprintf("httpsvc/intercept: invalid header name %q", name))
		}
		for _, v := range values {
			if !httpguts.ValidHeaderFieldValue(v) {
				panic(fmt.Sprintf("httpsvc/intercept: invalid value for header %q", name))
			}
		}
	}
	return &HeaderSetter{header: h.Clone()}
}

// Adapt returns a clone of w with the header fields set.
func (s *HeaderSetter) Adapt(_ context.Context, w *request.Wire) (*request.Wire, error) {
	if len(s.header) == 0 {
		return w, nil
	}
	w2 := w.Clone()
	for name, values := range s.header {
		w2.Header.Del(name)
		for _, v := range values {
			w2.Header.Add(name, v)
		}
	}
	return w2, nil
}
