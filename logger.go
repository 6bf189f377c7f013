// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpsvc

import (
	"net/http"

	"github.com/gogama/httpsvc/request"
)

// A Logger observes the wire traffic of a Service. It is called with
// every wire request just before it is sent, and with every reply as
// soon as it is received. It never affects control flow.
//
// Package netlog provides a zerolog-backed implementation.
type Logger interface {
	LogRequest(w *request.Wire)
	LogResponse(body []byte, statusCode int, header http.Header)
}
