// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import "net/http"

// A Reply is the outcome of one successful single-shot exchange with
// the server: the status code, the response headers, and the entire
// response body.
//
// A Reply is produced whenever the server answered, regardless of status
// code. Classifying non-2XX status codes as errors is the client's job,
// not the transport's.
type Reply struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status code is in the 2XX success range.
func (r *Reply) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}
