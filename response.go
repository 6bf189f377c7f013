// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpsvc

import "net/http"

// A Response is the successful result of an API call: the decoded body
// together with the status code and response headers.
type Response[T any] struct {
	Body       T
	StatusCode int
	Header     http.Header
}
