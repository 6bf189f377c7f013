// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import "golang.org/x/net/http/httpguts"

// A Method is an HTTP request method. The empty Method means GET.
type Method string

// Methods a Descriptor may use.
const (
	GET    Method = "GET"
	POST   Method = "POST"
	PUT    Method = "PUT"
	PATCH  Method = "PATCH"
	DELETE Method = "DELETE"
	HEAD   Method = "HEAD"
)

// String returns the method name, substituting GET for the empty
// method.
func (m Method) String() string {
	if m == "" {
		return string(GET)
	}
	return string(m)
}

// Valid reports whether m is a syntactically valid HTTP method, that
// is either empty (meaning GET) or an RFC 7230 token.
func (m Method) Valid() bool {
	// A method is a token, which is exactly the grammar of a header
	// field name.
	return m == "" || httpguts.ValidHeaderFieldName(string(m))
}
