// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Descriptor (describes an API
call), Wire (a concrete, ready-to-send HTTP request), Error (a
classified request failure) and Execution (describes the state of a
Descriptor execution).

The first core type is Descriptor, a declarative description of one API
call: the endpoint path, the method, the parameters, an optional typed
body or form parts, the parameter encoding, and the authorization
scheme. A Descriptor knows nothing about the server it is sent to:

	d := &request.Descriptor{
		Method:   request.GET,
		Path:     "search",
		Params:   request.Params{}.Add("q", "hello world"),
		Encoding: request.Query,
	}

The second core type is Wire. Function Encode translates a Descriptor
against a Server (base URL, default headers, authorization) into a Wire.
The encoder places parameters according to the Encoding:

• Query appends each parameter as a query item, keeping any query items
already present on the URL, and escapes spaces as "%20";

• JSONBody marshals the typed body, or failing that the parameters, as
a JSON object;

• FormBody renders "name=value" pairs joined by '&', escaping '=', '&'
and '+' inside names and values;

• Multipart renders the parts as a multipart/form-data body with a
freshly generated boundary.

The third core type is Error. Every failure surfaced by the request
pipeline is an *Error with one of four kinds: Transport,
BadServerResponse, Decoding or EncodingErr. A Transport error may further
report Canceled or Timeout.

The fourth core type is Execution, which represents the state of a
Descriptor execution as it moves through attempts. You will typically
not allocate Execution instances yourself, but will instead work with
the ones handed out to timeout policies and event handlers.
*/
package request
