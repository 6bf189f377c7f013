// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package intercept provides stock interceptors for an httpsvc.Service
pipeline.

Headers adds fixed header fields to every attempt. Signer signs every
attempt with an HMAC so that retries carry a fresh signature. RateLimit
holds attempts back to a sustained request rate. Refresh recovers from
an expired credential by refreshing it once and replaying the request.

Interceptors run in the order they are installed, so install the ones
which adapt the request content (Headers) before the ones which
capture it (Signer):

	svc.Interceptors = httpsvc.Chain{
		intercept.Headers(http.Header{"X-Tenant": {"acme"}}),
		intercept.NewSigner("key-1", secret),
		intercept.NewRateLimit(10, 5),
		intercept.NewRefresh(refreshToken),
		retry.DefaultPolicy,
	}
*/
package intercept
