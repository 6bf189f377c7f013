// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package httpsvc provides a typed HTTP API client. Calls are described
declaratively by request.Descriptor values, sent to one server through
an interceptor pipeline with retry support, and answered with decoded
typed responses.

Create a Service for the server to begin making calls.

	cfg, err := server.New("https://api.example.com/v1/")
	...
	svc := &httpsvc.Service{Server: cfg}
	var d = &request.Descriptor{
		Path:   "widgets",
		Params: request.Params{}.Add("color", "red"),
	}
	widgets, err := httpsvc.Decode[[]Widget](ctx, svc, d)
	...
	status, err := svc.Status(ctx, &request.Descriptor{
		Method: request.DELETE,
		Path:   "widgets/1",
	})

Every failure is a *request.Error whose Kind says what went wrong:
the exchange failed (Transport), the server answered with a non-2XX
status (BadServerResponse), the body could not be decoded (Decoding),
or the request could not be built (EncodingErr).

For control over how the service sends HTTP requests, use a custom
Transport, or an HTTPTransport with a custom HTTPDoer:

	svc := &httpsvc.Service{
		Server:    cfg,
		Transport: &httpsvc.HTTPTransport{Doer: &http.Client{...}},
	}

Retries are made by interceptors. Install a retry policy from package
retry to retry failed attempts with exponential backoff:

	svc.Interceptors = httpsvc.Chain{
		intercept.Headers(http.Header{"X-Client": {"inventory"}}),
		retry.New(retry.Config{
			MaxRetryCount:        3,
			RetryableStatusCodes: []int{429, 503},
			BaseDelay:            250 * time.Millisecond,
		}),
	}

For control over the service's individual attempt timeouts, set a
custom timeout policy using package timeout:

	svc.TimeoutPolicy = timeout.Fixed(10 * time.Second)

To hook into the fine-grained details of the service's execution logic,
install a handler into the appropriate handler chain:

	handlers := &httpsvc.HandlerGroup{}
	handlers.PushBack(httpsvc.BeforeAttempt, httpsvc.HandlerFunc(
		func(_ httpsvc.Event, e *request.Execution) {
			log.Printf("Attempt %d to %s", e.Attempt, e.Request.URL)
		}),
	)
	svc.Handlers = handlers

Large bodies are moved with the Downloader and Uploader factories,
which return handles from package transfer reporting progress and
supporting cancellation.

Package httpsvc provides basic interfaces for each operation of the
service (Doer, RawSender, DataGetter, StatusGetter and IdleCloser); a
combined interface that composes all of them (Executor); and utility
functions for working with a Doer (Inflate, SendRaw, Data and Status).
*/
package httpsvc
