// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpsvc

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/gogama/httpsvc/codec"
	"github.com/gogama/httpsvc/request"
	"github.com/gogama/httpsvc/timeout"
	"github.com/gogama/httpsvc/transfer"
)

var errNilWire = errors.New("httpsvc: interceptor returned nil wire request")

var (
	emptyHandlers    = HandlerGroup{}
	defaultTransport = &HTTPTransport{}
	defaultTransfers = &transfer.HTTPTransport{}
)

// A Service sends API calls, described by request.Descriptor values, to
// one server. Apart from Server, its zero value is a valid
// configuration.
//
// A zero-valued field selects a default: HTTPTransport over
// http.DefaultClient as the Transport, codec.JSON as the Codec,
// timeout.DefaultPolicy as the timeout policy, no interceptors (and
// therefore no retries), no event handlers and no logger.
//
// A Service is safe for concurrent use by multiple goroutines provided
// its fields are not modified once it is in use.
//
// Every operation funnels through the same execution path. For each
// attempt the descriptor is encoded against Server, the resulting wire
// request is adapted by every interceptor in order, and the adapted
// request is executed by the Transport under the attempt timeout. The
// outcome is then classified:
//
// • a transport failure is a request.Transport error (reporting Timeout
// if the attempt timed out, or Canceled if ctx was cancelled);
//
// • a non-2XX reply is a request.BadServerResponse error carrying the
// status code and the raw body;
//
// • a 2XX reply whose body cannot be decoded is a request.Decoding
// error.
//
// If the attempt failed, the interceptors are asked in order whether to
// retry, and the first to say yes wins. A retry replays the full
// request: the descriptor is encoded and adapted afresh. When no
// interceptor grants a retry, the classified error is returned to the
// caller unchanged.
type Service struct {
	// Server supplies the base URL, default headers and authorization.
	// Typically a *server.Config. It must not be nil.
	Server request.Server

	// Interceptors adapt every attempt's wire request and decide about
	// retries. Install a retry.Policy here to get retries.
	Interceptors Chain

	// Transport executes single-shot exchanges. If Transport is nil, an
	// HTTPTransport using http.DefaultClient is used.
	Transport Transport

	// Codec marshals typed request bodies and unmarshals typed
	// responses. If Codec is nil, codec.JSON is used.
	Codec codec.Codec

	// TimeoutPolicy specifies how to set timeouts on individual
	// attempts. If TimeoutPolicy is nil, timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy

	// Handlers allows custom handler chains to be invoked when
	// designated events occur during an execution. If Handlers is nil,
	// no custom handlers will be run.
	Handlers *HandlerGroup

	// Logger, if not nil, is shown every wire request and reply.
	Logger Logger

	// Transfers runs downloads and uploads. If Transfers is nil, a
	// transfer.HTTPTransport writing to the system temporary directory
	// is used.
	Transfers transfer.Transport
}

// Do executes descriptor d and returns the final Execution. On success
// the Execution's Reply holds the 2XX status, headers and body.
//
// The returned Execution is never nil. If an error is returned, it is a
// *request.Error and the Execution's Err field references the same
// error.
func (s *Service) Do(ctx context.Context, d *request.Descriptor) (*request.Execution, error) {
	return s.execute(ctx, d, nil)
}

// SendRaw executes d and returns the raw response body together with
// the status code and headers.
func (s *Service) SendRaw(ctx context.Context, d *request.Descriptor) (*Response[[]byte], error) {
	return SendRaw(ctx, s, d)
}

// Data executes d and returns only the raw response body.
func (s *Service) Data(ctx context.Context, d *request.Descriptor) ([]byte, error) {
	return Data(ctx, s, d)
}

// Status executes d and returns only the 2XX status code. The body is
// discarded.
func (s *Service) Status(ctx context.Context, d *request.Descriptor) (int, error) {
	return Status(ctx, s, d)
}

// CloseIdleConnections invokes the same method on the Service's
// Transport, if it has one.
func (s *Service) CloseIdleConnections() {
	if ic, ok := s.transport().(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

// Send executes d on s and decodes the response body into a T, using
// the Service's codec. A body which cannot be decoded yields a
// request.Decoding error, which is offered to the interceptors for a
// retry like any other failure.
func Send[T any](ctx context.Context, s *Service, d *request.Descriptor) (*Response[T], error) {
	var body T
	e, err := s.execute(ctx, d, func(r *request.Reply) error {
		var v T
		if err := s.codec().Unmarshal(r.Body, &v); err != nil {
			return err
		}
		body = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Response[T]{Body: body, StatusCode: e.StatusCode(), Header: e.Header()}, nil
}

// Decode executes d on s and returns only the decoded response body.
func Decode[T any](ctx context.Context, s *Service, d *request.Descriptor) (T, error) {
	resp, err := Send[T](ctx, s, d)
	if err != nil {
		var zero T
		return zero, err
	}
	return resp.Body, nil
}

// Downloader returns a Downloader which fetches u with a plain GET
// using the Service's transfer transport.
func (s *Service) Downloader(u *url.URL) *transfer.Downloader {
	return transfer.NewDownloader(s.transfers(), u)
}

// Uploader encodes d and adapts it once through the interceptor chain,
// and returns an Uploader which sends the result using the Service's
// transfer transport. Uploads are not retried.
func (s *Service) Uploader(ctx context.Context, d *request.Descriptor) (*transfer.Uploader, error) {
	w, err := s.prepare(ctx, d)
	if err != nil {
		return nil, err
	}
	return transfer.NewUploader(s.transfers(), w), nil
}

func (s *Service) execute(ctx context.Context, d *request.Descriptor, accept func(*request.Reply) error) (*request.Execution, error) {
	if d == nil {
		panic("httpsvc: nil descriptor")
	}

	e := &request.Execution{
		Descriptor: d,
	}

	transport := s.transport()

	timeoutPolicy := s.TimeoutPolicy
	if timeoutPolicy == nil {
		timeoutPolicy = timeout.DefaultPolicy
	}

	handlers := s.Handlers
	if handlers == nil {
		handlers = &emptyHandlers
	}
	handlers.run(BeforeExecutionStart, e)
	e.Start = time.Now()

	for {
		s.attempt(ctx, e, transport, timeoutPolicy, handlers, accept)
		e.LastAttemptTimedOut = e.Timeout()
		if e.LastAttemptTimedOut {
			e.AttemptTimeouts++
			handlers.run(AfterAttemptTimeout, e)
		}
		handlers.run(AfterAttempt, e)
		if e.Err == nil {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			if ctxErr == context.DeadlineExceeded {
				handlers.run(AfterExecutionTimeout, e)
			}
			break
		}
		retry, err := s.Interceptors.Retry(ctx, e.Request, e.Err, e.Attempt)
		if err != nil {
			e.Err = request.Classify(err)
			if ctx.Err() == context.DeadlineExceeded {
				handlers.run(AfterExecutionTimeout, e)
			}
			break
		} else if !retry {
			break
		}
		e.Reply = nil
		e.Err = nil
		e.Attempt++
	}

	e.End = time.Now()
	handlers.run(AfterExecutionEnd, e)
	if e.Err != nil {
		return e, e.Err
	}
	return e, nil
}

func (s *Service) attempt(ctx context.Context, e *request.Execution, transport Transport, timeoutPolicy timeout.Policy, handlers *HandlerGroup, accept func(*request.Reply) error) {
	w, err := s.prepare(ctx, e.Descriptor)
	if err != nil {
		e.Request = nil
		e.Err = err
		return
	}
	e.Request = w

	attemptCtx, cancel := context.WithTimeout(ctx, timeoutPolicy.Timeout(e))
	defer cancel()
	handlers.run(BeforeAttempt, e)
	if s.Logger != nil {
		s.Logger.LogRequest(e.Request)
	}

	reply, err := transport.Execute(attemptCtx, e.Request)
	if err != nil {
		e.Err = request.Classify(err)
		return
	}
	e.Reply = reply
	handlers.run(AfterReply, e)
	if s.Logger != nil {
		s.Logger.LogResponse(reply.Body, reply.StatusCode, reply.Header)
	}

	if !reply.OK() {
		e.Err = request.NewBadServerResponse(reply.StatusCode, reply.Body)
	} else if accept != nil {
		if err = accept(reply); err != nil {
			e.Err = request.NewDecodingError(err)
		}
	}
}

// prepare encodes d and runs the adapt chain. Any failure is an
// EncodingErr error unless an interceptor returned a classified error.
func (s *Service) prepare(ctx context.Context, d *request.Descriptor) (*request.Wire, error) {
	if s.Server == nil {
		panic("httpsvc: nil server")
	}
	w, err := request.Encode(d, s.Server, s.codec())
	if err != nil {
		return nil, err
	}
	w, err = s.Interceptors.Adapt(ctx, w)
	if err != nil {
		var e *request.Error
		if errors.As(err, &e) {
			return nil, e
		}
		return nil, request.NewEncodingError(err)
	}
	if w == nil {
		return nil, request.NewEncodingError(errNilWire)
	}
	return w, nil
}

func (s *Service) transport() Transport {
	if s.Transport == nil {
		return defaultTransport
	}
	return s.Transport
}

func (s *Service) codec() codec.Codec {
	if s.Codec == nil {
		return codec.JSON
	}
	return s.Codec
}

func (s *Service) transfers() transfer.Transport {
	if s.Transfers == nil {
		return defaultTransfers
	}
	return s.Transfers
}
