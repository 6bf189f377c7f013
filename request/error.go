// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gogama/httpsvc/transient"
)

// A Kind identifies the class of a classified request Error.
type Kind int

const (
	// Transport indicates the exchange with the server failed: the
	// connection could not be made or was lost, the attempt timed out,
	// or the request was cancelled. Use Error.Timeout and
	// Error.Canceled to distinguish the sub-classifications.
	Transport Kind = iota
	// BadServerResponse indicates the server answered with a non-2XX
	// status code. The Error carries the status code and the raw body.
	BadServerResponse
	// Decoding indicates a 2XX response body could not be decoded into
	// the requested shape.
	Decoding
	// EncodingErr indicates the request could not be built, for example
	// because the URL could not be formed or the body could not be
	// marshalled.
	EncodingErr
)

var kindNames = []string{"Transport", "BadServerResponse", "Decoding", "Encoding"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// ErrCanceled matches, via errors.Is, any Error which reports
// Canceled. It is never returned directly.
var ErrCanceled = errors.New("httpsvc/request: canceled")

// An Error is a classified request error. It carries enough structure
// to drive retry decisions and user-facing messages: the Kind, and for
// BadServerResponse the status code and raw response body.
type Error struct {
	Kind       Kind
	StatusCode int
	Body       []byte
	Err        error
}

// NewBadServerResponse returns a BadServerResponse error for the given
// status code and response body.
func NewBadServerResponse(statusCode int, body []byte) *Error {
	return &Error{Kind: BadServerResponse, StatusCode: statusCode, Body: body}
}

// NewTransportError classifies err as a Transport error.
func NewTransportError(err error) *Error {
	return &Error{Kind: Transport, Err: err}
}

// NewDecodingError classifies err as a Decoding error.
func NewDecodingError(err error) *Error {
	return &Error{Kind: Decoding, Err: err}
}

// NewEncodingError classifies err as an EncodingErr error.
func NewEncodingError(err error) *Error {
	return &Error{Kind: EncodingErr, Err: err}
}

// Classify returns err as an *Error. If err already is, or wraps, an
// *Error, that Error is returned unchanged. Any other non-nil error is
// classified as a Transport error. A nil err yields nil.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewTransportError(err)
}

func (e *Error) Error() string {
	switch e.Kind {
	case BadServerResponse:
		return "httpsvc: server returned status code " + strconv.Itoa(e.StatusCode)
	case Decoding:
		return fmt.Sprintf("httpsvc: failed to decode data: %v", e.Err)
	case EncodingErr:
		return fmt.Sprintf("httpsvc: failed to encode request: %v", e.Err)
	default:
		if e.Canceled() {
			return fmt.Sprintf("httpsvc: canceled: %v", e.Err)
		}
		return fmt.Sprintf("httpsvc: network error: %v", e.Err)
	}
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCanceled and e is a cancellation.
func (e *Error) Is(target error) bool {
	return target == ErrCanceled && e.Canceled()
}

// Canceled reports whether e is a Transport error caused by
// cancellation, as opposed to any other failure. Callers typically
// treat a cancellation as a return to idle rather than as an error to
// show.
func (e *Error) Canceled() bool {
	return e.Kind == Transport && transient.Categorize(e.Err) == transient.Canceled
}

// Timeout reports whether e is a Transport error caused by a timeout.
func (e *Error) Timeout() bool {
	return e.Kind == Transport && transient.Categorize(e.Err) == transient.Timeout
}
