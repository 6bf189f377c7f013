// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpsvc

import (
	"context"

	"github.com/gogama/httpsvc/request"
)

// A Doer executes API calls described by descriptors. Service is the
// canonical implementation.
type Doer interface {
	// Do executes the descriptor and returns the final execution state.
	// Its contract is the same as Service.Do.
	Do(ctx context.Context, d *request.Descriptor) (*request.Execution, error)
}

// A RawSender executes a descriptor and returns the raw response body
// together with the status code and headers.
type RawSender interface {
	SendRaw(ctx context.Context, d *request.Descriptor) (*Response[[]byte], error)
}

// A DataGetter executes a descriptor and returns only the raw response
// body.
type DataGetter interface {
	Data(ctx context.Context, d *request.Descriptor) ([]byte, error)
}

// A StatusGetter executes a descriptor and returns only the status
// code.
type StatusGetter interface {
	Status(ctx context.Context, d *request.Descriptor) (int, error)
}

// An IdleCloser can close idle connections.
type IdleCloser interface {
	// CloseIdleConnections closes any idle connections, in the manner
	// of the method of the same name on http.Client.
	CloseIdleConnections()
}

// An Executor composes all the basic operations of a Service into a
// single interface, so that application code can depend on it and tests
// can substitute a fake.
type Executor interface {
	Doer
	RawSender
	DataGetter
	StatusGetter
	IdleCloser
}

// SendRaw uses the specified Doer to execute d, and returns the raw
// response body together with the status code and headers.
func SendRaw(ctx context.Context, doer Doer, d *request.Descriptor) (*Response[[]byte], error) {
	e, err := doer.Do(ctx, d)
	if err != nil {
		return nil, err
	}
	return &Response[[]byte]{Body: e.Body(), StatusCode: e.StatusCode(), Header: e.Header()}, nil
}

// Data uses the specified Doer to execute d, and returns only the raw
// response body.
func Data(ctx context.Context, doer Doer, d *request.Descriptor) ([]byte, error) {
	e, err := doer.Do(ctx, d)
	if err != nil {
		return nil, err
	}
	return e.Body(), nil
}

// Status uses the specified Doer to execute d, and returns only the
// status code.
func Status(ctx context.Context, doer Doer, d *request.Descriptor) (int, error) {
	e, err := doer.Do(ctx, d)
	if err != nil {
		return 0, err
	}
	return e.StatusCode(), nil
}

// Inflate converts a Doer into a fully-featured Executor.
//
// If the input Doer is already an Executor, the return value is the
// input value. Otherwise the return value is an Executor implementing
// the extra methods in terms of Do, and whose CloseIdleConnections
// forwards to the Doer only if the Doer is an IdleCloser.
func Inflate(d Doer) Executor {
	if d == nil {
		panic("httpsvc: nil doer")
	}

	if e, ok := d.(Executor); ok {
		return e
	}

	return inflated{d}
}

type inflated struct {
	doer Doer
}

func (i inflated) Do(ctx context.Context, d *request.Descriptor) (*request.Execution, error) {
	return i.doer.Do(ctx, d)
}

func (i inflated) SendRaw(ctx context.Context, d *request.Descriptor) (*Response[[]byte], error) {
	return SendRaw(ctx, i.doer, d)
}

func (i inflated) Data(ctx context.Context, d *request.Descriptor) ([]byte, error) {
	return Data(ctx, i.doer, d)
}

func (i inflated) Status(ctx context.Context, d *request.Descriptor) (int, error) {
	return Status(ctx, i.doer, d)
}

func (i inflated) CloseIdleConnections() {
	if ic, ok := i.doer.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}
