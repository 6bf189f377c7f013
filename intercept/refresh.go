// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package intercept

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gogama/httpsvc"
	"github.com/gogama/httpsvc/request"

	"golang.org/x/sync/singleflight"
)

// A Refresh is an interceptor which recovers from rejected credentials.
// When an attempt fails with a 401 Unauthorized BadServerResponse, it
// refreshes the credential and asks for a retry. The retry re-encodes
// the request, so it picks up the new token from the server's token
// source.
//
// Concurrent executions which are rejected together share a single
// refresh.
type Refresh struct {
	httpsvc.Base

	// Attempts is the number of attempts, counted from the first, on
	// which a rejected credential is refreshed. Zero means one: only
	// the first attempt's rejection is refreshed.
	Attempts int

	refresh func(context.Context) error
	group   singleflight.Group
}

// NewRefresh returns a Refresh which calls refresh to renew the
// credential. Typically refresh obtains a new token and stores it with
// server.MemoryTokenSource.SetToken.
func NewRefresh(refresh func(context.Context) error) *Refresh {
	if refresh == nil {
		panic("httpsvc/intercept: nil refresh func")
	}
	return &Refresh{refresh: refresh}
}

// Retry refreshes the credential and returns true if err is a 401
// BadServerResponse on an eligible attempt. A failed refresh ends the
// execution with the refresh error.
func (r *Refresh) Retry(ctx context.Context, _ *request.Wire, err error, attempt int) (bool, error) {
	var e *request.Error
	if !errors.As(err, &e) || e.Kind != request.BadServerResponse || e.StatusCode != http.StatusUnauthorized {
		return false, nil
	}
	n := r.Attempts
	if n <= 0 {
		n = 1
	}
	if attempt >= n {
		return false, nil
	}
	_, refreshErr, _ := r.group.Do("refresh", func() (interface{}, error) {
		return nil, r.refresh(ctx)
	})
	if refreshErr != nil {
		return false, fmt.Errorf("httpsvc/intercept: credential refresh failed: %w", refreshErr)
	}
	return true, nil
}
