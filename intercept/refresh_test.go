// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package intercept

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogama/httpsvc"
	"github.com/gogama/httpsvc/request"
	"github.com/gogama/httpsvc/server"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefresh(t *testing.T) {
	unauthorized := request.NewBadServerResponse(401, nil)
	t.Run("nil func", func(t *testing.T) {
		assert.PanicsWithValue(t, "httpsvc/intercept: nil refresh func", func() {
			NewRefresh(nil)
		})
	})
	t.Run("not eligible", func(t *testing.T) {
		var n int32
		r := NewRefresh(func(context.Context) error {
			atomic.AddInt32(&n, 1)
			return nil
		})
		testCases := []struct {
			name    string
			err     error
			attempt int
		}{
			{"forbidden", request.NewBadServerResponse(403, nil), 0},
			{"transport", request.NewTransportError(errors.New("x")), 0},
			{"plain error", errors.New("401"), 0},
			{"second attempt", unauthorized, 1},
		}
		for _, testCase := range testCases {
			t.Run(testCase.name, func(t *testing.T) {
				retry, err := r.Retry(context.Background(), testWire(), testCase.err, testCase.attempt)
				assert.NoError(t, err)
				assert.False(t, retry)
			})
		}
		assert.Equal(t, int32(0), atomic.LoadInt32(&n))
	})
	t.Run("refreshes", func(t *testing.T) {
		var n int32
		r := NewRefresh(func(context.Context) error {
			atomic.AddInt32(&n, 1)
			return nil
		})
		retry, err := r.Retry(context.Background(), testWire(), unauthorized, 0)
		assert.NoError(t, err)
		assert.True(t, retry)
		assert.Equal(t, int32(1), n)
	})
	t.Run("Attempts", func(t *testing.T) {
		r := NewRefresh(func(context.Context) error { return nil })
		r.Attempts = 2
		retry, _ := r.Retry(context.Background(), testWire(), unauthorized, 1)
		assert.True(t, retry)
		retry, _ = r.Retry(context.Background(), testWire(), unauthorized, 2)
		assert.False(t, retry)
	})
	t.Run("refresh fails", func(t *testing.T) {
		cause := errors.New("invalid_grant")
		r := NewRefresh(func(context.Context) error { return cause })
		retry, err := r.Retry(context.Background(), testWire(), unauthorized, 0)
		assert.False(t, retry)
		assert.ErrorIs(t, err, cause)
	})
	t.Run("concurrent refreshes collapse", func(t *testing.T) {
		var n int32
		release := make(chan struct{})
		r := NewRefresh(func(context.Context) error {
			atomic.AddInt32(&n, 1)
			<-release
			return nil
		})
		var wg sync.WaitGroup
		var granted int32
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if retry, _ := r.Retry(context.Background(), testWire(), unauthorized, 0); retry {
					atomic.AddInt32(&granted, 1)
				}
			}()
		}
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()
		assert.Equal(t, int32(5), granted)
		assert.Less(t, atomic.LoadInt32(&n), int32(5))
	})
	t.Run("Service replays with new token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(401)
				return
			}
			_, _ = w.Write([]byte(`"ok"`))
		}))
		defer srv.Close()
		tokens := &server.MemoryTokenSource{}
		tokens.SetToken("stale")
		cfg, err := server.New(srv.URL)
		require.NoError(t, err)
		cfg.Tokens = tokens
		svc := &httpsvc.Service{
			Server: cfg,
			Interceptors: httpsvc.Chain{NewRefresh(func(context.Context) error {
				tokens.SetToken("fresh")
				return nil
			})},
		}

		s, err := httpsvc.Decode[string](context.Background(), svc, &request.Descriptor{Path: "me", Auth: request.Bearer})

		require.NoError(t, err)
		assert.Equal(t, "ok", s)
	})
}
