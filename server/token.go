// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"errors"
	"sync"
)

// ErrMissingToken is returned by a TokenSource which has no token.
var ErrMissingToken = errors.New("httpsvc/server: missing token")

// A TokenSource supplies the current authorization token.
//
// Implementations of TokenSource must be safe for concurrent use by
// multiple goroutines.
type TokenSource interface {
	Token() (string, error)
}

// The TokenSourceFunc type is an adapter to allow the use of ordinary
// functions as token sources.
type TokenSourceFunc func() (string, error)

// Token returns f().
func (f TokenSourceFunc) Token() (string, error) {
	return f()
}

// StaticToken returns a TokenSource that always yields token.
func StaticToken(token string) TokenSource {
	return TokenSourceFunc(func() (string, error) {
		if token == "" {
			return "", ErrMissingToken
		}
		return token, nil
	})
}

// A MemoryTokenSource holds a token in memory. The zero value has no
// token and is ready to use.
type MemoryTokenSource struct {
	lock  sync.RWMutex
	token string
}

// Token returns the current token, or ErrMissingToken if none is set.
func (s *MemoryTokenSource) Token() (string, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.token == "" {
		return "", ErrMissingToken
	}
	return s.token, nil
}

// SetToken replaces the current token.
func (s *MemoryTokenSource) SetToken(token string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.token = token
}

// Reset clears the current token.
func (s *MemoryTokenSource) Reset() {
	s.SetToken("")
}
