// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"golang.org/x/oauth2"
)

// An OAuth2TokenSource adapts an oauth2.TokenSource, yielding the
// access token of each valid token it returns.
type OAuth2TokenSource struct {
	src oauth2.TokenSource
}

// NewOAuth2TokenSource wraps src. Tokens are cached until they expire,
// so src is only consulted for a new token when needed.
func NewOAuth2TokenSource(src oauth2.TokenSource) *OAuth2TokenSource {
	if src == nil {
		panic("httpsvc/server: nil oauth2 token source")
	}
	return &OAuth2TokenSource{src: oauth2.ReuseTokenSource(nil, src)}
}

// Token returns the current access token. It returns ErrMissingToken if
// the underlying source yields an invalid token.
func (s *OAuth2TokenSource) Token() (string, error) {
	t, err := s.src.Token()
	if err != nil {
		return "", err
	}
	if !t.Valid() {
		return "", ErrMissingToken
	}
	return t.AccessToken, nil
}
