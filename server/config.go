// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gogama/httpsvc/request"
)

// Version is the library version advertised in DefaultUserAgent.
const Version = "1.0.0"

// DefaultUserAgent is the User-Agent sent when a Config does not name
// one.
const DefaultUserAgent = "httpsvc/" + Version

// A Config describes the server requests are sent to. It implements
// request.Server.
type Config struct {
	// URL is the absolute base URL every descriptor path is resolved
	// against.
	URL *url.URL

	// UserAgent is the User-Agent header value. Empty means
	// DefaultUserAgent.
	UserAgent string

	// Headers are additional default headers sent with every request.
	// They are applied after Host and User-Agent, so they may override
	// either.
	Headers map[string]string

	// Tokens supplies the token for descriptors requesting Bearer or
	// Basic authorization. Nil means no Authorization header is ever
	// sent.
	Tokens TokenSource
}

// New returns a Config for the absolute base URL rawURL.
func New(rawURL string) (*Config, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("httpsvc/server: invalid base URL: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, errors.New("httpsvc/server: base URL must be absolute")
	}
	return &Config{URL: u}, nil
}

// BaseURL returns the base URL.
func (c *Config) BaseURL() *url.URL {
	return c.URL
}

// DefaultHeader returns a fresh header holding Host, User-Agent and the
// additional headers.
func (c *Config) DefaultHeader() http.Header {
	h := make(http.Header, 2+len(c.Headers))
	if c.URL != nil && c.URL.Host != "" {
		h.Set("Host", c.URL.Host)
	}
	ua := c.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	h.Set("User-Agent", ua)
	for k, v := range c.Headers {
		h.Set(k, v)
	}
	return h
}

// Authorization returns the Authorization header value for scheme a, or
// the empty string if a is request.None, there is no token source, or
// the token source fails.
func (c *Config) Authorization(a request.Authorization) string {
	scheme := a.Scheme()
	if scheme == "" || c.Tokens == nil {
		return ""
	}
	token, err := c.Tokens.Token()
	if err != nil || token == "" {
		return ""
	}
	return scheme + " " + token
}
