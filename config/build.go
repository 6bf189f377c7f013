// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"io"
	"time"

	"github.com/gogama/httpsvc"
	"github.com/gogama/httpsvc/intercept"
	"github.com/gogama/httpsvc/netlog"
	"github.com/gogama/httpsvc/retry"
	"github.com/gogama/httpsvc/server"
	"github.com/gogama/httpsvc/timeout"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ServerConfig builds the server configuration. If tokens is nil, the
// token source is built from Server.Token or Server.TokenFile; with
// neither set, no Authorization header is ever sent.
//
// A file token source is loaded but not watched. Assert the TokenSource
// to *server.FileTokenSource and call Watch to follow changes.
func (c *Config) ServerConfig(tokens server.TokenSource) (*server.Config, error) {
	sc, err := server.New(c.Server.BaseURL)
	if err != nil {
		return nil, err
	}
	sc.UserAgent = c.Server.UserAgent
	if len(c.Server.Headers) > 0 {
		sc.Headers = make(map[string]string, len(c.Server.Headers))
		for k, v := range c.Server.Headers {
			sc.Headers[k] = v
		}
	}
	switch {
	case tokens != nil:
		sc.Tokens = tokens
	case c.Server.Token != "":
		sc.Tokens = server.StaticToken(c.Server.Token)
	case c.Server.TokenFile != "":
		fts, err := server.NewFileTokenSource(c.Server.TokenFile)
		if err != nil {
			return nil, err
		}
		sc.Tokens = fts
	}
	return sc, nil
}

// RetryPolicy builds the retry policy.
func (c *Config) RetryPolicy() *retry.Policy {
	return retry.New(c.Retry)
}

// TimeoutPolicy builds the attempt timeout policy. A descriptor's own
// timeout always takes precedence.
func (c *Config) TimeoutPolicy() timeout.Policy {
	if c.Timeout.Attempt <= 0 {
		return timeout.DefaultPolicy
	}
	return timeout.Descriptor(timeout.Fixed(c.Timeout.Attempt))
}

// RateLimiter builds the rate limiting interceptor, or returns nil if
// rate limiting is disabled.
func (c *Config) RateLimiter() *intercept.RateLimit {
	if c.RateLimit.Rate <= 0 {
		return nil
	}
	return intercept.NewRateLimit(rate.Limit(c.RateLimit.Rate), c.RateLimit.Burst)
}

// Logger builds a zerolog logger writing to w at the configured level,
// as JSON or in human-friendly console format.
func (c *Config) Logger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("httpsvc/config: invalid log level: %w", err)
	}
	if c.Log.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// Service builds a Service from the configuration. The interceptor
// chain is the rate limit, if enabled, followed by the retry policy.
// Network events are logged to logOut at info level unless logging is
// disabled.
func (c *Config) Service(tokens server.TokenSource, logOut io.Writer) (*httpsvc.Service, error) {
	sc, err := c.ServerConfig(tokens)
	if err != nil {
		return nil, err
	}
	svc := &httpsvc.Service{
		Server:        sc,
		TimeoutPolicy: c.TimeoutPolicy(),
	}
	if rl := c.RateLimiter(); rl != nil {
		svc.Interceptors = append(svc.Interceptors, rl)
	}
	svc.Interceptors = append(svc.Interceptors, c.RetryPolicy())
	if c.Log.Level != "disabled" && logOut != nil {
		log, err := c.Logger(logOut)
		if err != nil {
			return nil, err
		}
		svc.Logger = netlog.New(log, netlog.WithLevel(zerolog.InfoLevel), netlog.WithBodies(c.Log.Bodies))
	}
	return svc, nil
}
