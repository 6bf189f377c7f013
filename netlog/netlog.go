// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package netlog provides a structured network logger for
// httpsvc.Service built on zerolog.
//
// Every wire request is logged as an "outgoing request" event carrying
// the method, host, path, query parameters, header and JSON body.
// Every reply is logged as an "incoming response" event carrying the
// status code, status text, content type and length and, when enabled,
// the JSON body. Credentials in the Authorization header, and in any
// other header named with WithRedacted, are never written.
package netlog

import (
	"net/http"
	"strings"

	"github.com/gogama/httpsvc/request"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const redacted = "[REDACTED]"

// A Logger writes network events to a zerolog.Logger. It implements
// httpsvc.Logger.
type Logger struct {
	log    zerolog.Logger
	level  zerolog.Level
	bodies bool
	redact map[string]bool
}

// An Option configures a Logger.
type Option func(*Logger)

// WithLevel sets the level events are logged at. The default is
// zerolog.DebugLevel.
func WithLevel(level zerolog.Level) Option {
	return func(l *Logger) {
		l.level = level
	}
}

// WithBodies sets whether response bodies are logged. Request bodies
// are always logged. The default is false.
func WithBodies(enabled bool) Option {
	return func(l *Logger) {
		l.bodies = enabled
	}
}

// WithRedacted adds header names whose values are replaced by a
// placeholder.
func WithRedacted(names ...string) Option {
	return func(l *Logger) {
		for _, name := range names {
			l.redact[http.CanonicalHeaderKey(name)] = true
		}
	}
}

// New returns a Logger writing to log.
func New(log zerolog.Logger, opts ...Option) *Logger {
	l := &Logger{
		log:    log,
		level:  zerolog.DebugLevel,
		redact: map[string]bool{"Authorization": true, "Proxy-Authorization": true},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogRequest logs an outgoing wire request.
func (l *Logger) LogRequest(w *request.Wire) {
	if w == nil || w.URL == nil {
		return
	}
	event := l.log.WithLevel(l.level)
	if event == nil {
		return
	}
	event = event.
		Str("method", w.Method).
		Str("host", w.URL.Host).
		Str("path", w.URL.EscapedPath()).
		Dict("header", l.headerDict(w.Header))
	if w.URL.RawQuery != "" {
		params := zerolog.Dict()
		for name, value := range request.QueryParams(w.URL) {
			params.Str(name, value)
		}
		event = event.Dict("params", params)
	}
	if isJSON(w.Body) {
		event = event.RawJSON("body", w.Body)
	} else if len(w.Body) > 0 {
		event = event.Int("body_size", len(w.Body))
	}
	event.Msg("outgoing request")
}

// LogResponse logs an incoming reply.
func (l *Logger) LogResponse(body []byte, statusCode int, header http.Header) {
	event := l.log.WithLevel(l.level)
	if event == nil {
		return
	}
	event = event.
		Int("status", statusCode).
		Str("status_text", http.StatusText(statusCode))
	if ct := header.Get("Content-Type"); ct != "" {
		event = event.Str("content_type", ct)
	}
	if cl := header.Get("Content-Length"); cl != "" {
		event = event.Str("content_length", cl)
	}
	if l.bodies && isJSON(body) {
		event = event.RawJSON("body", body)
	}
	event.Msg("incoming response")
}

func (l *Logger) headerDict(h http.Header) *zerolog.Event {
	d := zerolog.Dict()
	for name, values := range h {
		if l.redact[http.CanonicalHeaderKey(name)] {
			d = d.Str(name, redacted)
			continue
		}
		d = d.Str(name, strings.Join(values, ", "))
	}
	return d
}

func isJSON(b []byte) bool {
	return len(b) > 0 && json.Valid(b)
}
