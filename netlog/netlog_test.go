// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package netlog

import (
	"bytes"
	"net/http"
	"net/url"
	"testing"

	"github.com/gogama/httpsvc/request"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_LogRequest(t *testing.T) {
	t.Run("JSON body", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(zerolog.New(&buf), WithRedacted("x-api-key"))
		l.LogRequest(&request.Wire{
			Method: "POST",
			URL:    &url.URL{Scheme: "https", Host: "httpbin.org", Path: "/post", RawQuery: "a=1&b=2"},
			Header: http.Header{
				"Authorization": {"Bearer secret"},
				"X-Api-Key":     {"k"},
				"Accept":        {"application/json"},
			},
			Body: []byte(`{"name":"Ann"}`),
		})

		m := decode(t, &buf)
		assert.Equal(t, "debug", m["level"])
		assert.Equal(t, "outgoing request", m["message"])
		assert.Equal(t, "POST", m["method"])
		assert.Equal(t, "httpbin.org", m["host"])
		assert.Equal(t, "/post", m["path"])
		assert.Equal(t, map[string]interface{}{"a": "1", "b": "2"}, m["params"])
		assert.Equal(t, map[string]interface{}{
			"Authorization": "[REDACTED]",
			"X-Api-Key":     "[REDACTED]",
			"Accept":        "application/json",
		}, m["header"])
		assert.Equal(t, map[string]interface{}{"name": "Ann"}, m["body"])
		assert.NotContains(t, buf.String(), "secret")
	})
	t.Run("form body", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(zerolog.New(&buf), WithLevel(zerolog.InfoLevel))
		l.LogRequest(&request.Wire{
			Method: "POST",
			URL:    &url.URL{Scheme: "https", Host: "h", Path: "/"},
			Header: http.Header{},
			Body:   []byte("a=1"),
		})

		m := decode(t, &buf)
		assert.Equal(t, "info", m["level"])
		assert.Equal(t, float64(3), m["body_size"])
		assert.NotContains(t, m, "body")
		assert.NotContains(t, m, "params")
	})
	t.Run("level disabled", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(zerolog.New(&buf).Level(zerolog.WarnLevel))
		l.LogRequest(&request.Wire{Method: "GET", URL: &url.URL{Host: "h"}})
		l.LogResponse(nil, 200, nil)
		assert.Zero(t, buf.Len())
	})
	t.Run("nil", func(t *testing.T) {
		var buf bytes.Buffer
		New(zerolog.New(&buf)).LogRequest(nil)
		assert.Zero(t, buf.Len())
	})
}

func TestLogger_LogResponse(t *testing.T) {
	header := http.Header{
		"Content-Type":   {"application/json"},
		"Content-Length": {"11"},
		"Set-Cookie":     {"x"},
	}
	t.Run("without body", func(t *testing.T) {
		var buf bytes.Buffer
		New(zerolog.New(&buf)).LogResponse([]byte(`{"ok":true}`), 404, header)

		m := decode(t, &buf)
		assert.Equal(t, "incoming response", m["message"])
		assert.Equal(t, float64(404), m["status"])
		assert.Equal(t, "Not Found", m["status_text"])
		assert.Equal(t, "application/json", m["content_type"])
		assert.Equal(t, "11", m["content_length"])
		assert.NotContains(t, m, "body")
		assert.NotContains(t, m, "Set-Cookie")
	})
	t.Run("with body", func(t *testing.T) {
		var buf bytes.Buffer
		New(zerolog.New(&buf), WithBodies(true)).LogResponse([]byte(`{"ok":true}`), 200, header)

		m := decode(t, &buf)
		assert.Equal(t, map[string]interface{}{"ok": true}, m["body"])
	})
	t.Run("non-JSON body", func(t *testing.T) {
		var buf bytes.Buffer
		New(zerolog.New(&buf), WithBodies(true)).LogResponse([]byte("<html>"), 500, http.Header{})

		m := decode(t, &buf)
		assert.NotContains(t, m, "body")
		assert.Equal(t, "Internal Server Error", m["status_text"])
	})
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}
