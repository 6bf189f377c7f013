// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("HTTPSVC_SERVER_BASEURL", "https://api.example.com/v1/")

		cfg, err := Load("")

		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com/v1/", cfg.Server.BaseURL)
		assert.Equal(t, 2, cfg.Retry.MaxRetryCount)
		assert.Equal(t, []int{408, 429, 500, 502, 503, 504}, cfg.Retry.RetryableStatusCodes)
		assert.True(t, cfg.Retry.RetryOnTransportError)
		assert.Equal(t, time.Second, cfg.Retry.BaseDelay)
		assert.Equal(t, 30*time.Second, cfg.Timeout.Attempt)
		assert.Equal(t, float64(0), cfg.RateLimit.Rate)
		assert.Equal(t, 1, cfg.RateLimit.Burst)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.False(t, cfg.Log.Bodies)
	})
	t.Run("file and environment", func(t *testing.T) {
		path := writeFile(t, "httpsvc.yaml", `
server:
  baseurl: https://file.example.com/
  useragent: inventory/2.0
  headers:
    X-Tenant: acme
retry:
  maxretrycount: 5
  basedelay: 250ms
  retryablestatuscodes: [503]
ratelimit:
  rate: 2.5
  burst: 3
log:
  level: debug
  format: console
`)
		t.Setenv("HTTPSVC_RETRY_MAXRETRYCOUNT", "7")
		t.Setenv("HTTPSVC_LOG_BODIES", "true")

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "https://file.example.com/", cfg.Server.BaseURL)
		assert.Equal(t, "inventory/2.0", cfg.Server.UserAgent)
		assert.Equal(t, map[string]string{"X-Tenant": "acme"}, cfg.Server.Headers)
		assert.Equal(t, 7, cfg.Retry.MaxRetryCount)
		assert.Equal(t, 250*time.Millisecond, cfg.Retry.BaseDelay)
		assert.Equal(t, []int{503}, cfg.Retry.RetryableStatusCodes)
		assert.Equal(t, 2.5, cfg.RateLimit.Rate)
		assert.Equal(t, 3, cfg.RateLimit.Burst)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "console", cfg.Log.Format)
		assert.True(t, cfg.Log.Bodies)
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
	t.Run("missing base URL", func(t *testing.T) {
		_, err := Load("")

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		require.Len(t, ve.Fields, 1)
		assert.Equal(t, "Server.BaseURL", ve.Fields[0].Field)
		assert.Equal(t, "required", ve.Fields[0].Tag)
		assert.EqualError(t, err, `httpsvc/config: invalid configuration: Server.BaseURL fails "required"`)
	})
	t.Run("invalid values", func(t *testing.T) {
		t.Setenv("HTTPSVC_SERVER_BASEURL", "https://api.example.com/")
		t.Setenv("HTTPSVC_SERVER_TOKEN", "t")
		t.Setenv("HTTPSVC_SERVER_TOKENFILE", "/run/token")
		t.Setenv("HTTPSVC_LOG_LEVEL", "loud")

		_, err := Load("")

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		tags := map[string]string{}
		for _, f := range ve.Fields {
			tags[f.Field] = f.Tag
		}
		assert.Equal(t, map[string]string{
			"Server.TokenFile": "excluded_with",
			"Log.Level":        "oneof",
		}, tags)
	})
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Server:    Server{BaseURL: "not a url"},
		RateLimit: RateLimit{Burst: 1},
		Log:       Log{Level: "info", Format: "xml"},
	}
	cfg.Retry.RetryableStatusCodes = []int{42}

	err := Validate(cfg)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	fields := make([]string, len(ve.Fields))
	for i, f := range ve.Fields {
		fields[i] = f.Field
	}
	assert.ElementsMatch(t, []string{
		"Server.BaseURL",
		"Retry.RetryableStatusCodes[0]",
		"Log.Format",
	}, fields)
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadWithOverrides(t *testing.T) {
	t.Setenv("HTTPSVC_SERVER_BASEURL", "https://env.example.com/")
	t.Setenv("HTTPSVC_LOG_LEVEL", "debug")

	cfg, err := LoadWithOverrides("", map[string]any{
		"server.baseurl":  "https://flag.example.com/",
		"timeout.attempt": "2s",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://flag.example.com/", cfg.Server.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Timeout.Attempt)
	assert.Equal(t, "debug", cfg.Log.Level)
}
