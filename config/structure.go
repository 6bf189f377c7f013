// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"time"

	"github.com/gogama/httpsvc/retry"
)

// Config is the root configuration.
type Config struct {
	Server    Server       `koanf:"server"`
	Retry     retry.Config `koanf:"retry"`
	Timeout   Timeout      `koanf:"timeout"`
	RateLimit RateLimit    `koanf:"ratelimit"`
	Log       Log          `koanf:"log"`
}

// Server configures the server requests are sent to.
type Server struct {
	BaseURL   string            `koanf:"baseurl" validate:"required,url"`
	UserAgent string            `koanf:"useragent"`
	Headers   map[string]string `koanf:"headers"`
	// Token is a static credential. At most one of Token and TokenFile
	// may be set.
	Token     string `koanf:"token"`
	TokenFile string `koanf:"tokenfile" validate:"excluded_with=Token"`
}

// Timeout configures attempt timeouts.
type Timeout struct {
	// Attempt is the attempt timeout for descriptors which do not set
	// their own. Zero means the library default.
	Attempt time.Duration `koanf:"attempt" validate:"gte=0"`
}

// RateLimit configures the client-side rate limit.
type RateLimit struct {
	// Rate is the sustained number of attempts per second. Zero
	// disables the limit.
	Rate  float64 `koanf:"rate" validate:"gte=0"`
	Burst int     `koanf:"burst" validate:"gte=1"`
}

// Log configures network logging.
type Log struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Bodies bool   `koanf:"bodies"`
}
