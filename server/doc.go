// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package server describes the server an API call is sent to: its base
// URL, the default headers every request carries, and where bearer or
// basic tokens come from.
//
// A Config is read-only once constructed and is safe to share between
// goroutines. Token sources are the mutable part: MemoryTokenSource is
// set and reset by the application, FileTokenSource follows a token file
// on disk, and OAuth2TokenSource adapts any golang.org/x/oauth2 token
// source.
package server
