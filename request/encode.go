// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// A Server supplies the server-dependent parts of a wire request: the
// base URL every descriptor path is resolved against, the default
// headers, and the Authorization header value for a scheme.
//
// Authorization returns the empty string if no header should be sent,
// including when a token could not be obtained.
type Server interface {
	BaseURL() *url.URL
	DefaultHeader() http.Header
	Authorization(a Authorization) string
}

// A Marshaler converts a typed body into bytes. A codec.Codec satisfies
// it.
type Marshaler interface {
	Marshal(v interface{}) ([]byte, error)
}

var errNoBaseURL = errors.New("httpsvc/request: base URL must be absolute")

// Encode translates descriptor d into a wire request against server
// srv, using m to marshal typed bodies and JSON parameters.
//
// Headers are applied in a fixed order: the server's default headers,
// then the descriptor's declared content type, then the
// encoding-specific content type, and finally Authorization. Every
// failure is returned as an Error of kind Encoding.
func Encode(d *Descriptor, srv Server, m Marshaler) (*Wire, error) {
	if !d.Method.Valid() {
		return nil, NewEncodingError(fmt.Errorf("httpsvc/request: invalid method %q", string(d.Method)))
	}

	u, err := resolve(srv.BaseURL(), d.Path)
	if err != nil {
		return nil, NewEncodingError(err)
	}

	w := &Wire{
		Method: d.Method.String(),
		URL:    u,
		Header: srv.DefaultHeader().Clone(),
	}
	if w.Header == nil {
		w.Header = make(http.Header)
	}
	if d.ContentType != "" {
		w.Header.Set("Content-Type", d.ContentType)
	}

	switch d.Encoding {
	case Query:
		if len(d.Params) > 0 {
			q := encodePairs(d.Params)
			if u.RawQuery != "" {
				u.RawQuery += "&" + q
			} else {
				u.RawQuery = q
			}
		}
	case JSONBody:
		var v interface{}
		if d.Body != nil {
			v = d.Body
		} else if len(d.Params) > 0 {
			v = d.Params.Map()
		}
		if v != nil {
			w.Body, err = m.Marshal(v)
			if err != nil {
				return nil, NewEncodingError(err)
			}
		}
		w.Header.Set("Content-Type", "application/json")
		w.Header.Set("Accept", "application/json")
	case FormBody:
		if len(d.Params) > 0 {
			w.Body = []byte(encodePairs(d.Params))
		}
		if w.Header.Get("Content-Type") == "" {
			w.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	case Multipart:
		mp := NewMultipart(d.Parts)
		w.Body, err = mp.Encode()
		if err != nil {
			return nil, NewEncodingError(err)
		}
		w.Header.Set("Content-Type", mp.ContentType())
	default:
		return nil, NewEncodingError(fmt.Errorf("httpsvc/request: unknown encoding %v", d.Encoding))
	}

	if d.Auth != None {
		if value := srv.Authorization(d.Auth); value != "" {
			w.Header.Set("Authorization", value)
		}
	}

	return w, nil
}

// resolve appends path to base as a path component. Query items of the
// base URL come first, followed by any query items carried in path.
func resolve(base *url.URL, path string) (*url.URL, error) {
	if base == nil || !base.IsAbs() || base.Host == "" {
		return nil, errNoBaseURL
	}
	p, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("httpsvc/request: invalid path %q: %w", path, err)
	}
	if p.IsAbs() || p.Host != "" {
		return nil, fmt.Errorf("httpsvc/request: path %q must be relative", path)
	}
	u := base.JoinPath(p.EscapedPath())
	if u.Path != "" && u.Path[0] != '/' {
		u.Path = "/" + u.Path
		u.RawPath = ""
	}
	u.Fragment = ""
	switch {
	case base.RawQuery != "" && p.RawQuery != "":
		u.RawQuery = base.RawQuery + "&" + p.RawQuery
	case p.RawQuery != "":
		u.RawQuery = p.RawQuery
	default:
		u.RawQuery = base.RawQuery
	}
	return u, nil
}
