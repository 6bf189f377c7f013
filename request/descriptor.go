// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"fmt"
	"strconv"
	"time"
)

// An Encoding selects how a Descriptor's parameters, typed body, or
// parts are placed into the wire request.
type Encoding int

const (
	// Query encodes parameters as URL query items, e.g.
	// .../api/v1/endpoint?foo=bar. Existing query items are kept.
	Query Encoding = iota
	// JSONBody encodes the typed body, or failing that the parameters,
	// as a JSON request body.
	JSONBody
	// FormBody encodes parameters as an
	// application/x-www-form-urlencoded request body.
	FormBody
	// Multipart encodes the descriptor's parts as a multipart/form-data
	// request body.
	Multipart
)

var encodingNames = []string{"Query", "JSONBody", "FormBody", "Multipart"}

func (enc Encoding) String() string {
	if enc < 0 || int(enc) >= len(encodingNames) {
		return "Encoding(" + strconv.Itoa(int(enc)) + ")"
	}
	return encodingNames[enc]
}

// An Authorization selects which Authorization header scheme, if any,
// a request is sent with.
type Authorization int

const (
	// None sends no Authorization header.
	None Authorization = iota
	// Bearer sends "Authorization: Bearer <token>".
	Bearer
	// Basic sends "Authorization: Basic <token>". The token is expected
	// to be the base64 credentials produced by BasicCredentials.
	Basic
)

// Scheme returns the Authorization header scheme, or the empty string
// for None.
func (a Authorization) Scheme() string {
	switch a {
	case Bearer:
		return "Bearer"
	case Basic:
		return "Basic"
	default:
		return ""
	}
}

// A Param is one named request parameter. Value should be a scalar:
// a string, bool, integer or floating point number, or a
// fmt.Stringer.
type Param struct {
	Name  string
	Value interface{}
}

// Params is an ordered list of request parameters.
type Params []Param

// Add returns ps with a parameter appended.
func (ps Params) Add(name string, value interface{}) Params {
	return append(ps, Param{Name: name, Value: value})
}

// Get returns the value of the first parameter with the given name.
func (ps Params) Get(name string) (interface{}, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// Map returns the parameters as a map. Later duplicates win.
func (ps Params) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(ps))
	for _, p := range ps {
		m[p.Name] = p.Value
	}
	return m
}

// A Descriptor is a declarative description of one API call,
// independent of the server it is sent to and of the transport.
//
// Descriptors are plain values. The request pipeline never modifies a
// Descriptor, so a single Descriptor may be sent any number of times,
// including concurrently.
type Descriptor struct {
	// Method is the HTTP method. An empty Method means GET.
	Method Method

	// Encoding selects how Params, Body and Parts are encoded.
	Encoding Encoding

	// Path is the endpoint path, relative to the server base URL. It may
	// carry its own query string, whose items are preserved.
	Path string

	// Params are the request parameters. They are used by the Query and
	// FormBody encodings, and by JSONBody when Body is nil.
	Params Params

	// Body is an optional typed value which, under the JSONBody
	// encoding, is marshalled with the codec instead of Params.
	Body interface{}

	// Parts are the form parts sent under the Multipart encoding.
	Parts []Part

	// Auth selects the Authorization header scheme.
	Auth Authorization

	// ContentType optionally declares the request Content-Type. The
	// JSONBody and Multipart encodings override it.
	ContentType string

	// Timeout bounds each individual attempt made for the descriptor.
	// Zero means the client's default.
	Timeout time.Duration
}

// String returns a short human readable form of the descriptor.
func (d *Descriptor) String() string {
	return fmt.Sprintf("%s %s (%s)", d.Method, d.Path, d.Encoding)
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
