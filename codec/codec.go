// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package codec defines the pluggable body serialization used to encode
// typed request bodies and decode typed response bodies.
package codec

import (
	"bytes"
	"errors"

	"github.com/goccy/go-json"
)

// A Codec marshals typed request bodies and unmarshals response bodies.
//
// Implementations of Codec must be safe for concurrent use by multiple
// goroutines.
type Codec interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

// JSON is the default Codec. It encodes and decodes JSON.
var JSON Codec = jsonCodec{}

// ErrEmptyBody is returned by JSON's Unmarshal when asked to decode an
// empty body into anything other than a *[]byte.
var ErrEmptyBody = errors.New("httpsvc/codec: empty body")

type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	if x, ok := v.(*[]byte); ok {
		*x = data
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ErrEmptyBody
	}
	return json.Unmarshal(data, v)
}
