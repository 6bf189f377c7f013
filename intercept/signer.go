// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package intercept

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/gogama/httpsvc"
	"github.com/gogama/httpsvc/request"
)

const (
	// SignatureHeader carries the request signature.
	SignatureHeader = "X-Signature"
	// DateHeader carries the signing time, which is part of the signed
	// content.
	DateHeader = "X-Signature-Date"
)

// A Signer is an interceptor which signs every attempt with
// HMAC-SHA256. Because adapt runs before every attempt, a retried
// request is signed again with a fresh date.
//
// The signed content is the newline-joined method, escaped path and
// raw query, signing date in RFC 3339 format, and hex SHA-256 of the
// body. The signature header value is "<KeyID>:<hex HMAC>".
type Signer struct {
	httpsvc.Base

	// KeyID identifies the secret to the server.
	KeyID string

	// Now returns the signing time. If Now is nil, time.Now is used.
	Now func() time.Time

	secret []byte
}

// NewSigner returns a Signer using the given key ID and secret.
func NewSigner(keyID string, secret []byte) *Signer {
	if len(secret) == 0 {
		panic("httpsvc/intercept: empty signing secret")
	}
	s := make([]byte, len(secret))
	copy(s, secret)
	return &Signer{KeyID: keyID, secret: s}
}

// Adapt returns a clone of w carrying the date and signature headers.
func (s *Signer) Adapt(_ context.Context, w *request.Wire) (*request.Wire, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	w2 := w.Clone()
	date := now().UTC().Format(time.RFC3339)
	w2.Header.Set(DateHeader, date)
	w2.Header.Set(SignatureHeader, s.KeyID+":"+s.Sign(w2.Method, w2.URL.EscapedPath(), w2.URL.RawQuery, date, w2.Body))
	return w2, nil
}

// Sign returns the hex HMAC-SHA256 of the given request content. A
// server verifying signatures computes the same value.
func (s *Signer) Sign(method, path, query, date string, body []byte) string {
	sum := sha256.Sum256(body)
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(method))
	mac.Write([]byte{'\n'})
	mac.Write([]byte(path))
	mac.Write([]byte{'\n'})
	mac.Write([]byte(query))
	mac.Write([]byte{'\n'})
	mac.Write([]byte(date))
	mac.Write([]byte{'\n'})
	mac.Write([]byte(hex.EncodeToString(sum[:])))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature is valid for the given request
// content.
func (s *Signer) Verify(method, path, query, date string, body []byte, signature string) bool {
	expected := s.Sign(method, path, query, date, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
