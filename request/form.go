// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import "strings"

const upperhex = "0123456789ABCDEF"

// shouldEscape reports whether c must be percent-encoded inside a query
// item or form field. The allowed set is the URL query character set
// minus the separators '&', '=' and '+', and minus ';' which some
// servers treat as a separator too.
func shouldEscape(c byte) bool {
	if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' {
		return false
	}
	switch c {
	case '-', '.', '_', '~', '!', '$', '\'', '(', ')', '*', ',', '/', ':', '?', '@':
		return false
	}
	return true
}

// Escape percent-encodes s for use as a query item or form field name
// or value. Unlike url.QueryEscape, a space becomes "%20", never "+".
func Escape(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if shouldEscape(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if shouldEscape(c) {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// encodePairs renders ps as "name=value" pairs joined by '&', escaping
// every name and value.
func encodePairs(ps Params) string {
	var b strings.Builder
	for i, p := range ps {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(Escape(p.Name))
		b.WriteByte('=')
		b.WriteString(Escape(formatValue(p.Value)))
	}
	return b.String()
}
