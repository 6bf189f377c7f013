// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/google/uuid"
)

// DefaultMIMEType is the content type given to a file Part which does
// not declare one.
const DefaultMIMEType = "application/octet-stream"

// A Part is one part of a multipart/form-data request body. A Part is
// either a text part, carrying Value, or a file part, carrying Data
// together with FileName and MIMEType.
type Part struct {
	Name     string
	Value    string
	Data     []byte
	FileName string
	MIMEType string
}

// TextPart returns a text form part.
func TextPart(name, value string) Part {
	return Part{Name: name, Value: value}
}

// FilePart returns a file form part. An empty mimeType is replaced by
// DefaultMIMEType.
func FilePart(name, fileName, mimeType string, data []byte) Part {
	if mimeType == "" {
		mimeType = DefaultMIMEType
	}
	return Part{Name: name, Data: data, FileName: fileName, MIMEType: mimeType}
}

// IsFile reports whether p is a file part.
func (p Part) IsFile() bool {
	return p.FileName != ""
}

// A MultipartBody is an ordered list of parts delimited by Boundary.
type MultipartBody struct {
	Boundary string
	Parts    []Part
}

// NewMultipart returns a MultipartBody over parts with a freshly generated
// boundary.
func NewMultipart(parts []Part) *MultipartBody {
	return &MultipartBody{
		Boundary: "Boundary-" + uuid.NewString(),
		Parts:    parts,
	}
}

// ContentType returns the multipart/form-data content type, including
// the boundary parameter.
func (m *MultipartBody) ContentType() string {
	return "multipart/form-data; boundary=" + m.Boundary
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Encode renders the parts in order as a multipart/form-data body.
func (m *MultipartBody) Encode() ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary(m.Boundary); err != nil {
		return nil, err
	}
	for _, p := range m.Parts {
		h := make(textproto.MIMEHeader)
		disposition := `form-data; name="` + quoteEscaper.Replace(p.Name) + `"`
		if p.IsFile() {
			disposition += `; filename="` + quoteEscaper.Replace(p.FileName) + `"`
			mimeType := p.MIMEType
			if mimeType == "" {
				mimeType = DefaultMIMEType
			}
			h.Set("Content-Type", mimeType)
		}
		h.Set("Content-Disposition", disposition)
		pw, err := w.CreatePart(h)
		if err != nil {
			return nil, err
		}
		if p.IsFile() {
			_, err = pw.Write(p.Data)
		} else {
			_, err = pw.Write([]byte(p.Value))
		}
		if err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
