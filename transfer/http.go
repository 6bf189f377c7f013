// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transfer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/gogama/httpsvc/request"
)

// A Doer sends an HTTP request in the manner of http.Client.
type Doer interface {
	Do(r *http.Request) (*http.Response, error)
}

// HTTPTransport is the default streaming Transport, built on net/http.
//
// Downloads are streamed into a new temporary file in Dir, which is
// removed again if the download fails, is cancelled, or completes after
// the handle has already ended. Uploads stream
// the request body through a counting reader.
//
// A non-2XX response ends either kind of transfer with a
// BadServerResponse error carrying the response body.
type HTTPTransport struct {
	// Client sends the HTTP requests. If Client is nil,
	// http.DefaultClient is used.
	Client Doer

	// Dir is the directory downloads are written to. If Dir is empty,
	// os.TempDir is used.
	Dir string
}

// Download starts downloading w's URL to a temporary file.
func (t *HTTPTransport) Download(ctx context.Context, w *request.Wire, l Listener[string]) (Task, error) {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		path, err := t.download(ctx, w, l.Progress)
		if !l.Done(path, err) && path != "" {
			_ = os.Remove(path)
		}
	}()
	return TaskFunc(cancel), nil
}

// Upload starts sending w, reporting the request body bytes sent.
func (t *HTTPTransport) Upload(ctx context.Context, w *request.Wire, l Listener[[]byte]) (Task, error) {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		body, err := t.upload(ctx, w, l.Progress)
		l.Done(body, err)
	}()
	return TaskFunc(cancel), nil
}

func (t *HTTPTransport) download(ctx context.Context, w *request.Wire, progress func(int64, int64)) (path string, err error) {
	resp, err := t.client().Do(w.ToRequest(ctx))
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if err = checkStatus(resp); err != nil {
		return "", err
	}

	f, err := os.CreateTemp(t.Dir, "httpsvc-download-*")
	if err != nil {
		return "", fmt.Errorf("httpsvc/transfer: create download file: %w", err)
	}
	defer func() {
		closeErr := f.Close()
		if err == nil && closeErr != nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(f.Name())
			path = ""
		}
	}()

	cw := &countingWriter{w: f, total: resp.ContentLength, progress: progress}
	if _, err = io.Copy(cw, resp.Body); err != nil {
		return "", err
	}
	return f.Name(), nil
}

func (t *HTTPTransport) upload(ctx context.Context, w *request.Wire, progress func(int64, int64)) ([]byte, error) {
	r := w.ToRequest(ctx)
	if len(w.Body) > 0 {
		r.Body = io.NopCloser(&countingReader{
			r:        bytes.NewReader(w.Body),
			total:    int64(len(w.Body)),
			progress: progress,
		})
		r.GetBody = nil
	}
	resp, err := t.client().Do(r)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, request.NewBadServerResponse(resp.StatusCode, body)
	}
	return body, nil
}

func (t *HTTPTransport) client() Doer {
	if t.Client == nil {
		return http.DefaultClient
	}
	return t.Client
}

// maxErrorBody bounds how much of a failed download's body is kept.
const maxErrorBody = 64 << 10

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return request.NewBadServerResponse(resp.StatusCode, body)
}

type countingWriter struct {
	w        io.Writer
	written  int64
	total    int64
	progress func(int64, int64)
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.written += int64(n)
	if n > 0 && c.progress != nil {
		c.progress(c.written, c.total)
	}
	return n, err
}

type countingReader struct {
	r        io.Reader
	read     int64
	total    int64
	progress func(int64, int64)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	if n > 0 && c.progress != nil {
		c.progress(c.read, c.total)
	}
	return n, err
}
