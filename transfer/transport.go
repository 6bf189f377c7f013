// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transfer

import (
	"context"
	"net/url"

	"github.com/gogama/httpsvc/request"
)

// A Listener receives a streaming transfer's callbacks. Progress may be
// called any number of times with the bytes transferred so far and the
// expected total, which is zero or negative when unknown. Done is called
// once with the final result, and reports whether the result was taken.
//
// A Listener may be called from any goroutine. Calls made after the
// transfer has ended, for example after a cancellation, are ignored, and
// Done returns false. A transport must then release whatever the
// rejected result holds, such as a downloaded file.
type Listener[T any] struct {
	Progress func(written, total int64)
	Done     func(result T, err error) bool
}

// A Task is a started streaming transfer.
type Task interface {
	// Cancel asks the transport to abort the transfer. It must be safe
	// to call more than once and after the transfer has ended.
	Cancel()
}

// The TaskFunc type is an adapter to allow the use of an ordinary
// function, such as a context.CancelFunc, as a Task.
type TaskFunc func()

// Cancel calls f().
func (f TaskFunc) Cancel() {
	f()
}

// A Transport starts streaming transfers. Both methods return as soon
// as the transfer has started; the outcome is reported to the listener.
//
// A download's result is the path of the local file holding the
// downloaded bytes. An upload's result is the response body.
type Transport interface {
	Download(ctx context.Context, w *request.Wire, l Listener[string]) (Task, error)
	Upload(ctx context.Context, w *request.Wire, l Listener[[]byte]) (Task, error)
}

// A Downloader downloads one resource to a local file.
type Downloader struct {
	Transport Transport
	Request   *request.Wire
}

// NewDownloader returns a Downloader which fetches u with a plain GET.
func NewDownloader(t Transport, u *url.URL) *Downloader {
	if t == nil {
		panic("httpsvc/transfer: nil transport")
	}
	return &Downloader{
		Transport: t,
		Request:   &request.Wire{Method: "GET", URL: u},
	}
}

// Start starts the download. The transfer stops if ctx is done, just as
// if the handle had been cancelled.
func (d *Downloader) Start(ctx context.Context) *Handle[string] {
	w := d.Request.Clone()
	return start(ctx, func(ctx context.Context, l Listener[string]) (Task, error) {
		return d.Transport.Download(ctx, w, l)
	})
}

// An Uploader sends one wire request, typically carrying a large body,
// and collects the response body.
type Uploader struct {
	Transport Transport
	Request   *request.Wire
}

// NewUploader returns an Uploader which sends w.
func NewUploader(t Transport, w *request.Wire) *Uploader {
	if t == nil {
		panic("httpsvc/transfer: nil transport")
	}
	return &Uploader{Transport: t, Request: w}
}

// Start starts the upload. The transfer stops if ctx is done, just as
// if the handle had been cancelled.
func (u *Uploader) Start(ctx context.Context) *Handle[[]byte] {
	w := u.Request.Clone()
	return start(ctx, func(ctx context.Context, l Listener[[]byte]) (Task, error) {
		return u.Transport.Upload(ctx, w, l)
	})
}
