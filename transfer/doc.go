// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package transfer runs progress-observable, cancellable downloads and
uploads.

A streaming Transport reports progress and its final result through
callbacks, on goroutines of its own choosing. A Handle turns those
callbacks into two things a caller can select on: a progress channel
carrying fractions in [0, 1], and a Done channel closed when the single
final result is available.

	h := transfer.NewDownloader(transport, u).Start(ctx)
	for p := range h.Progress() {
		fmt.Printf("%3.0f%%\n", p*100)
	}
	path, err := h.Wait(ctx)

The progress channel never blocks the transport: it holds at most one
value, and a newer value replaces an older one the caller has not yet
received. It is closed no later than the result becomes available.
Exactly one result is ever delivered, whether success, failure or
cancellation, and Cancel may be called any number of times.
*/
package transfer
