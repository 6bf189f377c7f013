// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gogama/httpsvc/request"
	"github.com/gogama/httpsvc/retry"
	"github.com/gogama/httpsvc/server"
	"github.com/gogama/httpsvc/timeout"
)

var httpServer = httptest.NewUnstartedServer(http.HandlerFunc(serverHandler))
var httpsServer = httptest.NewUnstartedServer(http.HandlerFunc(serverHandler))
var http2Server = httptest.NewUnstartedServer(http.HandlerFunc(serverHandler))
var servers = []*httptest.Server{httpServer, httpsServer, http2Server}

func TestMain(m *testing.M) {
	httpServer.Start()
	defer httpServer.Close()
	httpsServer.StartTLS()
	defer httpsServer.Close()
	http2Server.EnableHTTP2 = true
	http2Server.StartTLS()
	defer http2Server.Close()
	waitForServerStart(httpServer)
	waitForServerStart(httpsServer)
	waitForServerStart(http2Server)
	os.Exit(m.Run())
}

func waitForServerStart(srv *httptest.Server) {
	svc := newTestService(srv)
	svc.Interceptors = Chain{retry.NewPolicy(retry.Times(20).And(retry.TransientErr), retry.NewFixedWaiter(50*time.Millisecond))}
	svc.TimeoutPolicy = timeout.Fixed(2 * time.Second)
	d := (&serverInstruction{StatusCode: 200}).toDescriptor()
	status, err := svc.Status(context.Background(), d)
	if status != 200 {
		panic(fmt.Sprintf("Test server startup failed with status %d and error %v",
			status, err))
	}
}

// newTestService returns a Service which talks to the given test server.
func newTestService(srv *httptest.Server) *Service {
	cfg, err := server.New(srv.URL)
	if err != nil {
		panic(err)
	}
	return &Service{
		Server:    cfg,
		Transport: &HTTPTransport{Doer: srv.Client()},
	}
}

func serverName(srv *httptest.Server) string {
	switch srv {
	case httpServer:
		return "http"
	case httpsServer:
		return "https"
	case http2Server:
		return "http2"
	default:
		panic("unknown server")
	}
}

type bodyChunk struct {
	Pause time.Duration
	Data  []byte
}

// A serverInstruction tells serverHandler how to respond. It travels
// to the test server as the JSON request body.
type serverInstruction struct {
	HeaderPause time.Duration
	StatusCode  int
	Body        []bodyChunk
}

func (i *serverInstruction) toDescriptor() *request.Descriptor {
	return &request.Descriptor{
		Method:   request.POST,
		Encoding: request.JSONBody,
		Body:     i,
	}
}

func (i *serverInstruction) fromRequest(req *http.Request) error {
	b, err := io.ReadAll(req.Body)
	_ = req.Body.Close()

	if err != nil {
		return err
	}

	return json.Unmarshal(b, i)
}

func serverHandler(w http.ResponseWriter, req *http.Request) {
	// Decode the instructions.
	var i serverInstruction
	err := i.fromRequest(req)
	if err != nil {
		w.WriteHeader(400)
		_, _ = io.WriteString(w, fmt.Sprintf("failed to read request: %s", err.Error()))
		return
	}

	// Validate the instruction.
	if i.StatusCode == 0 {
		w.WriteHeader(400)
		_, _ = io.WriteString(w, fmt.Sprintf("bad StatusCode in instruction: %v", i))
		return
	}

	f, ok := w.(http.Flusher)
	if !ok {
		panic("w does not implement Flusher")
	}

	contentLength := 0
	for _, chunk := range i.Body {
		contentLength += len(chunk.Data)
	}

	header := w.Header()
	header.Add("Content-Length", strconv.Itoa(contentLength))
	header.Set("X-Echo-Path", req.URL.Path)
	header.Set("X-Echo-Query", req.URL.RawQuery)

	// Pause before the headers so the client can play with timeouts.
	time.Sleep(i.HeaderPause)

	w.WriteHeader(i.StatusCode)
	f.Flush()

	// Write the body in chunks, one byte at a time, spreading each
	// chunk's pause across its bytes.
	for _, chunk := range i.Body {
		data := chunk.Data
		pause := chunk.Pause
		ppb := chunk.Pause / time.Duration(len(chunk.Data))

		for i := range data {
			b := data[i : i+1]
			_, err = w.Write(b)
			if err != nil {
				return
			}
			f.Flush()
			time.Sleep(ppb)
			pause -= ppb
		}

		if pause > 0 {
			time.Sleep(pause)
		}
	}
}
