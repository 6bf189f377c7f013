// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gogama/httpsvc/request"
	"github.com/gogama/httpsvc/transfer"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// callFlags are the flags shared by the commands which make API calls.
type callFlags struct {
	params  []string
	auth    string
	timeout time.Duration
}

func (f *callFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.params, "param", "p", nil, "request parameter as name=value (repeatable)")
	cmd.Flags().StringVar(&f.auth, "auth", "bearer", "authorization scheme: none, bearer or basic")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "attempt timeout (default from config)")
}

func (f *callFlags) descriptor(method request.Method, path string, enc request.Encoding) (*request.Descriptor, error) {
	params, err := parseParams(f.params)
	if err != nil {
		return nil, err
	}
	auth, err := parseAuth(f.auth)
	if err != nil {
		return nil, err
	}
	return &request.Descriptor{
		Method:   method,
		Encoding: enc,
		Path:     path,
		Params:   params,
		Auth:     auth,
		Timeout:  f.timeout,
	}, nil
}

func parseAuth(s string) (request.Authorization, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return request.None, nil
	case "bearer":
		return request.Bearer, nil
	case "basic":
		return request.Basic, nil
	default:
		return request.None, fmt.Errorf("invalid auth scheme %q", s)
	}
}

func newGetCmd(c *cli) *cobra.Command {
	var f callFlags
	cmd := &cobra.Command{
		Use:   "get PATH",
		Short: "Send a GET request with query parameters and print the response body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := f.descriptor(request.GET, args[0], request.Query)
			if err != nil {
				return err
			}
			svc, err := c.service()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return c.report(svc.Data(ctx, d))
		},
	}
	f.register(cmd)
	return cmd
}

func newPostCmd(c *cli) *cobra.Command {
	var f callFlags
	var asJSON bool
	var data string
	var method string
	cmd := &cobra.Command{
		Use:   "post PATH",
		Short: "Send a request with a form or JSON body and print the response body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := request.FormBody
			if asJSON || data != "" {
				enc = request.JSONBody
			}
			d, err := f.descriptor(request.Method(strings.ToUpper(method)), args[0], enc)
			if err != nil {
				return err
			}
			if data != "" {
				raw, err := readData(data)
				if err != nil {
					return err
				}
				if !json.Valid(raw) {
					return fmt.Errorf("--data is not valid JSON")
				}
				d.Body = json.RawMessage(raw)
			}
			svc, err := c.service()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return c.report(svc.Data(ctx, d))
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "encode parameters as a JSON body instead of a form")
	cmd.Flags().StringVar(&data, "data", "", "raw JSON request body, or @FILE to read it from a file (implies --json)")
	cmd.Flags().StringVarP(&method, "method", "X", "POST", "HTTP method")
	return cmd
}

func newDownloadCmd(c *cli) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "download URL",
		Short: "Download a resource to a file, reporting progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := url.Parse(args[0])
			if err != nil || !u.IsAbs() {
				return fmt.Errorf("invalid download URL %q", args[0])
			}
			if out == "" {
				out = filepath.Base(u.Path)
				if out == "." || out == "/" {
					out = "download"
				}
			}
			svc, err := c.service()
			if err != nil {
				return err
			}
			// Download next to the destination so the final rename stays
			// on one filesystem.
			svc.Transfers = &transfer.HTTPTransport{Dir: filepath.Dir(out)}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			h := svc.Downloader(u).Start(ctx)
			c.progress(h.Progress())
			path, err := h.Wait(ctx)
			if err != nil {
				return c.report(nil, err)
			}
			if err = os.Rename(path, out); err != nil {
				_ = os.Remove(path)
				return err
			}
			c.log.Info().Str("file", out).Msg("download complete")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "destination file (default: last URL path segment)")
	return cmd
}

func newUploadCmd(c *cli) *cobra.Command {
	var f callFlags
	var file, field, mimeType string
	cmd := &cobra.Command{
		Use:   "upload PATH",
		Short: "Upload a file as multipart/form-data, reporting progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := f.descriptor(request.POST, args[0], request.Multipart)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			for _, p := range d.Params {
				d.Parts = append(d.Parts, request.TextPart(p.Name, fmt.Sprint(p.Value)))
			}
			if mimeType == "" {
				mimeType = mime.TypeByExtension(filepath.Ext(file))
			}
			d.Parts = append(d.Parts, request.FilePart(field, filepath.Base(file), mimeType, data))

			svc, err := c.service()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			u, err := svc.Uploader(ctx, d)
			if err != nil {
				return c.report(nil, err)
			}
			h := u.Start(ctx)
			c.progress(h.Progress())
			return c.report(h.Wait(ctx))
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&file, "file", "", "file to upload")
	cmd.Flags().StringVar(&field, "field", "file", "form field name of the file part")
	cmd.Flags().StringVar(&mimeType, "mime-type", "", "MIME type of the file (default: from extension)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// progress reports transfer progress on stderr until the channel is
// closed.
func (c *cli) progress(ch <-chan float64) {
	last := -1
	for p := range ch {
		pct := int(p * 100)
		if pct != last {
			_, _ = fmt.Fprintf(c.stderr, "\r%3d%%", pct)
			last = pct
		}
	}
	_, _ = fmt.Fprintln(c.stderr)
}

// readData returns the --data value, or the contents of the named file
// when the value starts with @.
func readData(data string) ([]byte, error) {
	name, ok := strings.CutPrefix(data, "@")
	if !ok {
		return request.BodyBytes(data)
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return request.BodyBytes(f)
}
