// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/gogama/httpsvc"
	"github.com/gogama/httpsvc/config"
	"github.com/gogama/httpsvc/request"
	"github.com/gogama/httpsvc/server"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var exampleUsage = strings.TrimSpace(`
  httpsvc --base-url https://httpbin.org get get -p q="hello world"
  httpsvc --base-url https://httpbin.org post post --json -p name=Ann
  httpsvc --config ./httpsvc.yaml download https://cdn.example.com/a.bin -o a.bin
  httpsvc upload files --file ./report.pdf --field document
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli holds the state shared by the subcommands.
type cli struct {
	stdout  io.Writer
	stderr  io.Writer
	log     zerolog.Logger
	cfgPath string
	baseURL string
	token   string
	basic   string
	verbose bool
	flags   *pflag.FlagSet
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{
		stdout: stdout,
		stderr: stderr,
		log:    zerolog.New(zerolog.ConsoleWriter{Out: stderr}).With().Timestamp().Logger(),
	}

	root := &cobra.Command{
		Use:           "httpsvc",
		Short:         "Call an HTTP API with retries, timeouts and typed encodings",
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s (library %s) %s/%s", getVersion(), server.Version, runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgPath, "config", "", "path to YAML config file")
	pf.StringVar(&c.baseURL, "base-url", "", "server base URL (overrides server.baseurl)")
	pf.StringVar(&c.token, "token", "", "bearer token (overrides server.token)")
	pf.StringVar(&c.basic, "basic", "", "user:password for Basic authorization (use with --auth basic)")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "log every request and response")
	c.flags = pf

	root.AddCommand(
		newGetCmd(c),
		newPostCmd(c),
		newDownloadCmd(c),
		newUploadCmd(c),
	)

	return root
}

// service loads the configuration and builds a Service from it. Flags
// which were set on the command line override every other source.
func (c *cli) service() (*httpsvc.Service, error) {
	overrides := map[string]any{
		"log.format": "console",
		"log.level":  "warn",
	}
	changed := c.flags.Changed
	if changed("base-url") {
		overrides["server.baseurl"] = c.baseURL
	}
	if changed("token") {
		overrides["server.token"] = c.token
	}
	if changed("basic") {
		if changed("token") {
			return nil, errors.New("--token and --basic are mutually exclusive")
		}
		user, password, ok := strings.Cut(c.basic, ":")
		if !ok {
			return nil, errors.New("invalid --basic value: want user:password")
		}
		overrides["server.token"] = request.BasicCredentials(user, password)
	}
	if c.verbose {
		overrides["log.level"] = "info"
	}

	cfg, err := config.LoadWithOverrides(c.cfgPath, overrides)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	svc, err := cfg.Service(nil, c.stderr)
	if err != nil {
		return nil, fmt.Errorf("build service: %w", err)
	}
	return svc, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// parseParams parses name=value pairs into descriptor parameters.
func parseParams(pairs []string) (request.Params, error) {
	var ps request.Params
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid parameter %q: want name=value", pair)
		}
		ps = ps.Add(name, value)
	}
	return ps, nil
}

// report writes the response body to stdout, or describes the failure.
func (c *cli) report(body []byte, err error) error {
	if err != nil {
		var rerr *request.Error
		if errors.As(err, &rerr) && rerr.Kind == request.BadServerResponse && len(rerr.Body) > 0 {
			c.log.Error().Int("status", rerr.StatusCode).Bytes("body", rerr.Body).Msg("request failed")
		} else {
			c.log.Error().Err(err).Msg("request failed")
		}
		return err
	}
	_, err = c.stdout.Write(body)
	return err
}
