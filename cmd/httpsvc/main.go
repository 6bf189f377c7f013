// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command httpsvc calls an HTTP API from the command line using an
// httpsvc.Service configured from a file, the environment and flags.
package main

import (
	"os"
)

func main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
