// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// A FileTokenSource reads its token from a file, and after Watch is
// called, re-reads it whenever the file is written or replaced.
//
// Surrounding whitespace is trimmed from the file contents. If a reload
// fails, the previous token is kept and the failure is reported to
// OnError, if set.
type FileTokenSource struct {
	MemoryTokenSource

	// OnError, if not nil, is called with every reload or watch error.
	OnError func(error)

	path string
}

// NewFileTokenSource returns a FileTokenSource for path, loaded with the
// file's current contents.
func NewFileTokenSource(path string) (*FileTokenSource, error) {
	s := &FileTokenSource{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the token file path.
func (s *FileTokenSource) Path() string {
	return s.path
}

// Reload re-reads the token file.
func (s *FileTokenSource) Reload() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("httpsvc/server: read token file: %w", err)
	}
	s.SetToken(strings.TrimSpace(string(b)))
	return nil
}

// Watch starts following the token file. The file's directory is
// watched, so that editors and secret managers which replace the file
// rather than write it in place are followed too. The watch is active
// when Watch returns, and ends when ctx is done.
func (s *FileTokenSource) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("httpsvc/server: create watcher: %w", err)
	}
	if err = watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("httpsvc/server: watch %s: %w", s.path, err)
	}

	go s.run(ctx, watcher)
	return nil
}

func (s *FileTokenSource) run(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()
	name := filepath.Base(s.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := s.Reload(); err != nil {
				s.report(err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.report(err)
		}
	}
}

func (s *FileTokenSource) report(err error) {
	if s.OnError != nil {
		s.OnError(err)
	}
}
