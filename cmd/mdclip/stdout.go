package main

import (
	"context"
	"io"
	"sync"

	"github.com/fwojciec/mdclip"
)

var _ mdclip.ResultWriter = (*stdoutWriter)(nil)

// stdoutWriter prints each result's markdown in one piece so concurrent
// clips never interleave.
type stdoutWriter struct {
	mu      sync.Mutex
	w       io.Writer
	written int
}

func newStdoutWriter(w io.Writer) *stdoutWriter {
	return &stdoutWriter{w: w}
}

func (s *stdoutWriter) WriteResult(ctx context.Context, result *mdclip.Result) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.written > 0 {
		if _, err := io.WriteString(s.w, "\n"); err != nil {
			return "", err
		}
	}
	if _, err := io.WriteString(s.w, result.Markdown); err != nil {
		return "", err
	}
	s.written++
	return "-", nil
}
