package mock

import (
	"context"

	"github.com/fwojciec/mdclip"
)

var (
	_ mdclip.Clipper      = (*Clipper)(nil)
	_ mdclip.ResultWriter = (*ResultWriter)(nil)
)

// Clipper is a mock implementation of mdclip.Clipper.
type Clipper struct {
	ClipFn func(ctx context.Context, page *mdclip.Page) (*mdclip.Result, error)
}

func (c *Clipper) Clip(ctx context.Context, page *mdclip.Page) (*mdclip.Result, error) {
	return c.ClipFn(ctx, page)
}

// ResultWriter is a mock implementation of mdclip.ResultWriter.
type ResultWriter struct {
	WriteResultFn func(ctx context.Context, result *mdclip.Result) (string, error)
}

func (w *ResultWriter) WriteResult(ctx context.Context, result *mdclip.Result) (string, error) {
	return w.WriteResultFn(ctx, result)
}
