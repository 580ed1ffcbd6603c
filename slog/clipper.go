package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/mdclip"
)

// Ensure LoggingClipper implements mdclip.Clipper.
var _ mdclip.Clipper = (*LoggingClipper)(nil)

// LoggingClipper wraps a Clipper with logging.
type LoggingClipper struct {
	next   mdclip.Clipper
	logger *slog.Logger
}

// NewLoggingClipper creates a new LoggingClipper.
func NewLoggingClipper(next mdclip.Clipper, logger *slog.Logger) *LoggingClipper {
	return &LoggingClipper{next: next, logger: logger}
}

// Clip logs the page, the produced file name and duration.
func (c *LoggingClipper) Clip(ctx context.Context, page *mdclip.Page) (result *mdclip.Result, err error) {
	defer func(begin time.Time) {
		var fileName string
		var size int
		if result != nil {
			fileName = result.FileName
			size = len(result.Markdown)
		}
		c.logger.Info("clip",
			"url", page.URL,
			"file", fileName,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Clip(ctx, page)
}
