package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/mdclip"
)

// Ensure LoggingResultWriter implements mdclip.ResultWriter.
var _ mdclip.ResultWriter = (*LoggingResultWriter)(nil)

// LoggingResultWriter wraps a ResultWriter with logging.
type LoggingResultWriter struct {
	next   mdclip.ResultWriter
	logger *slog.Logger
}

// NewLoggingResultWriter creates a new LoggingResultWriter.
func NewLoggingResultWriter(next mdclip.ResultWriter, logger *slog.Logger) *LoggingResultWriter {
	return &LoggingResultWriter{next: next, logger: logger}
}

// WriteResult logs where the result was written.
func (w *LoggingResultWriter) WriteResult(ctx context.Context, result *mdclip.Result) (path string, err error) {
	defer func(begin time.Time) {
		w.logger.Info("write",
			"file", result.FileName,
			"path", path,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WriteResult(ctx, result)
}
