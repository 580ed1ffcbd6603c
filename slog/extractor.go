package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/mdclip"
)

// Ensure LoggingExtractor implements mdclip.Extractor.
var _ mdclip.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   mdclip.Extractor
	name   string
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor. name identifies the
// wrapped engine in log lines.
func NewLoggingExtractor(next mdclip.Extractor, name string, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, name: name, logger: logger}
}

// Extract logs the outcome of the wrapped extraction.
func (e *LoggingExtractor) Extract(html, pageURL string, opts mdclip.ExtractOptions) (result *mdclip.ExtractResult, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("extract",
			"engine", e.name,
			"url", pageURL,
			"strip_classes", opts.StripClasses,
			"content", result.HasContent(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html, pageURL, opts)
}
