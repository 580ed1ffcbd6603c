// Package clip runs the extraction pipeline that turns a loaded page into
// a Markdown document and a file name.
package clip

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/mdclip"
	"github.com/google/uuid"
)

// Ensure Pipeline implements mdclip.Clipper at compile time.
var _ mdclip.Clipper = (*Pipeline)(nil)

// Pipeline wires the clip stages together. Every stage reads the page as an
// immutable string and parses its own copy, so the metadata pass always
// sees the pristine page no matter what cleanup removes.
//
// A Pipeline holds no per-page state and may be shared by concurrent calls.
type Pipeline struct {
	Cleaner   mdclip.Cleaner
	Harvester mdclip.Harvester
	Extractor mdclip.Extractor

	// Fallback is consulted when Extractor fails or finds no content.
	// It is run against the raw page.
	Fallback mdclip.Extractor

	Sanitizer mdclip.Sanitizer
	Converter mdclip.Converter

	// Logger receives per-stage diagnostics. Nil discards them.
	Logger *slog.Logger

	// Now returns the current time. Nil means time.Now.
	Now func() time.Time
}

// Clip runs the pipeline against page. It returns a Result only when both
// the Markdown and the file name were fully built.
func (p *Pipeline) Clip(ctx context.Context, page *mdclip.Page) (*mdclip.Result, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	logger := p.logger().With("run", uuid.NewString(), "url", page.URL)
	now := p.now()

	// Metadata pass over the pristine page.
	guess := p.guess(logger, page)
	signals, err := p.Harvester.Harvest(page.HTML, page.URL, guess)
	if err != nil {
		return nil, err
	}
	meta := mdclip.Resolve(signals, now)
	logger.Debug("resolved metadata", "title", meta.Title, "site", meta.SiteName)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Content pass over a cleaned copy.
	cleaned, err := p.Cleaner.Clean(page.HTML)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fragment, err := p.content(logger, page, cleaned)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := p.Converter.Convert(fragment, page.URL)
	if err != nil {
		return nil, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, mdclip.Errorf(mdclip.ENOCONTENT, "no content found on %s", page.URL)
	}

	return &mdclip.Result{
		Markdown: mdclip.FormatMarkdown(meta, page.URL, now, body+"\n"),
		FileName: mdclip.FileName(meta.Title, meta.SiteName),
	}, nil
}

// guess returns the extractor's metadata guess for the pristine page, or
// the fallback's when the extractor has none. A guess is optional: nil
// means the harvester relies on the page alone.
func (p *Pipeline) guess(logger *slog.Logger, page *mdclip.Page) *mdclip.ExtractResult {
	result, err := p.Extractor.Extract(page.HTML, page.URL, mdclip.MetadataExtractOptions)
	if err == nil && result.HasContent() {
		return result
	}
	logger.Debug("metadata extraction found no content", "err", err)

	fallback, err := p.Fallback.Extract(page.HTML, page.URL, mdclip.MetadataExtractOptions)
	if err != nil {
		logger.Debug("fallback metadata extraction failed", "err", err)
		return nil
	}
	return fallback
}

// content returns the sanitized main-content fragment, falling back to the
// page body when the extractor's fragment is missing or sanitizes to
// nothing.
func (p *Pipeline) content(logger *slog.Logger, page *mdclip.Page, cleaned string) (string, error) {
	result, err := p.Extractor.Extract(cleaned, page.URL, mdclip.ContentExtractOptions)
	if err == nil && result.HasContent() {
		fragment, err := p.Sanitizer.Sanitize(result.ContentHTML)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(fragment) != "" {
			return fragment, nil
		}
	}
	logger.Info("extractor found no content, using page body", "err", err)

	result, err = p.Fallback.Extract(page.HTML, page.URL, mdclip.ContentExtractOptions)
	if err != nil {
		return "", err
	}
	if !result.HasContent() {
		return "", mdclip.Errorf(mdclip.ENOCONTENT, "no content found on %s", page.URL)
	}
	fragment, err := p.Sanitizer.Sanitize(result.ContentHTML)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(fragment) == "" {
		return "", mdclip.Errorf(mdclip.ENOCONTENT, "no content found on %s", page.URL)
	}
	return fragment, nil
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.Logger
}

func (p *Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}
