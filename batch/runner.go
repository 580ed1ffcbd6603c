// Package batch clips many URLs concurrently. Each URL is fetched with
// retry under a per-domain rate limit, run through an independent clip
// pipeline, and written out as soon as it completes.
package batch

import (
	"context"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/fwojciec/mdclip"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is used when Runner.Concurrency is not set.
const DefaultConcurrency = 4

// Runner clips a list of URLs.
type Runner struct {
	Fetcher     mdclip.Fetcher
	Clipper     mdclip.Clipper
	Writer      mdclip.ResultWriter
	RateLimiter mdclip.DomainLimiter
	Concurrency int
	RetryDelays []time.Duration
	Logger      *slog.Logger
}

// Result holds the outcome of a batch run.
type Result struct {
	Saved  int
	Failed int
	Bytes  int

	// Paths lists written paths in input order; failed URLs have "".
	Paths []string
}

// runResult holds the outcome of clipping a single URL.
type runResult struct {
	position int
	url      string
	path     string
	bytes    int
	err      error
}

// Run clips every URL. Per-URL failures are counted and reported through
// progress rather than aborting the batch. The returned error is non-nil
// only for invalid input or cancellation.
func (r *Runner) Run(ctx context.Context, urls []string, progress mdclip.ClipProgressFunc) (*Result, error) {
	if len(urls) == 0 {
		return nil, mdclip.Errorf(mdclip.EINVALID, "at least one URL required")
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan runResult, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range urls {
			g.Go(func() error {
				resultCh <- r.process(gctx, i, u)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	result := &Result{Paths: make([]string, len(urls))}
	var completed atomic.Int64
	total := len(urls)

	for res := range resultCh {
		n := int(completed.Add(1))
		if res.err != nil {
			result.Failed++
		} else {
			result.Saved++
			result.Bytes += res.bytes
			result.Paths[res.position] = res.path
		}
		if progress != nil {
			progress(mdclip.ClipProgress{
				URL:       res.url,
				Path:      res.path,
				Completed: n,
				Total:     total,
				Error:     res.err,
			})
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// process fetches, clips and writes a single URL.
func (r *Runner) process(ctx context.Context, position int, rawURL string) runResult {
	res := runResult{position: position, url: rawURL}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		res.err = mdclip.Errorf(mdclip.EINVALID, "invalid URL %q", rawURL)
		return res
	}

	if r.RateLimiter != nil {
		if err := r.RateLimiter.Wait(ctx, u.Host); err != nil {
			res.err = err
			return res
		}
	}

	delays := r.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetry(ctx, r.Fetcher, rawURL, delays, r.Logger)
	if err != nil {
		res.err = err
		return res
	}

	clipped, err := r.Clipper.Clip(ctx, &mdclip.Page{URL: rawURL, HTML: html})
	if err != nil {
		res.err = err
		return res
	}

	path, err := r.Writer.WriteResult(ctx, clipped)
	if err != nil {
		res.err = err
		return res
	}

	res.path = path
	res.bytes = len(clipped.Markdown)
	return res
}
