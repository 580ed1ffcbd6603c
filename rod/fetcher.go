// Package rod implements mdclip.Fetcher with headless Chrome, for pages
// that render their content with JavaScript.
package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/mdclip"
	"github.com/go-rod/rod"
)

// DefaultFetchTimeout bounds a single page load.
const DefaultFetchTimeout = 10 * time.Second

// DefaultSettleDelay is how long a loaded page may keep injecting
// content before it is captured.
const DefaultSettleDelay = 500 * time.Millisecond

// markHiddenJS flags every body element hidden by computed style so the
// cleanup filter can drop it after the page leaves the browser.
const markHiddenJS = `(attr) => {
	for (const el of document.body.querySelectorAll('*')) {
		const style = window.getComputedStyle(el);
		if (style.display === 'none' || style.visibility === 'hidden') {
			el.setAttribute(attr, '');
		}
	}
}`

// Ensure Fetcher implements mdclip.Fetcher at compile time.
var _ mdclip.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines; concurrent
// fetches beyond the tab limit wait for a free tab.
type Fetcher struct {
	browser      *browser
	browserCfg   browserConfig
	fetchTimeout time.Duration
	settleDelay  time.Duration
	markHidden   bool
	closed       atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds each page load. Defaults to DefaultFetchTimeout.
// Time spent waiting for a free tab counts against it.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.fetchTimeout = d
	}
}

// WithSettleDelay sets the wait between page load and capture.
// Defaults to DefaultSettleDelay; zero captures right after load.
func WithSettleDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.settleDelay = d
	}
}

// WithMarkHidden controls whether computed-style-hidden elements are
// marked with mdclip.HiddenAttr. Enabled by default.
func WithMarkHidden(enabled bool) Option {
	return func(f *Fetcher) {
		f.markHidden = enabled
	}
}

// WithTabs sets how many pages may render at once. Defaults to DefaultTabs.
func WithTabs(n int) Option {
	return func(f *Fetcher) {
		f.browserCfg.tabs = n
	}
}

// WithHeadless toggles headless mode. Headless by default.
func WithHeadless(headless bool) Option {
	return func(f *Fetcher) {
		f.browserCfg.headless = headless
	}
}

// WithBrowserBin uses the Chrome binary at path instead of looking one up.
func WithBrowserBin(path string) Option {
	return func(f *Fetcher) {
		f.browserCfg.bin = path
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		browserCfg:   browserConfig{tabs: DefaultTabs, headless: true},
		fetchTimeout: DefaultFetchTimeout,
		settleDelay:  DefaultSettleDelay,
		markHidden:   true,
	}
	for _, opt := range opts {
		opt(f)
	}

	b, err := launch(f.browserCfg)
	if err != nil {
		return nil, err
	}
	f.browser = b

	return f, nil
}

// Fetch navigates a tab to the URL, lets the page settle, and returns the
// rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	if f.closed.Load() {
		return "", mdclip.Errorf(mdclip.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.fetchTimeout)
	defer cancel()

	tab, err := f.browser.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer func() { f.browser.release(tab, err == nil) }()

	return f.render(ctx, tab.Context(ctx), url)
}

func (f *Fetcher) render(ctx context.Context, page *rod.Page, url string) (string, error) {
	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	if f.settleDelay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.settleDelay):
		}
	}

	if f.markHidden {
		if _, err := page.Eval(markHiddenJS, mdclip.HiddenAttr); err != nil {
			return "", err
		}
	}

	return page.HTML()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.browser.pid()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.browser.close()
}
