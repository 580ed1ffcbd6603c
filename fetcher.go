package mdclip

import "context"

// Fetcher retrieves page HTML from URLs.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch loads the URL and returns its HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// HiddenAttr marks elements a rendering fetcher found hidden by computed
// style. The cleanup filter removes marked elements.
const HiddenAttr = "data-mdclip-hidden"

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
