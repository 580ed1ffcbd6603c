package mock

import "github.com/fwojciec/mdclip"

var (
	_ mdclip.Cleaner   = (*Cleaner)(nil)
	_ mdclip.Harvester = (*Harvester)(nil)
	_ mdclip.Sanitizer = (*Sanitizer)(nil)
)

// Cleaner is a mock implementation of mdclip.Cleaner.
type Cleaner struct {
	CleanFn func(html string) (string, error)
}

func (c *Cleaner) Clean(html string) (string, error) {
	return c.CleanFn(html)
}

// Harvester is a mock implementation of mdclip.Harvester.
type Harvester struct {
	HarvestFn func(html, pageURL string, guess *mdclip.ExtractResult) (*mdclip.Signals, error)
}

func (h *Harvester) Harvest(html, pageURL string, guess *mdclip.ExtractResult) (*mdclip.Signals, error) {
	return h.HarvestFn(html, pageURL, guess)
}

// Sanitizer is a mock implementation of mdclip.Sanitizer.
type Sanitizer struct {
	SanitizeFn func(fragment string) (string, error)
}

func (s *Sanitizer) Sanitize(fragment string) (string, error) {
	return s.SanitizeFn(fragment)
}
