package rod

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultTabs matches the default batch concurrency.
const DefaultTabs = 4

// browser is one Chrome process with a bounded pool of reusable tabs. A
// clip holds a tab from navigation until the rendered HTML is captured, so
// the pool size caps how many pages render at once.
type browser struct {
	launcher *launcher.Launcher
	conn     *rod.Browser
	tabs     rod.Pool[rod.Page]
}

type browserConfig struct {
	tabs     int
	headless bool
	bin      string
}

// launch starts Chrome. Background throttling is disabled so page timers
// keep firing during the settle delay even when the tab is not focused.
func launch(cfg browserConfig) (*browser, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(cfg.headless)
	if cfg.bin != "" {
		l = l.Bin(cfg.bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	conn := rod.New().ControlURL(controlURL)
	if err := conn.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	tabs := cfg.tabs
	if tabs <= 0 {
		tabs = DefaultTabs
	}

	return &browser{
		launcher: l,
		conn:     conn,
		tabs:     rod.NewPagePool(tabs),
	}, nil
}

// acquire takes a tab from the pool, opening one if the slot is empty.
// It blocks while every tab is busy.
func (b *browser) acquire(ctx context.Context) (*rod.Page, error) {
	var page *rod.Page
	select {
	case page = <-b.tabs:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if page != nil {
		return page, nil
	}

	page, err := b.conn.Page(proto.TargetCreateTarget{})
	if err != nil {
		b.tabs.Put(nil)
		return nil, err
	}
	return page, nil
}

// release returns a tab to the pool. A tab that failed mid-clip may still
// be loading or stuck in a dialog, so it is closed and its slot reopened
// lazily. A healthy tab is parked on about:blank to stop the old page's
// scripts.
func (b *browser) release(page *rod.Page, healthy bool) {
	if healthy && page.Navigate("about:blank") != nil {
		healthy = false
	}
	if !healthy {
		_ = page.Close()
		page = nil
	}
	b.tabs.Put(page)
}

// close shuts down every tab, the browser and its process.
func (b *browser) close() error {
	b.tabs.Cleanup(func(p *rod.Page) { _ = p.Close() })
	err := b.conn.Close()
	b.launcher.Kill()
	return err
}

// pid returns the process ID of the browser launcher.
func (b *browser) pid() int {
	return b.launcher.PID()
}
