package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/mdclip"
	"github.com/fwojciec/mdclip/batch"
)

// Extraction engines selectable with --engine.
const (
	EngineReadability = "readability"
	EngineTrafilatura = "trafilatura"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Out         string        `short:"o" default:"." help:"Directory to save markdown files in"`
	Engine      string        `short:"e" enum:"readability,trafilatura" default:"readability" help:"Content extraction engine (readability, trafilatura)"`
	JS          bool          `name:"js" help:"Render pages in headless Chrome before clipping"`
	Settle      time.Duration `default:"500ms" help:"Extra wait after page load when rendering with --js"`
	Timeout     time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	Concurrency int           `short:"c" default:"4" help:"Concurrent clip limit"`
	Rate        float64       `default:"1" help:"Requests per second per domain (0 disables limiting)"`
	Stdout      bool          `help:"Print markdown to stdout instead of writing files"`
	Verbose     bool          `short:"v" help:"Log pipeline diagnostics to stderr"`
	URLs        []string      `arg:"" name:"url" help:"Page URLs to clip"`
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	// Status receives progress lines. It is stderr when markdown goes to stdout.
	Status io.Writer

	Runner *batch.Runner
}

// ClipCmd clips the given URLs.
type ClipCmd struct {
	URLs []string
}

// Run executes the clip command.
func (c *ClipCmd) Run(deps *Dependencies) error {
	status := deps.Status
	if status == nil {
		status = deps.Stdout
	}

	progress := func(p mdclip.ClipProgress) {
		if p.Error != nil {
			fmt.Fprintf(deps.Stderr, "skip %s: %s\n", p.URL, describe(p.Error))
			return
		}
		fmt.Fprintf(status, "[%d/%d] %s\n", p.Completed, p.Total, p.Path)
	}

	result, err := deps.Runner.Run(deps.Ctx, c.URLs, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", describe(err))
		return err
	}

	fmt.Fprintf(status, "Saved %d of %d pages\n", result.Saved, len(c.URLs))
	if result.Failed > 0 {
		return fmt.Errorf("failed to clip %d of %d pages", result.Failed, len(c.URLs))
	}
	return nil
}

// describe returns the human-readable message of an application error, or
// the full error text otherwise.
func describe(err error) string {
	var e *mdclip.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
