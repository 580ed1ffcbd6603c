package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/mdclip"
	"github.com/fwojciec/mdclip/batch"
	"github.com/fwojciec/mdclip/clip"
	"github.com/fwojciec/mdclip/fs"
	"github.com/fwojciec/mdclip/goquery"
	"github.com/fwojciec/mdclip/htmltomarkdown"
	mdhttp "github.com/fwojciec/mdclip/http"
	"github.com/fwojciec/mdclip/readability"
	"github.com/fwojciec/mdclip/rod"
	mdslog "github.com/fwojciec/mdclip/slog"
	"github.com/fwojciec/mdclip/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Fetcher replaces the fetcher selected by flags. Set before calling Run().
	Fetcher mdclip.Fetcher

	// Now replaces the pipeline clock. Set before calling Run().
	Now func() time.Time
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("mdclip"),
		kong.Description("Clip web pages to Markdown files"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	logger := newLogger(stderr, cli.Verbose)

	// Wire dependencies
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	fetcher := m.Fetcher
	if fetcher == nil {
		fetcher, err = newFetcher(cli)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --js")
			return fmt.Errorf("failed to start browser: %w", err)
		}
	}
	fetcher = mdslog.NewLoggingFetcher(fetcher, logger)
	defer fetcher.Close()

	pipeline := &clip.Pipeline{
		Cleaner:   goquery.NewCleaner(goquery.WithCleanerLogger(logger)),
		Harvester: goquery.NewHarvester(goquery.WithHarvesterLogger(logger)),
		Extractor: mdslog.NewLoggingExtractor(newExtractor(cli.Engine), cli.Engine, logger),
		Fallback:  mdslog.NewLoggingExtractor(goquery.NewBodyExtractor(), "body", logger),
		Sanitizer: goquery.NewSanitizer(goquery.WithSanitizerLogger(logger)),
		Converter: htmltomarkdown.NewConverter(),
		Logger:    logger,
		Now:       m.Now,
	}

	var writer mdclip.ResultWriter
	if cli.Stdout {
		writer = newStdoutWriter(stdout)
		deps.Status = stderr
	} else {
		writer = fs.NewWriter(cli.Out)
		deps.Status = stdout
	}

	deps.Runner = &batch.Runner{
		Fetcher:     fetcher,
		Clipper:     mdslog.NewLoggingClipper(pipeline, logger),
		Writer:      mdslog.NewLoggingResultWriter(writer, logger),
		RateLimiter: batch.NewDomainLimiter(cli.Rate),
		Concurrency: cli.Concurrency,
		Logger:      logger,
	}

	cmd := &ClipCmd{URLs: cli.URLs}
	return cmd.Run(deps)
}

// newLogger returns a text logger on w. Pipeline diagnostics are only
// shown in verbose mode.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newFetcher(cli *CLI) (mdclip.Fetcher, error) {
	if cli.JS {
		return rod.NewFetcher(
			rod.WithFetchTimeout(cli.Timeout),
			rod.WithSettleDelay(cli.Settle),
			rod.WithTabs(cli.Concurrency),
		)
	}
	return mdhttp.NewFetcher(mdhttp.WithTimeout(cli.Timeout)), nil
}

func newExtractor(engine string) mdclip.Extractor {
	if engine == EngineTrafilatura {
		return trafilatura.NewExtractor()
	}
	return readability.NewExtractor()
}
