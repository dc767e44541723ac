package app

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"fdprog/internal/config"
	"fdprog/internal/report"
	"fdprog/internal/watch"
)

// Options configures the top-level controller.
type Options struct {
	Config config.Config

	// Out receives report lines. Default: os.Stdout.
	Out io.Writer
}

// App wires the collector, the snapshot store and the reporter together.
type App struct {
	cfg      config.Config
	scanner  *watch.Scanner
	reporter *report.Reporter
}

// New constructs the shared controller facade.
func New(opts Options) *App {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	sc := &watch.Scanner{
		PIDs:           opts.Config.PIDs,
		Commands:       opts.Config.Commands,
		IgnorePrefixes: opts.Config.Ignore,
	}
	if opts.Config.Verbose {
		sc.Debug = log.New(os.Stderr, "fdprog: ", log.LstdFlags)
	}
	return &App{
		cfg:      opts.Config,
		scanner:  sc,
		reporter: &report.Reporter{Out: out},
	}
}

// Scanner exposes the configured collector; the monitor mode drives it on
// its own tick.
func (a *App) Scanner() *watch.Scanner {
	return a.scanner
}

// Interval returns the configured poll interval.
func (a *App) Interval() time.Duration {
	return a.cfg.Interval
}

// Baseline collects the first snapshot generation. Nothing is reported for
// it; it only seeds the store the loop diffs against.
func (a *App) Baseline() (*watch.Store, error) {
	snap, err := a.scanner.Collect()
	if err != nil {
		return nil, err
	}
	return watch.NewStore(snap), nil
}

// Watch runs the poll/diff/report loop until ctx is cancelled. Cancellation
// is coarse: the current cycle's output is whatever was already written.
func (a *App) Watch(ctx context.Context, store *watch.Store) error {
	ticker := time.NewTicker(a.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := a.poll(store); err != nil {
				return err
			}
		}
	}
}

// Once performs a single two-snapshot pass separated by one interval,
// reports the diff, and returns.
func (a *App) Once(ctx context.Context) error {
	store, err := a.Baseline()
	if err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return nil
	case <-time.After(a.cfg.Interval):
	}
	return a.poll(store)
}

func (a *App) poll(store *watch.Store) error {
	snap, err := a.scanner.Collect()
	if err != nil {
		return err
	}
	a.reporter.Report(store.Advance(snap))
	return nil
}
