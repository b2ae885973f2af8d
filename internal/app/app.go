// Package app wires the monitor pipeline and runs one invocation.
package app

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/mbeckert/heatpump-monitor/internal/config"
	"github.com/mbeckert/heatpump-monitor/internal/errorlist"
	"github.com/mbeckert/heatpump-monitor/internal/notify"
	"github.com/mbeckert/heatpump-monitor/internal/state"
)

// Fetcher retrieves the raw error list page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Notifier delivers the two report types.
type Notifier interface {
	NewErrors(ctx context.Context, records []errorlist.Record) error
	FetchFailure(ctx context.Context, cause error) error
}

// Store loads and saves the baseline.
type Store interface {
	Load() (state.Baseline, error)
	Save(records []errorlist.Record) error
}

// Outcome classifies a successfully completed invocation.
type Outcome int

// Run outcomes.
const (
	FirstRun Outcome = iota
	NoNewErrors
	NotifiedNewErrors
)

// App holds the collaborators for one invocation. Paths and settings are
// resolved by the caller; nothing here reads ambient globals.
type App struct {
	cfg      config.Config
	fetcher  Fetcher
	store    Store
	notifier Notifier
	log      *zap.Logger
	out      io.Writer
	errOut   io.Writer
}

// New assembles an App. out receives the human-readable status lines,
// errOut the failure diagnostics.
func New(
	cfg config.Config,
	fetcher Fetcher,
	store Store,
	notifier Notifier,
	log *zap.Logger,
	out, errOut io.Writer,
) *App {
	return &App{
		cfg:      cfg,
		fetcher:  fetcher,
		store:    store,
		notifier: notifier,
		log:      log,
		out:      out,
		errOut:   errOut,
	}
}

// Run executes one check-and-notify pass:
//
//  1. fetch and parse the error list; on failure, attempt a best-effort
//     failure report and fail the run regardless of that report's fate,
//  2. load the baseline; a missing file is a first run, which seeds the
//     baseline without notifying so pre-existing history is not reported,
//  3. diff against the baseline; nothing new means nothing to do and the
//     baseline file is intentionally left untouched,
//  4. otherwise send the report and persist the full current list only after
//     the send succeeded, so undelivered entries are retried next run.
//
// The returned error marks the invocation as failed; all diagnostics have
// already been written to errOut by then.
func (a *App) Run(ctx context.Context) (Outcome, error) {
	current, err := a.fetchCurrent(ctx)
	if err != nil {
		fmt.Fprintf(a.errOut, "ERROR: Could not fetch error list: %v\n", err)
		a.reportFetchFailure(ctx, err)
		return 0, fmt.Errorf("fetch error list: %w", err)
	}

	baseline, err := a.store.Load()
	if err != nil {
		fmt.Fprintf(a.errOut, "ERROR: Could not load baseline: %v\n", err)
		return 0, fmt.Errorf("load baseline: %w", err)
	}

	if baseline.Absent {
		if err := a.store.Save(current); err != nil {
			fmt.Fprintf(a.errOut, "ERROR: Could not save baseline: %v\n", err)
			return 0, fmt.Errorf("save baseline: %w", err)
		}
		fmt.Fprintf(a.out, "First run: saved %d existing entries. No email sent.\n", len(current))
		return FirstRun, nil
	}

	fresh := errorlist.NewSince(current, baseline.Keys)
	if len(fresh) == 0 {
		fmt.Fprintln(a.out, "No new errors.")
		return NoNewErrors, nil
	}

	if err := a.notifier.NewErrors(ctx, fresh); err != nil {
		fmt.Fprintf(a.errOut, "ERROR: Could not send email: %v\n", err)
		return 0, fmt.Errorf("send new error report: %w", err)
	}
	if err := a.store.Save(current); err != nil {
		fmt.Fprintf(a.errOut, "ERROR: Could not save baseline: %v\n", err)
		return 0, fmt.Errorf("save baseline: %w", err)
	}
	fmt.Fprintf(a.out, "Email sent: %d new error(s).\n", len(fresh))
	return NotifiedNewErrors, nil
}

// Simulate sends one synthetic entry through the real delivery path without
// touching the fetch/diff/state pipeline.
func (a *App) Simulate(ctx context.Context) error {
	if err := a.notifier.NewErrors(ctx, []errorlist.Record{notify.SimulateRecord()}); err != nil {
		fmt.Fprintf(a.errOut, "ERROR: Could not send simulation email: %v\n", err)
		return fmt.Errorf("simulation email: %w", err)
	}
	fmt.Fprintln(a.out, "Simulation: email sent with fake error entry.")
	return nil
}

func (a *App) fetchCurrent(ctx context.Context) ([]errorlist.Record, error) {
	body, err := a.fetcher.Fetch(ctx, a.cfg.Monitor.URL)
	if err != nil {
		return nil, err
	}
	records, err := errorlist.Parse(body)
	if err != nil {
		return nil, err
	}
	a.log.Debug("Parsed error list", zap.Int("records", len(records)))
	return records, nil
}

// reportFetchFailure is best effort; its own failure is logged but never
// changes the outcome of the run.
func (a *App) reportFetchFailure(ctx context.Context, cause error) {
	if err := a.notifier.FetchFailure(ctx, cause); err != nil {
		fmt.Fprintf(a.errOut, "ERROR: Could not send fetch error email: %v\n", err)
		a.log.Warn("Fetch failure report not delivered", zap.Error(err))
		return
	}
	fmt.Fprintln(a.out, "Fetch error notification email sent.")
}
