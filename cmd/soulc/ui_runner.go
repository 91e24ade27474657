package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"soul/internal/driver"
	"soul/internal/ui"
)

type checkOutcome struct {
	results []driver.UnitResult
	err     error
}

// runCheckWithUI runs CheckUnits while a progress view consumes its phase
// events.
func runCheckWithUI(ctx context.Context, paths []string, opts driver.Options) ([]driver.UnitResult, error) {
	events := make(chan ui.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	inner := opts.Observer
	opts.Observer = func(ev driver.PhaseEvent) {
		if inner != nil {
			inner(ev)
		}
		if ev.Status == driver.PhaseStart {
			events <- ui.Event{Unit: ev.Path, Pass: ev.Name, Status: ui.StatusWorking}
		}
	}

	go func() {
		results, err := driver.CheckUnits(ctx, paths, opts)
		for _, r := range results {
			if r.Result == nil {
				continue
			}
			status := ui.StatusDone
			if r.Result.Fatal {
				status = ui.StatusError
			}
			events <- ui.Event{Unit: r.Path, Status: status}
		}
		outcomeCh <- checkOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("checking", paths, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
