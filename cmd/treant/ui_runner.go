package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"treant/internal/driver"
	"treant/internal/ir"
	"treant/internal/ui"
)

type runOutcome struct {
	units []*driver.Unit
	err   error
}

// runWithUI runs every module while a progress view renders on stderr.
func runWithUI(ctx context.Context, title string, opts driver.Options, modules []*ir.Module) ([]*driver.Unit, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		units, err := driver.New(opts).RunAll(ctx, modules)
		outcomeCh <- runOutcome{units: units, err: err}
		close(events)
	}()

	names := make([]string, 0, len(modules))
	for _, m := range modules {
		names = append(names, m.Name)
	}
	model := ui.NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// keep the producer from blocking on a full channel
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.units, uiErr
	}
	return outcome.units, outcome.err
}
