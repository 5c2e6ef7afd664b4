package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"

	"github.com/omarbz2001/MA-PCM/internal/session"
	"github.com/omarbz2001/MA-PCM/internal/telemetry"
	"github.com/omarbz2001/MA-PCM/internal/ui"
)

// progressProgram is the subset of *tea.Program the bridge uses, split
// out so tests can run without a terminal.
type progressProgram interface {
	Run() (tea.Model, error)
}

var newProgram = func(m tea.Model) progressProgram {
	return tea.NewProgram(m)
}

// runSessionTUI runs the trial loop in the background and drives the live
// progress view from its events. The plain contract lines are suppressed;
// a styled summary is printed once the session finishes.
func runSessionTUI(ctx context.Context, out io.Writer, r *session.Runner, tspFile string, cities int, threadCounts []int) (*session.Session, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The progress view owns the terminal while it runs; keep stderr
	// clear of log records until it exits.
	verbose, logFile := viper.GetBool("verbose"), viper.GetString("log.file")
	telemetry.InitLogger(verbose, logFile, true)
	defer telemetry.InitLogger(verbose, logFile, false)

	// Sized so the runner can finish emitting even after the view quits.
	events := make(chan any, 2*len(threadCounts)+2)
	r.Events = events
	r.Out = io.Discard

	type outcome struct {
		s   *session.Session
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		s, err := r.Run(ctx, tspFile, cities, threadCounts)
		done <- outcome{s: s, err: err}
	}()

	model := ui.NewProgressModel(tspFile, cities, len(threadCounts), events, cancel)
	if _, err := newProgram(model).Run(); err != nil {
		cancel()
		<-done
		return nil, fmt.Errorf("running progress view: %w", err)
	}

	res := <-done
	if res.err != nil {
		return nil, res.err
	}

	fmt.Fprint(out, ui.RenderSummary(res.s))
	return res.s, nil
}
