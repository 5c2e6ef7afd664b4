package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/omarbz2001/MA-PCM/internal/chart"
	"github.com/omarbz2001/MA-PCM/internal/telemetry"
	"github.com/omarbz2001/MA-PCM/internal/trial"
)

// ChartWriter renders a finished series to a file on disk.
type ChartWriter interface {
	WriteChart(threads []int, times []float64, path string) error
}

// Runner executes the trials of one session strictly one at a time, in
// the order the thread counts were given.
type Runner struct {
	Invoker    trial.Invoker
	Chart      ChartWriter
	Out        io.Writer
	PlotsDir   string
	SolverPath string
	// Label names the execution backend on the stored session
	// ("local", "docker", "k8s").
	Label string
	// Cutoff is forwarded to every trial; zero omits the argument.
	Cutoff int
	// Events receives TrialStarted/TrialDone/Done/Failed when non-nil.
	Events chan<- any
}

func (r *Runner) emit(ev any) {
	if r.Events != nil {
		r.Events <- ev
	}
}

// Run executes one trial per thread count. Duplicate counts are re-run,
// not cached, and results keep input order. The first trial whose time
// cannot be extracted aborts the session: the raw output is dumped to
// Out and no chart is written.
func (r *Runner) Run(ctx context.Context, tspFile string, cities int, threadCounts []int) (*Session, error) {
	s, err := r.run(ctx, tspFile, cities, threadCounts)
	if err != nil {
		r.emit(Failed{Err: err})
		return nil, err
	}
	r.emit(Done{PlotPath: s.PlotPath})
	return s, nil
}

func (r *Runner) run(ctx context.Context, tspFile string, cities int, threadCounts []int) (*Session, error) {
	s := &Session{
		CreatedAt:  time.Now().UTC(),
		TSPFile:    tspFile,
		Cities:     cities,
		SolverPath: r.SolverPath,
		Runner:     r.Label,
		Host:       trial.CollectHostInfo(),
	}

	telemetry.SetSessionActive(true)
	defer telemetry.SetSessionActive(false)

	for i, threads := range threadCounts {
		r.emit(TrialStarted{Index: i + 1, Total: len(threadCounts), Threads: threads})
		fmt.Fprintf(r.Out, "\nRunning with %d threads...\n", threads)
		slog.Info("Starting trial", "tsp_file", tspFile, "threads", threads)

		start := time.Now()
		out, err := r.Invoker.Invoke(ctx, trial.Request{
			TSPFile: tspFile,
			Cities:  cities,
			Threads: threads,
			Cutoff:  r.Cutoff,
		})
		if err != nil {
			telemetry.TrackTrial("launch_error")
			return nil, fmt.Errorf("running solver with %d threads: %w", threads, err)
		}

		seconds, err := trial.ExtractTime(out.Stdout)
		if err != nil {
			telemetry.TrackTrial("no_time")
			var extractErr *trial.ExtractionError
			if errors.As(err, &extractErr) {
				fmt.Fprintln(r.Out, "ERROR: Could not extract time from output")
				fmt.Fprintln(r.Out, extractErr.Output)
			}
			slog.Error("Trial produced no time line", "threads", threads)
			return nil, err
		}
		telemetry.TrackTrial("ok")
		telemetry.ObserveTrialDuration(threads, time.Since(start).Seconds())

		r.emit(TrialDone{Threads: threads, Seconds: seconds})
		fmt.Fprintf(r.Out, "Extracted time: %s seconds\n", FormatSeconds(seconds))
		slog.Info("Trial finished", "threads", threads, "seconds", seconds)

		s.ThreadCounts = append(s.ThreadCounts, threads)
		s.Times = append(s.Times, seconds)
		s.Results = append(s.Results, trial.Result{
			Threads: threads,
			Seconds: seconds,
			Stats:   trial.ExtractStats(out.Stdout),
		})
	}

	if err := chart.EnsureDir(r.PlotsDir); err != nil {
		return nil, err
	}
	plotPath := chart.OutputPath(r.PlotsDir, tspFile, cities)
	if err := r.Chart.WriteChart(s.ThreadCounts, s.Times, plotPath); err != nil {
		return nil, err
	}
	s.PlotPath = plotPath

	fmt.Fprintf(r.Out, "\n=== DONE ===\n")
	fmt.Fprintf(r.Out, "Threads: %s\n", FormatThreads(s.ThreadCounts))
	fmt.Fprintf(r.Out, "Times: %s\n", FormatTimes(s.Times))
	fmt.Fprintf(r.Out, "Plot saved to: %s\n", plotPath)

	return s, nil
}
