package session

import (
	"strconv"
	"strings"
	"time"

	"github.com/omarbz2001/MA-PCM/internal/trial"
)

// Session is one full harness run: the ordered thread counts, the
// ordered times extracted for them, and enough context to compare runs
// recorded on different machines.
type Session struct {
	ID           int64          `json:"id,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	TSPFile      string         `json:"tsp_file"`
	Cities       int            `json:"cities"`
	SolverPath   string         `json:"solver_path"`
	Runner       string         `json:"runner"`
	ThreadCounts []int          `json:"thread_counts"`
	Times        []float64      `json:"times"`
	Results      []trial.Result `json:"results"`
	PlotPath     string         `json:"plot_path,omitempty"`
	Host         trial.HostInfo `json:"host"`
}

// FormatSeconds renders a time the way the summary reports it: shortest
// decimal form, with whole numbers keeping one decimal (2 -> "2.0").
func FormatSeconds(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// FormatThreads renders a thread-count list as "[2, 4, 8]".
func FormatThreads(threads []int) string {
	parts := make([]string, len(threads))
	for i, t := range threads {
		parts[i] = strconv.Itoa(t)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FormatTimes renders a time list as "[1.0, 0.6, 0.4]".
func FormatTimes(times []float64) string {
	parts := make([]string, len(times))
	for i, v := range times {
		parts[i] = FormatSeconds(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
