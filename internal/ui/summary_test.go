package ui

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/omarbz2001/MA-PCM/internal/session"
	"github.com/omarbz2001/MA-PCM/internal/trial"
)

func TestMain(m *testing.M) {
	// Pin the color profile so rendered output is deterministic in CI.
	lipgloss.SetColorProfile(termenv.TrueColor)
	os.Exit(m.Run())
}

func storedSession() *session.Session {
	return &session.Session{
		ID:           3,
		CreatedAt:    time.Date(2026, 8, 25, 10, 0, 5, 0, time.UTC),
		TSPFile:      "data/dj38.tsp",
		Cities:       38,
		SolverPath:   "./parallel_tsp",
		Runner:       "local",
		ThreadCounts: []int{2, 4, 8},
		Times:        []float64{1.0, 0.6, 0.4},
		PlotPath:     "plots/parallel_time_dj38_38.png",
		Host:         trial.HostInfo{Hostname: "bench-01", OS: "linux", Arch: "amd64", CPUs: 8},
	}
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(storedSession())

	assert.Contains(t, out, "=== DONE ===")
	assert.Contains(t, out, "[2, 4, 8]")
	assert.Contains(t, out, "[1.0, 0.6, 0.4]")
	assert.Contains(t, out, "plots/parallel_time_dj38_38.png")
}

func TestRenderHistoryTable(t *testing.T) {
	out := RenderHistoryTable([]*session.Session{storedSession()})

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "THREADS")
	assert.Contains(t, out, "data/dj38.tsp")
	assert.Contains(t, out, "2026-08-25 10:00:05")
	assert.Contains(t, out, "[2, 4, 8]")
}

func TestRenderHistoryTable_Empty(t *testing.T) {
	out := RenderHistoryTable(nil)
	assert.Equal(t, "No sessions recorded yet.\n", out)
}

func TestRenderSessionDetail(t *testing.T) {
	out := RenderSessionDetail(storedSession())

	assert.Contains(t, out, "Session 3")
	assert.Contains(t, out, "on bench-01 (linux/amd64, 8 CPUs)")
	assert.Contains(t, out, "./parallel_tsp")
	assert.Contains(t, out, "[1.0, 0.6, 0.4]")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short.tsp", truncate("short.tsp", 24))
	long := "benchmarks/instances/very/deep/path/dj38.tsp"
	got := truncate(long, 24)
	assert.Len(t, got, 24)
	assert.True(t, strings.HasPrefix(got, "..."))
	assert.True(t, strings.HasSuffix(got, "dj38.tsp"))
}
