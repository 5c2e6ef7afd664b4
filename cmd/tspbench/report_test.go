package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRawMarkdown(t *testing.T) {
	m := newMemStore()
	m.sessions[7] = storedSession(7, time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC), []int{1, 2, 4}, []float64{2.0, 1.1, 0.55})
	useMemStore(t, m)

	out, err := executeCommand(rootCmd, "report", "7", "--raw")
	require.NoError(t, err)

	assert.Contains(t, out, "# Parallel TSP Benchmark: dj38.tsp")
	assert.Contains(t, out, "| ID | 7 |")
	assert.Contains(t, out, "## Results")
	assert.Contains(t, out, "| 2 | 1.1 | 1.82x | 90.9% |")
	assert.Contains(t, out, "| 4 | 0.55 | 3.64x | 90.9% |")
	assert.Contains(t, out, "Speedup is relative to the first trial (1 threads).")
}

func TestReportRenderedOutput(t *testing.T) {
	m := newMemStore()
	m.sessions[3] = storedSession(3, time.Date(2026, 8, 21, 9, 0, 0, 0, time.UTC), []int{2, 4}, []float64{1.0, 0.6})
	useMemStore(t, m)

	out, err := executeCommand(rootCmd, "report", "3")
	require.NoError(t, err)

	// Glamour reflows the markdown but keeps the text.
	assert.Contains(t, out, "Parallel TSP Benchmark")
	assert.Contains(t, out, "dj38.tsp")
}

func TestReportErrors(t *testing.T) {
	useMemStore(t, newMemStore())

	_, err := executeCommand(rootCmd, "report", "42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session 42 not found")

	_, err = executeCommand(rootCmd, "report", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid session id "abc"`)
}
