package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarbz2001/MA-PCM/internal/session"
)

func newTestProgressModel() ProgressModel {
	events := make(chan any, 16)
	return NewProgressModel("dj38.tsp", 38, 3, events, nil)
}

func TestProgressModel_Init(t *testing.T) {
	m := newTestProgressModel()
	assert.NotNil(t, m.Init())
}

func TestProgressModel_TrialFlow(t *testing.T) {
	m := newTestProgressModel()

	newModel, cmd := m.Update(session.TrialStarted{Index: 1, Total: 3, Threads: 2})
	m2 := newModel.(ProgressModel)
	assert.NotNil(t, cmd)
	assert.Contains(t, m2.View(), "Running with 2 threads... (trial 1/3)")

	newModel, _ = m2.Update(session.TrialDone{Threads: 2, Seconds: 1.0})
	m3 := newModel.(ProgressModel)
	assert.Equal(t, 1, m3.finished)
	assert.Contains(t, m3.View(), "✓ 2 threads: 1.0 seconds")
}

func TestProgressModel_Done(t *testing.T) {
	m := newTestProgressModel()

	newModel, cmd := m.Update(session.Done{PlotPath: "plots/parallel_time_dj38_38.png"})
	m2 := newModel.(ProgressModel)

	assert.True(t, m2.Finished)
	assert.Equal(t, "plots/parallel_time_dj38_38.png", m2.PlotPath)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Contains(t, m2.View(), "All trials finished")
}

func TestProgressModel_Failed(t *testing.T) {
	m := newTestProgressModel()

	newModel, cmd := m.Update(session.Failed{Err: errors.New("no time line")})
	m2 := newModel.(ProgressModel)

	assert.True(t, m2.Failed)
	assert.Error(t, m2.Err)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Contains(t, m2.View(), "Benchmark failed")
}

func TestProgressModel_QuitKeyCancelsSession(t *testing.T) {
	canceled := false
	events := make(chan any, 1)
	m := NewProgressModel("dj38.tsp", 38, 3, events, func() { canceled = true })

	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m2 := newModel.(ProgressModel)

	assert.True(t, m2.Quitting)
	assert.True(t, canceled)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m2.View())
}

func TestProgressModel_WindowSizeClampsBar(t *testing.T) {
	m := newTestProgressModel()

	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})
	m2 := newModel.(ProgressModel)
	assert.Equal(t, 80, m2.progress.Width)

	newModel, _ = m2.Update(tea.WindowSizeMsg{Width: 50, Height: 40})
	m3 := newModel.(ProgressModel)
	assert.Equal(t, 40, m3.progress.Width)
}

func TestWaitForEvent(t *testing.T) {
	events := make(chan any, 1)
	events <- session.TrialDone{Threads: 4, Seconds: 0.5}

	msg := waitForEvent(events)()
	assert.Equal(t, session.TrialDone{Threads: 4, Seconds: 0.5}, msg)
}
