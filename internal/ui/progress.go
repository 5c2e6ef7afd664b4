package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/omarbz2001/MA-PCM/internal/session"
)

// ProgressModel is the live view of a running benchmark session. It is
// fed session events over a channel and quits on completion or failure.
type ProgressModel struct {
	TSPFile string
	Cities  int

	Quitting bool
	Finished bool
	Failed   bool
	Err      error
	PlotPath string

	events <-chan any
	cancel context.CancelFunc

	spinner  spinner.Model
	progress progress.Model
	total    int
	finished int
	threads  int
	done     []string
	width    int
}

// NewProgressModel builds the live view for one session. cancel is called
// when the user quits early, so the trial loop stops with the UI.
func NewProgressModel(tspFile string, cities, total int, events <-chan any, cancel context.CancelFunc) ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ProgressModel{
		TSPFile:  tspFile,
		Cities:   cities,
		events:   events,
		cancel:   cancel,
		spinner:  s,
		progress: progress.New(progress.WithDefaultGradient()),
		total:    total,
	}
}

func (m ProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.Quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = msg.Width - 10
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case session.TrialStarted:
		m.threads = msg.Threads
		return m, waitForEvent(m.events)

	case session.TrialDone:
		m.finished++
		m.done = append(m.done, fmt.Sprintf("✓ %d threads: %s seconds", msg.Threads, session.FormatSeconds(msg.Seconds)))
		return m, waitForEvent(m.events)

	case session.Done:
		m.Finished = true
		m.PlotPath = msg.PlotPath
		return m, tea.Quit

	case session.Failed:
		m.Failed = true
		m.Err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

func (m ProgressModel) View() string {
	if m.Quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf("TSPBENCH  %s (%d cities)", m.TSPFile, m.Cities)) + "\n\n")

	for _, line := range m.done {
		s.WriteString(doneTrialStyle.Render(line) + "\n")
	}

	switch {
	case m.Failed:
		s.WriteString(errorStyle.Render("Benchmark failed") + "\n")
	case m.Finished:
		s.WriteString(successStyle.Render("All trials finished") + "\n")
	case m.threads > 0:
		s.WriteString(fmt.Sprintf("%s Running with %d threads... (trial %d/%d)\n",
			m.spinner.View(), m.threads, m.finished+1, m.total))
	default:
		s.WriteString(m.spinner.View() + " Starting...\n")
	}

	if m.total > 0 {
		percent := float64(m.finished) / float64(m.total)
		s.WriteString("\n" + m.progress.ViewAs(percent) + "\n")
	}

	s.WriteString(helpStyle.Render("(q) quit"))

	return s.String()
}

// waitForEvent relays one session event into the bubbletea loop.
func waitForEvent(events <-chan any) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}
