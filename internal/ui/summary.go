package ui

import (
	"fmt"
	"strings"

	"github.com/omarbz2001/MA-PCM/internal/session"
)

// RenderSummary renders the styled end-of-session block shown after the
// live TUI exits. The plain-output contract lines are printed by the
// session runner instead when the TUI is off.
func RenderSummary(s *session.Session) string {
	var b strings.Builder
	b.WriteString(successStyle.Render("=== DONE ===") + "\n")
	b.WriteString(labelStyle.Render("Threads:") + " " + session.FormatThreads(s.ThreadCounts) + "\n")
	b.WriteString(labelStyle.Render("Times:") + " " + session.FormatTimes(s.Times) + "\n")
	if s.PlotPath != "" {
		b.WriteString(labelStyle.Render("Plot:") + " " + s.PlotPath + "\n")
	}
	return b.String()
}

// RenderHistoryTable renders stored sessions, newest first, as a table.
func RenderHistoryTable(sessions []*session.Session) string {
	if len(sessions) == 0 {
		return "No sessions recorded yet.\n"
	}

	var b strings.Builder
	header := fmt.Sprintf("%-4s %-19s %-24s %6s  %-6s %s", "ID", "WHEN", "FILE", "CITIES", "RUNNER", "THREADS")
	b.WriteString(tableHeaderStyle.Render(header) + "\n")
	for _, s := range sessions {
		row := fmt.Sprintf("%-4d %-19s %-24s %6d  %-6s %s",
			s.ID,
			s.CreatedAt.Format("2006-01-02 15:04:05"),
			truncate(s.TSPFile, 24),
			s.Cities,
			s.Runner,
			session.FormatThreads(s.ThreadCounts))
		b.WriteString(tableRowStyle.Render(row) + "\n")
	}
	return b.String()
}

// RenderSessionDetail renders one stored session for the history picker.
func RenderSessionDetail(s *session.Session) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Session %d  %s (%d cities)", s.ID, s.TSPFile, s.Cities)) + "\n")
	b.WriteString(labelStyle.Render("Recorded:") + " " + s.CreatedAt.Format("2006-01-02 15:04:05"))
	if s.Host.Hostname != "" {
		fmt.Fprintf(&b, " on %s (%s/%s, %d CPUs)", s.Host.Hostname, s.Host.OS, s.Host.Arch, s.Host.CPUs)
	}
	b.WriteString("\n")
	if s.Runner != "" {
		b.WriteString(labelStyle.Render("Runner:") + " " + s.Runner + "\n")
	}
	if s.SolverPath != "" {
		b.WriteString(labelStyle.Render("Solver:") + " " + s.SolverPath + "\n")
	}
	b.WriteString(labelStyle.Render("Threads:") + " " + session.FormatThreads(s.ThreadCounts) + "\n")
	b.WriteString(labelStyle.Render("Times:") + " " + session.FormatTimes(s.Times) + "\n")
	if s.PlotPath != "" {
		b.WriteString(labelStyle.Render("Plot:") + " " + s.PlotPath + "\n")
	}
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
