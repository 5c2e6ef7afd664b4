package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/omarbz2001/MA-PCM/internal/session"
)

// Build renders a recorded session as a markdown report with a metadata
// table and a per-trial results table.
func Build(s *session.Session) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Parallel TSP Benchmark: %s\n\n", s.TSPFile)

	if s.Host.Hostname != "" {
		fmt.Fprintf(&b, "Recorded %s on %s (%s/%s, %d CPUs).\n\n",
			s.CreatedAt.Format(time.RFC3339), s.Host.Hostname, s.Host.OS, s.Host.Arch, s.Host.CPUs)
	} else if !s.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Recorded %s.\n\n", s.CreatedAt.Format(time.RFC3339))
	}

	b.WriteString("## Session\n\n")
	b.WriteString("| Field | Value |\n")
	b.WriteString("|-------|-------|\n")
	if s.ID != 0 {
		fmt.Fprintf(&b, "| ID | %d |\n", s.ID)
	}
	fmt.Fprintf(&b, "| TSP file | %s |\n", s.TSPFile)
	fmt.Fprintf(&b, "| Cities | %d |\n", s.Cities)
	if s.SolverPath != "" {
		fmt.Fprintf(&b, "| Solver | %s |\n", s.SolverPath)
	}
	if s.Runner != "" {
		fmt.Fprintf(&b, "| Runner | %s |\n", s.Runner)
	}
	if s.PlotPath != "" {
		fmt.Fprintf(&b, "| Plot | %s |\n", s.PlotPath)
	}
	b.WriteString("\n")

	if len(s.Results) == 0 {
		b.WriteString("No trials were recorded.\n")
		return b.String()
	}

	base := s.Results[0]
	withDistance := false
	for _, r := range s.Results {
		if r.Stats.BestDistance > 0 {
			withDistance = true
			break
		}
	}

	b.WriteString("## Results\n\n")
	if withDistance {
		b.WriteString("| Threads | Time (s) | Speedup | Efficiency | Best distance |\n")
		b.WriteString("|--------:|---------:|--------:|-----------:|--------------:|\n")
	} else {
		b.WriteString("| Threads | Time (s) | Speedup | Efficiency |\n")
		b.WriteString("|--------:|---------:|--------:|-----------:|\n")
	}

	for _, r := range s.Results {
		speedupCell := "-"
		efficiencyCell := "-"
		if sp, ok := speedup(base.Seconds, r.Seconds); ok {
			speedupCell = fmt.Sprintf("%.2fx", sp)
			if r.Threads > 0 && base.Threads > 0 {
				eff := sp * float64(base.Threads) / float64(r.Threads) * 100
				efficiencyCell = fmt.Sprintf("%.1f%%", eff)
			}
		}

		if withDistance {
			distanceCell := "-"
			if r.Stats.BestDistance > 0 {
				distanceCell = strconv.FormatFloat(r.Stats.BestDistance, 'f', -1, 64)
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
				r.Threads, session.FormatSeconds(r.Seconds), speedupCell, efficiencyCell, distanceCell)
		} else {
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n",
				r.Threads, session.FormatSeconds(r.Seconds), speedupCell, efficiencyCell)
		}
	}

	fmt.Fprintf(&b, "\nSpeedup is relative to the first trial (%d threads).\n", base.Threads)

	return b.String()
}

// speedup compares a trial time against the session's first trial.
// Non-positive times have no meaningful ratio.
func speedup(base, t float64) (float64, bool) {
	if base <= 0 || t <= 0 {
		return 0, false
	}
	return base / t, true
}
