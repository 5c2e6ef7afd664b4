package notify

import (
	"fmt"

	"github.com/omarbz2001/MA-PCM/internal/session"
)

// SessionCompleteMessage renders the Slack text for a finished session.
func SessionCompleteMessage(s *session.Session) string {
	return fmt.Sprintf(
		":checkered_flag: Benchmark finished for %s (%d cities)\nThreads: %s\nTimes: %s\nPlot: %s",
		s.TSPFile, s.Cities,
		session.FormatThreads(s.ThreadCounts),
		session.FormatTimes(s.Times),
		s.PlotPath,
	)
}

// SessionFailedMessage renders the Slack text for an aborted session.
func SessionFailedMessage(tspFile string, cities int, err error) string {
	return fmt.Sprintf(
		":x: Benchmark failed for %s (%d cities): %v",
		tspFile, cities, err,
	)
}
