package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/omarbz2001/MA-PCM/internal/session"
)

var compareThreshold float64

var compareCmd = &cobra.Command{
	Use:   "compare [base-id current-id]",
	Short: "Compare two stored sessions trial by trial",
	Long: `Compares two sessions persisted with --save. With no arguments the two
most recent sessions are compared, the older one as the baseline. Trials
are aligned by position; a positive diff means the current session was
slower.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().Float64Var(&compareThreshold, "threshold", 10.0, "Fail when any slowdown exceeds this percentage")
}

func runCompare(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return fmt.Errorf("compare takes zero or two session ids")
	}

	st, err := newStoreFunc()
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer st.Close()

	var base, current *session.Session
	if len(args) == 2 {
		if base, err = getSessionByArg(st.GetSession, args[0]); err != nil {
			return err
		}
		if current, err = getSessionByArg(st.GetSession, args[1]); err != nil {
			return err
		}
	} else {
		latest, err := st.ListSessions(2)
		if err != nil {
			return fmt.Errorf("listing sessions: %w", err)
		}
		if len(latest) < 2 {
			return fmt.Errorf("need at least two stored sessions to compare")
		}
		// ListSessions is newest first.
		base, current = latest[1], latest[0]
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Base:    session %d  %s (%s)\n", base.ID, base.TSPFile, base.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(out, "Current: session %d  %s (%s)\n\n", current.ID, current.TSPFile, current.CreatedAt.Format("2006-01-02 15:04"))

	if !equalThreads(base.ThreadCounts, current.ThreadCounts) {
		fmt.Fprintln(out, "Note: thread lists differ; trials are aligned by position.")
	}

	pairs := len(base.Results)
	if len(current.Results) < pairs {
		pairs = len(current.Results)
	}
	if pairs == 0 {
		return fmt.Errorf("nothing to compare: one of the sessions has no trials")
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "THREADS\tBASE (s)\tCURRENT (s)\tDIFF %\tSTATUS")

	worst := 0.0
	for i := 0; i < pairs; i++ {
		b, c := base.Results[i], current.Results[i]

		threadsCell := strconv.Itoa(c.Threads)
		if b.Threads != c.Threads {
			threadsCell = fmt.Sprintf("%d->%d", b.Threads, c.Threads)
		}

		if b.Seconds <= 0 {
			fmt.Fprintf(w, "%s\t%s\t%s\t-\t-\n", threadsCell, session.FormatSeconds(b.Seconds), session.FormatSeconds(c.Seconds))
			continue
		}

		diff := (c.Seconds - b.Seconds) / b.Seconds * 100
		if diff > worst {
			worst = diff
		}

		status := "SAME"
		if diff > compareThreshold {
			status = "SLOWER"
		} else if diff < -compareThreshold {
			status = "FASTER"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%+.2f%%\t%s\n",
			threadsCell, session.FormatSeconds(b.Seconds), session.FormatSeconds(c.Seconds), diff, status)
	}
	w.Flush()

	if cmd.Flags().Changed("threshold") && worst > compareThreshold {
		return fmt.Errorf("slowdown of %.2f%% exceeds threshold of %.1f%%", worst, compareThreshold)
	}
	return nil
}

func getSessionByArg(get func(int64) (*session.Session, error), arg string) (*session.Session, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid session id %q", arg)
	}
	return get(id)
}

func equalThreads(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
