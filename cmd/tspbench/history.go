package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/omarbz2001/MA-PCM/internal/session"
	"github.com/omarbz2001/MA-PCM/internal/ui"
)

var askOne = survey.AskOne

var (
	historyLimit int
	historyPick  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored benchmark sessions",
	Long: `Lists sessions persisted with --save, newest first. With --pick, an
interactive prompt selects one session and prints its detail.`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of sessions to list")
	historyCmd.Flags().BoolVar(&historyPick, "pick", false, "Interactively pick a session to inspect")
}

func runHistory(cmd *cobra.Command, args []string) error {
	st, err := newStoreFunc()
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer st.Close()

	sessions, err := st.ListSessions(historyLimit)
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}

	if !historyPick {
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderHistoryTable(sessions))
		return nil
	}

	if len(sessions) == 0 {
		cmd.Println("No sessions recorded yet.")
		return nil
	}

	var displays []string
	byDisplay := make(map[string]*session.Session)
	for _, s := range sessions {
		display := fmt.Sprintf("%-4d %s  %s (%d cities, %s)",
			s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.TSPFile, s.Cities, session.FormatThreads(s.ThreadCounts))
		displays = append(displays, display)
		byDisplay[display] = s
	}

	var selected string
	prompt := &survey.Select{
		Message:  "Select a session:",
		Options:  displays,
		PageSize: 15,
	}
	if err := askOne(prompt, &selected); err != nil {
		if err.Error() == "interrupt" {
			return nil // User cancelled
		}
		return fmt.Errorf("failed to select session: %w", err)
	}

	fmt.Fprint(cmd.OutOrStdout(), ui.RenderSessionDetail(byDisplay[selected]))
	return nil
}
