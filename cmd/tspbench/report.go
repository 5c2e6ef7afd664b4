package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/omarbz2001/MA-PCM/internal/report"
)

var reportRaw bool

var reportCmd = &cobra.Command{
	Use:   "report <session-id>",
	Short: "Render a markdown report for a stored session",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().BoolVar(&reportRaw, "raw", false, "Print raw markdown without terminal styling")
}

func runReport(cmd *cobra.Command, args []string) error {
	st, err := newStoreFunc()
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer st.Close()

	s, err := getSessionByArg(st.GetSession, args[0])
	if err != nil {
		return err
	}

	md := report.Build(s)
	if reportRaw {
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	}

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	out, err := renderer.Render(md)
	if err != nil {
		// Fallback to plain text
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
