package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashcards/internal/config"
	"github.com/abhisek/flashcards/internal/persistence"
	"github.com/abhisek/flashcards/internal/report"
)

func newSessionCmd(cfg *config.Config) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or discard the unfinished session",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the unfinished session, if any",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			snap, err := e.records.LoadSession(cmd.Context())
			if err != nil {
				return err
			}
			printSession(cmd.OutOrStdout(), snap)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Discard the unfinished session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.records.ClearSession(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session cleared.")
			return nil
		},
	}

	sessionCmd.AddCommand(showCmd, clearCmd)
	return sessionCmd
}

func printSession(w io.Writer, snap *persistence.Snapshot) {
	if snap == nil {
		fmt.Fprintln(w, "No unfinished session.")
		return
	}

	fmt.Fprintf(w, "%s (%s)\n", snap.Topic, snap.Level.Label())
	fmt.Fprintf(w, "Last saved %s\n", snap.Timestamp.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Card %d of %d, %d answered", snap.CurrentIndex+1, len(snap.Questions), len(snap.Results))
	if len(snap.Results) > 0 {
		fmt.Fprintf(w, ", average %s / 5", report.FormatAverage(report.AverageRating(snap.Results)))
	}
	fmt.Fprintln(w)
}
