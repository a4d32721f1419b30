package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashcards/internal/config"
)

func newResetCmd(cfg *config.Config) *cobra.Command {
	var all bool

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard the unfinished session, and with --all every saved deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := cmd.Context()
			if err := e.records.ClearSession(ctx); err != nil {
				return err
			}
			if all {
				if err := e.records.ClearDecks(ctx); err != nil {
					return err
				}
				e.logger.Info("saved decks cleared")
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared the session and all saved decks.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared the session.")
			return nil
		},
	}

	resetCmd.Flags().BoolVar(&all, "all", false, "also delete every saved deck")
	return resetCmd
}
