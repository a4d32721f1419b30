package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/flashcards/internal/config"
)

func Execute() error {
	return newRootCmd().Execute()
}

// newRootCmd builds the command tree. Every subcommand reads the
// configuration resolved in PersistentPreRunE.
func newRootCmd() *cobra.Command {
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "flashcards",
		Short: "Study flashcards graded by an AI backend",
		Long: "Flashcards generates a deck of questions on any topic, grades your free-text " +
			"answers and keeps your progress between runs.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			*cfg = *loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, cfg)
		},
	}

	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newDecksCmd(cfg))
	rootCmd.AddCommand(newSessionCmd(cfg))
	rootCmd.AddCommand(newResetCmd(cfg))
	rootCmd.AddCommand(newStatsCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}
