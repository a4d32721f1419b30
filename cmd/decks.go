package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashcards/internal/config"
	"github.com/abhisek/flashcards/internal/deck"
	"github.com/abhisek/flashcards/internal/report"
)

func newDecksCmd(cfg *config.Config) *cobra.Command {
	decksCmd := &cobra.Command{
		Use:   "decks",
		Short: "Inspect and manage saved decks",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved decks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			lib, err := e.library(cmd.Context())
			if err != nil {
				return err
			}
			printDeckList(cmd.OutOrStdout(), lib.List())
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the questions and ratings of a saved deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseDeckID(args[0])
			if err != nil {
				return err
			}
			e, err := openEnv(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			lib, err := e.library(cmd.Context())
			if err != nil {
				return err
			}
			d, err := lib.Get(id)
			if err != nil {
				return err
			}
			printDeck(cmd.OutOrStdout(), d)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseDeckID(args[0])
			if err != nil {
				return err
			}
			e, err := openEnv(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			lib, err := e.library(cmd.Context())
			if err != nil {
				return err
			}
			if err := lib.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted deck %d.\n", id)
			return nil
		},
	}

	decksCmd.AddCommand(listCmd, showCmd, deleteCmd)
	return decksCmd
}

func parseDeckID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid deck id %q", s)
	}
	return id, nil
}

func printDeckList(w io.Writer, decks []deck.SavedDeck) {
	if len(decks) == 0 {
		fmt.Fprintln(w, "No saved decks.")
		return
	}

	fmt.Fprintf(w, "%-14s  %-16s  %-24s  %-12s  %5s  %5s  %s\n",
		"ID", "Saved", "Name", "Level", "Cards", "Avg", "Grade")
	fmt.Fprintln(w, strings.Repeat("─", 92))

	for _, d := range decks {
		avg := report.AverageRating(d.Results)
		fmt.Fprintf(w, "%-14d  %-16s  %-24s  %-12s  %5d  %5s  %s\n",
			d.ID,
			d.SavedAt.Local().Format("2006-01-02 15:04"),
			clip(d.Name, 24),
			d.Level.Label(),
			len(d.Questions),
			report.FormatAverage(avg),
			report.GradeFor(avg).Letter,
		)
	}
}

func printDeck(w io.Writer, d deck.SavedDeck) {
	avg := report.AverageRating(d.Results)
	grade := report.GradeFor(avg)

	fmt.Fprintf(w, "%s (%s, %s)\n", d.Name, d.Topic, d.Level.Label())
	fmt.Fprintf(w, "Saved %s\n", d.SavedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Grade %s %s, average %s / 5, success rate %d%%\n\n",
		grade.Letter, grade.Label, report.FormatAverage(avg), report.SuccessRate(d.Results))

	ratings := make(map[string]float64, len(d.Results))
	for _, r := range d.Results {
		ratings[r.QuestionID] = r.Rating
	}
	for i, q := range d.Questions {
		rating := "  -"
		if r, ok := ratings[q.ID]; ok {
			rating = fmt.Sprintf("%3g", r)
		}
		fmt.Fprintf(w, "%2d. [%s] %s\n", i+1, rating, q.Text)
	}
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
