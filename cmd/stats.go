package cmd

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashcards/internal/config"
	"github.com/abhisek/flashcards/internal/deck"
	"github.com/abhisek/flashcards/internal/report"
)

func newStatsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show study statistics across saved decks",
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
			printStats(cmd.OutOrStdout(), lib.List())
			return nil
		},
	}
}

type topicStats struct {
	topic   string
	decks   int
	results []deck.AnswerResult
}

func printStats(w io.Writer, decks []deck.SavedDeck) {
	if len(decks) == 0 {
		fmt.Fprintln(w, "No saved decks yet.")
		return
	}

	var all []deck.AnswerResult
	byTopic := map[string]*topicStats{}
	for _, d := range decks {
		all = append(all, d.Results...)
		ts, ok := byTopic[d.Topic]
		if !ok {
			ts = &topicStats{topic: d.Topic}
			byTopic[d.Topic] = ts
		}
		ts.decks++
		ts.results = append(ts.results, d.Results...)
	}

	avg := report.AverageRating(all)
	grade := report.GradeFor(avg)
	fmt.Fprintf(w, "Decks saved:     %d\n", len(decks))
	fmt.Fprintf(w, "Cards answered:  %d\n", len(all))
	fmt.Fprintf(w, "Average rating:  %s / 5 (%s %s)\n", report.FormatAverage(avg), grade.Letter, grade.Label)
	fmt.Fprintf(w, "Success rate:    %d%%\n\n", report.SuccessRate(all))

	topics := make([]*topicStats, 0, len(byTopic))
	for _, ts := range byTopic {
		topics = append(topics, ts)
	}
	slices.SortFunc(topics, func(a, b *topicStats) int {
		if d := b.decks - a.decks; d != 0 {
			return d
		}
		if a.topic < b.topic {
			return -1
		}
		if a.topic > b.topic {
			return 1
		}
		return 0
	})

	fmt.Fprintf(w, "%-28s  %5s  %5s  %s\n", "Topic", "Decks", "Avg", "Grade")
	for _, ts := range topics {
		tavg := report.AverageRating(ts.results)
		fmt.Fprintf(w, "%-28s  %5d  %5s  %s\n",
			clip(ts.topic, 28), ts.decks, report.FormatAverage(tavg), report.GradeFor(tavg).Letter)
	}
}
