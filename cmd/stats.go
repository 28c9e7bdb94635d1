package cmd

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/UgwuGeorge/Past-Questions/internal/analytics"
	"github.com/UgwuGeorge/Past-Questions/internal/quiz"
	"github.com/UgwuGeorge/Past-Questions/internal/ui"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-topic accuracy for a learner",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, _ := cmd.Flags().GetInt64("learner")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		svc := analytics.NewService(s.Attempts())
		stats, err := svc.WeakTopics(ctx, learner)
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Println("No attempts recorded yet.")
			return nil
		}

		// Weakest first.
		topics := make([]string, 0, len(stats))
		for topic := range stats {
			topics = append(topics, topic)
		}
		sort.Slice(topics, func(i, j int) bool {
			ai, aj := stats[topics[i]].Accuracy(), stats[topics[j]].Accuracy()
			if ai != aj {
				return ai < aj
			}
			return topics[i] < topics[j]
		})

		fmt.Printf("%-24s  %-8s  %s\n", "Topic", "Correct", "Accuracy")
		for _, topic := range topics {
			ts := stats[topic]
			fmt.Printf("%-24s  %3d/%-4d  %5.1f%%\n", topic, ts.Correct, ts.Total, 100*ts.Accuracy())
		}

		if weakest, acc, err := svc.WeakestTopic(ctx, learner); err == nil {
			fmt.Println()
			fmt.Println(ui.Topic.Render(fmt.Sprintf("Weakest topic: %s (%.0f%%)", weakest, 100*acc)))
		} else if !errors.Is(err, quiz.ErrEmptyHistory) {
			return err
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int64("learner", 1, "Learner id")
}
