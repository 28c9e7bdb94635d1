package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/UgwuGeorge/Past-Questions/internal/quiz"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a learner's recent attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, _ := cmd.Flags().GetInt64("learner")
		last, _ := cmd.Flags().GetInt("last")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		report, err := buildScorer(s).ScoreLastN(cmd.Context(), learner, last)
		if err != nil {
			if errors.Is(err, quiz.ErrEmptyHistory) {
				fmt.Println("No attempts recorded yet.")
				return nil
			}
			return err
		}
		printReport(report)
		return nil
	},
}

func init() {
	scoreCmd.Flags().Int64("learner", 1, "Learner id")
	scoreCmd.Flags().Int("last", 20, "How many recent attempts to score")
}
