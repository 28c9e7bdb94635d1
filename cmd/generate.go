package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/UgwuGeorge/Past-Questions/internal/quiz"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate questions into the content pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		examName, _ := cmd.Flags().GetString("exam")
		subjectName, _ := cmd.Flags().GetString("subject")
		topic, _ := cmd.Flags().GetString("topic")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		count, _ := cmd.Flags().GetInt("count")

		log, err := newLogger(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		exam, err := s.Exams().GetOrCreate(ctx, examName, "")
		if err != nil {
			return err
		}
		subject, err := s.Exams().GetOrCreateSubject(ctx, exam.ID, subjectName)
		if err != nil {
			return err
		}

		bf, err := buildBackfill(ctx, s, log)
		if err != nil {
			return err
		}

		added, err := bf.Backfill(ctx, exam, subject, topic, quiz.Difficulty(difficulty), count)
		if err != nil {
			return err
		}
		fmt.Printf("Added %d of %d requested question(s) for %s / %s.\n", added, count, exam.Name, subject.Name)
		return nil
	},
}

func init() {
	generateCmd.Flags().String("exam", "", "Exam name")
	generateCmd.Flags().String("subject", "", "Subject name")
	generateCmd.Flags().String("topic", "", "Topic label")
	generateCmd.Flags().String("difficulty", "medium", "Difficulty tier (easy|medium|hard)")
	generateCmd.Flags().Int("count", 5, "How many questions to generate")
	_ = generateCmd.MarkFlagRequired("exam")
	_ = generateCmd.MarkFlagRequired("subject")
}
