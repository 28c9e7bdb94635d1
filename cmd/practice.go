package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/UgwuGeorge/Past-Questions/internal/quiz"
	"github.com/UgwuGeorge/Past-Questions/internal/scoring"
	"github.com/UgwuGeorge/Past-Questions/internal/ui"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Interactive adaptive drill",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, _ := cmd.Flags().GetInt64("learner")
		examName, _ := cmd.Flags().GetString("exam")
		if examName == "" {
			return errors.New("--exam is required")
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		exam, err := s.Exams().ByName(ctx, examName)
		if err != nil {
			return fmt.Errorf("exam %q: %w", examName, err)
		}

		engine := buildEngine(s, cfg)
		scanner := bufio.NewScanner(os.Stdin)
		var session []quiz.Attempt

		fmt.Println(ui.Title.Render("pastq practice — " + exam.Name))
		fmt.Println(ui.Hint.Render("Answer with the option letter. Type 'stop' to finish."))

		for {
			q, err := engine.NextQuestion(ctx, learner, exam.ID)
			if err != nil {
				if errors.Is(err, quiz.ErrNotFound) {
					fmt.Println(ui.Hint.Render("No questions available for this exam."))
					break
				}
				return err
			}

			fmt.Println()
			fmt.Println(ui.Question.Render(renderQuestion(q)))

			answer, stop := readAnswer(scanner, q)
			if stop {
				break
			}

			correct := answer != nil && answer.Correct
			attempt, err := engine.LogAttempt(ctx, learner, q.ID, correct)
			if err != nil {
				return err
			}
			session = append(session, *attempt)

			if correct {
				fmt.Println(ui.Correct.Render("Correct!"))
			} else if cc := q.CorrectChoice(); cc != nil {
				fmt.Println(ui.Wrong.Render(fmt.Sprintf("Not quite. The answer is %s) %s", cc.Label, cc.Text)))
			}
			if q.Explanation != "" {
				fmt.Println(ui.Hint.Render(q.Explanation))
			}
		}

		if report, err := scoring.Score(session); err == nil {
			fmt.Println()
			fmt.Println(ui.Title.Render("Session report"))
			printReport(report)
		}
		return nil
	},
}

func init() {
	practiceCmd.Flags().Int64("learner", 1, "Learner id")
	practiceCmd.Flags().String("exam", "", "Exam name to practice")
}

func renderQuestion(q *quiz.Question) string {
	var b strings.Builder
	b.WriteString(ui.Topic.Render(fmt.Sprintf("[%s · %s]", q.Topic, q.Difficulty)))
	b.WriteString("\n" + q.Text + "\n")
	for _, c := range q.Choices {
		b.WriteString("\n" + ui.Choice.Render(fmt.Sprintf("%s) %s", c.Label, c.Text)))
	}
	return b.String()
}

// readAnswer prompts until the learner enters a valid option label or
// asks to stop. A nil choice with stop=false means input ended.
func readAnswer(scanner *bufio.Scanner, q *quiz.Question) (*quiz.Choice, bool) {
	for {
		fmt.Print("answer> ")
		if !scanner.Scan() {
			return nil, true
		}
		input := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if input == "STOP" || input == "EXIT" {
			return nil, true
		}
		for i := range q.Choices {
			if strings.EqualFold(q.Choices[i].Label, input) {
				return &q.Choices[i], false
			}
		}
		fmt.Println(ui.Hint.Render("Pick one of the option letters."))
	}
}

func printReport(r *quiz.SessionReport) {
	style := ui.Wrong
	if r.Percentage >= 70 {
		style = ui.Correct
	}
	fmt.Println(style.Render(fmt.Sprintf("%d/%d (%.1f%%)", r.Correct, r.Total, r.Percentage)))
	fmt.Println(r.Remark)
	for topic, ts := range r.ByTopic {
		fmt.Printf("  %s %d/%d\n", ui.Topic.Render(topic), ts.Correct, ts.Total)
	}
}
