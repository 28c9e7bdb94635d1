package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/UgwuGeorge/Past-Questions/internal/agent"
	"github.com/UgwuGeorge/Past-Questions/internal/ui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the practice assistant",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, _ := cmd.Flags().GetInt64("learner")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
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
		provider, err := newProvider(ctx, log)
		if err != nil {
			return err
		}
		bf, err := buildBackfill(ctx, s, log)
		if err != nil {
			return err
		}

		a := agent.New(provider, s.Exams(), buildEngine(s, cfg), buildScorer(s), bf, learner, log)

		fmt.Println(ui.Title.Render("pastq chat"))
		fmt.Println(ui.Hint.Render("Ask for exams, questions, or your score. Type 'exit' to quit."))

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "exit" || line == "quit" {
				break
			}

			reply, err := a.Chat(ctx, line)
			if err != nil {
				fmt.Println(ui.Wrong.Render("error: " + err.Error()))
				continue
			}
			fmt.Println(reply)
		}
		return scanner.Err()
	},
}

func init() {
	chatCmd.Flags().Int64("learner", 1, "Learner id to act for")
}
