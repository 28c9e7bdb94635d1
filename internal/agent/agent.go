// Package agent is the chat front of the practice engine. Each turn
// the model picks one command from a finite set via structured output,
// the dispatcher runs it against the engine, and a second model call
// phrases the result for the learner.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/UgwuGeorge/Past-Questions/internal/backfill"
	"github.com/UgwuGeorge/Past-Questions/internal/llm"
	"github.com/UgwuGeorge/Past-Questions/internal/practice"
	"github.com/UgwuGeorge/Past-Questions/internal/quiz"
	"github.com/UgwuGeorge/Past-Questions/internal/scoring"
	"github.com/UgwuGeorge/Past-Questions/internal/store"
)

const systemPrompt = `You are a study assistant for an exam past-questions practice platform.
You help one learner drill multiple-choice questions, review weak topics, and track scores.

Each turn you pick exactly one command. Use the database commands when the learner asks for
questions, exams, logging or scores; use "answer" for everything else. Never invent question
content yourself; fetching and generating go through commands.`

const phrasePrompt = `You are a study assistant for an exam past-questions practice platform.
You just ran a command against the learner's database. Phrase the raw result below as a short,
friendly reply to the learner. Keep question texts and option labels exactly as given. Do not
add facts that are not in the result.`

const defaultBatchCount = 5

// Agent holds one learner's conversation with the assistant.
type Agent struct {
	provider llm.Provider
	exams    store.ExamRepo
	engine   *practice.Engine
	scorer   *scoring.Scorer
	backfill *backfill.Service
	log      *zap.SugaredLogger

	learnerID int64
	history   []llm.Message
}

// New creates an Agent for one learner. A nil logger is replaced with
// a no-op one.
func New(provider llm.Provider, exams store.ExamRepo, engine *practice.Engine, scorer *scoring.Scorer, bf *backfill.Service, learnerID int64, log *zap.SugaredLogger) *Agent {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Agent{
		provider:  provider,
		exams:     exams,
		engine:    engine,
		scorer:    scorer,
		backfill:  bf,
		log:       log,
		learnerID: learnerID,
	}
}

// Chat handles one learner message and returns the assistant's reply.
// Conversation history accumulates inside the Agent.
func (a *Agent) Chat(ctx context.Context, message string) (string, error) {
	cmd, err := a.pickCommand(ctx, message)
	if err != nil {
		return "", err
	}
	a.log.Debugw("agent command", "command", cmd.Command, "exam", cmd.Exam, "count", cmd.Count)

	if cmd.Command == cmdAnswer {
		a.remember(message, cmd.Answer)
		return cmd.Answer, nil
	}

	// Engine failures become tool results the model can explain; only
	// transport errors abort the turn.
	result := a.dispatch(ctx, cmd)

	reply, err := a.phrase(ctx, message, result)
	if err != nil {
		return "", err
	}
	a.remember(message, reply)
	return reply, nil
}

func (a *Agent) pickCommand(ctx context.Context, message string) (*command, error) {
	req := llm.Request{
		System:    systemPrompt,
		Messages:  append(append([]llm.Message{}, a.history...), llm.Message{Role: llm.RoleUser, Content: message}),
		Schema:    commandSchema,
		MaxTokens: 1024,
	}
	resp, err := a.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("select command: %w", err)
	}

	var cmd command
	if err := json.Unmarshal(resp.Content, &cmd); err != nil {
		return nil, fmt.Errorf("parse command: %w", err)
	}
	return &cmd, nil
}

func (a *Agent) phrase(ctx context.Context, message, result string) (string, error) {
	req := llm.Request{
		System: phrasePrompt,
		Messages: append(append([]llm.Message{}, a.history...),
			llm.Message{Role: llm.RoleUser, Content: message},
			llm.Message{Role: llm.RoleUser, Content: "Command result:\n" + result},
		),
		MaxTokens: 1024,
	}
	resp, err := a.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("phrase reply: %w", err)
	}
	return strings.TrimSpace(strings.Trim(string(resp.Content), `"`)), nil
}

func (a *Agent) remember(message, reply string) {
	a.history = append(a.history,
		llm.Message{Role: llm.RoleUser, Content: message},
		llm.Message{Role: llm.RoleAssistant, Content: reply},
	)
}

// dispatch runs one command and renders its outcome as plain text.
// Failures come back as text too, so the model can tell the learner
// what went wrong.
func (a *Agent) dispatch(ctx context.Context, cmd *command) string {
	switch cmd.Command {
	case cmdList:
		return a.runList(ctx)
	case cmdFetchOne:
		return a.runFetchOne(ctx, cmd)
	case cmdFetchBatch:
		return a.runFetchBatch(ctx, cmd)
	case cmdLog:
		return a.runLog(ctx, cmd)
	case cmdScore:
		return a.runScore(ctx, cmd)
	case cmdGenerate:
		return a.runGenerate(ctx, cmd)
	default:
		return fmt.Sprintf("unknown command %q", cmd.Command)
	}
}

func (a *Agent) runList(ctx context.Context) string {
	exams, err := a.exams.List(ctx)
	if err != nil {
		return "could not list exams: " + err.Error()
	}
	if len(exams) == 0 {
		return "No exams in the database yet."
	}

	var b strings.Builder
	for _, e := range exams {
		names := make([]string, 0, len(e.Subjects))
		for _, s := range e.Subjects {
			names = append(names, s.Name)
		}
		fmt.Fprintf(&b, "- %s: %s\n", e.Name, strings.Join(names, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *Agent) runFetchOne(ctx context.Context, cmd *command) string {
	exam, err := a.examByName(ctx, cmd.Exam)
	if err != nil {
		return err.Error()
	}
	q, err := a.engine.NextQuestion(ctx, a.learnerID, exam.ID)
	if err != nil {
		return "no question available: " + err.Error()
	}
	return formatQuestion(q)
}

func (a *Agent) runFetchBatch(ctx context.Context, cmd *command) string {
	exam, err := a.examByName(ctx, cmd.Exam)
	if err != nil {
		return err.Error()
	}
	count := cmd.Count
	if count <= 0 {
		count = defaultBatchCount
	}
	questions, err := a.engine.Selector().SelectBatch(ctx, exam.ID, count)
	if err != nil {
		return "could not fetch questions: " + err.Error()
	}
	if len(questions) == 0 {
		return "No questions available for " + exam.Name + "."
	}

	parts := make([]string, 0, len(questions))
	for i := range questions {
		parts = append(parts, formatQuestion(&questions[i]))
	}
	return strings.Join(parts, "\n\n")
}

func (a *Agent) runLog(ctx context.Context, cmd *command) string {
	attempt, err := a.engine.LogAttempt(ctx, a.learnerID, cmd.QuestionID, cmd.Correct)
	if err != nil {
		return "could not log the attempt: " + err.Error()
	}
	verdict := "incorrect"
	if attempt.Correct {
		verdict = "correct"
	}
	return fmt.Sprintf("Logged %s attempt on question %d (topic %s).", verdict, attempt.QuestionID, attempt.Topic)
}

func (a *Agent) runScore(ctx context.Context, cmd *command) string {
	last := cmd.Last
	if last <= 0 {
		last = 20
	}
	report, err := a.scorer.ScoreLastN(ctx, a.learnerID, last)
	if err != nil {
		return "could not score: " + err.Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Score: %d/%d (%.1f%%). %s\n", report.Correct, report.Total, report.Percentage, report.Remark)
	for topic, ts := range report.ByTopic {
		fmt.Fprintf(&b, "- %s: %d/%d\n", topic, ts.Correct, ts.Total)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (a *Agent) runGenerate(ctx context.Context, cmd *command) string {
	exam, err := a.examByName(ctx, cmd.Exam)
	if err != nil {
		return err.Error()
	}
	if cmd.Subject == "" {
		return "generate needs a subject name"
	}
	subject, err := a.exams.GetOrCreateSubject(ctx, exam.ID, cmd.Subject)
	if err != nil {
		return "could not resolve subject: " + err.Error()
	}

	count := cmd.Count
	if count <= 0 {
		count = defaultBatchCount
	}
	added, err := a.backfill.Backfill(ctx, exam, subject, cmd.Topic, quiz.Difficulty(cmd.Difficulty), count)
	if err != nil {
		return "generation failed: " + err.Error()
	}
	return fmt.Sprintf("Added %d new %s questions for %s.", added, subject.Name, exam.Name)
}

func (a *Agent) examByName(ctx context.Context, name string) (*quiz.Exam, error) {
	if name == "" {
		return nil, fmt.Errorf("no exam named; ask the learner which exam they mean")
	}
	exam, err := a.exams.ByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("exam %q not found", name)
	}
	return exam, nil
}

func formatQuestion(q *quiz.Question) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question %d [%s, %s]: %s\n", q.ID, q.Topic, q.Difficulty, q.Text)
	for _, c := range q.Choices {
		fmt.Fprintf(&b, "%s) %s\n", c.Label, c.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}
