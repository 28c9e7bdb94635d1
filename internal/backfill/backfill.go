// Package backfill tops up a thin content pool by delegating to the
// question generator and persisting whatever survives validation.
package backfill

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/UgwuGeorge/Past-Questions/internal/quiz"
	"github.com/UgwuGeorge/Past-Questions/internal/quizgen"
	"github.com/UgwuGeorge/Past-Questions/internal/store"
)

// Generator produces draft questions. Draft output is untrusted and is
// validated here before anything reaches the pool.
type Generator interface {
	Generate(ctx context.Context, input quizgen.GenerateInput) ([]quiz.DraftQuestion, error)
}

// QuestionStore is the slice of the question repository backfill needs.
type QuestionStore interface {
	BySubjects(ctx context.Context, subjectIDs []int64, f store.QuestionFilter) ([]quiz.Question, error)
	ExistsByText(ctx context.Context, subjectID int64, text string) (bool, error)
	Create(ctx context.Context, q *quiz.Question) error
}

// Service orchestrates one backfill round: generate, validate per
// item, drop duplicates, persist the rest.
type Service struct {
	gen       Generator
	questions QuestionStore
	log       *zap.SugaredLogger
}

// New creates a backfill Service. A nil logger is replaced with a
// no-op one.
func New(gen Generator, questions QuestionStore, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{gen: gen, questions: questions, log: log}
}

// Backfill generates up to count questions for the subject and returns
// how many were actually added. Generation failure is absorbed as zero
// added; invalid and duplicate drafts are dropped item by item while
// the remainder still commits.
func (s *Service) Backfill(ctx context.Context, exam *quiz.Exam, subject *quiz.Subject, topic string, difficulty quiz.Difficulty, count int) (int, error) {
	if count <= 0 {
		return 0, fmt.Errorf("backfill count must be positive, got %d", count)
	}

	avoid, err := s.existingTexts(ctx, subject.ID)
	if err != nil {
		return 0, fmt.Errorf("read existing questions: %w", err)
	}

	drafts, err := s.gen.Generate(ctx, quizgen.GenerateInput{
		Exam:       exam.Name,
		Subject:    subject.Name,
		Topic:      topic,
		Difficulty: string(difficulty),
		Count:      count,
		Avoid:      avoid,
	})
	if err != nil {
		s.log.Warnw("generation failed, nothing added",
			"exam", exam.Name, "subject", subject.Name, "topic", topic, "error", err)
		return 0, nil
	}

	added := 0
	seen := make(map[string]bool, len(drafts))
	for _, draft := range drafts {
		text := strings.TrimSpace(draft.Text)
		if !validDraft(text, draft.Choices) {
			s.log.Debugw("dropping invalid draft", "text", draft.Text)
			continue
		}
		if seen[text] {
			continue
		}
		seen[text] = true

		exists, err := s.questions.ExistsByText(ctx, subject.ID, text)
		if err != nil {
			return added, fmt.Errorf("duplicate check: %w", err)
		}
		if exists {
			s.log.Debugw("dropping duplicate draft", "text", text)
			continue
		}

		q := buildQuestion(subject.ID, topic, difficulty, text, draft)
		if err := s.questions.Create(ctx, q); err != nil {
			if errors.Is(err, quiz.ErrDuplicate) {
				continue
			}
			return added, fmt.Errorf("persist question: %w", err)
		}
		added++
	}

	s.log.Infow("backfill finished",
		"exam", exam.Name, "subject", subject.Name, "topic", topic,
		"requested", count, "generated", len(drafts), "added", added)
	return added, nil
}

// existingTexts returns the texts already in the subject, used as the
// generator's avoid list.
func (s *Service) existingTexts(ctx context.Context, subjectID int64) ([]string, error) {
	existing, err := s.questions.BySubjects(ctx, []int64{subjectID}, store.QuestionFilter{})
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(existing))
	for _, q := range existing {
		texts = append(texts, q.Text)
	}
	return texts, nil
}

// validDraft checks the per-item contract: non-empty text, at least
// two choices, exactly one marked correct.
func validDraft(text string, choices []quiz.DraftChoice) bool {
	if text == "" || len(choices) < 2 {
		return false
	}
	correct := 0
	for _, c := range choices {
		if c.Correct {
			correct++
		}
	}
	return correct == 1
}

func buildQuestion(subjectID int64, topic string, difficulty quiz.Difficulty, text string, draft quiz.DraftQuestion) *quiz.Question {
	if !difficulty.Valid() {
		difficulty = quiz.Medium
	}
	q := &quiz.Question{
		SubjectID:   subjectID,
		Text:        text,
		Topic:       topic,
		Difficulty:  difficulty,
		Explanation: draft.Explanation,
		Source:      quiz.SourceGenerated,
	}
	for i, c := range draft.Choices {
		q.Choices = append(q.Choices, quiz.Choice{
			Label:   choiceLabel(i),
			Text:    c.Text,
			Correct: c.Correct,
		})
	}
	return q
}

func choiceLabel(i int) string {
	return string(rune('A' + i))
}
