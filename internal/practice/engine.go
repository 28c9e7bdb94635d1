// Package practice ties the engine pieces into the adaptive loop:
// weakness aggregation, difficulty mapping, content selection, attempt
// logging.
package practice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UgwuGeorge/Past-Questions/internal/adaptive"
	"github.com/UgwuGeorge/Past-Questions/internal/analytics"
	"github.com/UgwuGeorge/Past-Questions/internal/quiz"
	"github.com/UgwuGeorge/Past-Questions/internal/store"
)

// Engine runs the adaptive practice loop for one content pool.
type Engine struct {
	weakness *analytics.Service
	selector *adaptive.Selector
	config   adaptive.DifficultyConfig

	attempts  store.AttemptRepo
	questions store.QuestionRepo
}

// NewEngine wires an Engine over the given repositories.
func NewEngine(exams store.ExamRepo, questions store.QuestionRepo, attempts store.AttemptRepo, cfg adaptive.DifficultyConfig) *Engine {
	return &Engine{
		weakness:  analytics.NewService(attempts),
		selector:  adaptive.NewSelector(exams, questions),
		config:    cfg,
		attempts:  attempts,
		questions: questions,
	}
}

// Weakness returns the engine's analytics service.
func (e *Engine) Weakness() *analytics.Service { return e.weakness }

// Selector returns the engine's content selector.
func (e *Engine) Selector() *adaptive.Selector { return e.selector }

// NextQuestion picks the next practice question for a learner within
// an exam: weakest topic first, difficulty mapped from its accuracy,
// selector fallbacks applied. A learner with no history gets the
// default tier and no topic targeting.
func (e *Engine) NextQuestion(ctx context.Context, learnerID, examID int64) (*quiz.Question, error) {
	topic, accuracy, err := e.weakness.WeakestTopic(ctx, learnerID)
	hasHistory := true
	if err != nil {
		if !errors.Is(err, quiz.ErrEmptyHistory) {
			return nil, fmt.Errorf("aggregate weakness: %w", err)
		}
		topic, hasHistory = "", false
	}

	difficulty := e.config.MapDifficulty(accuracy, hasHistory)
	return e.selector.SelectOne(ctx, examID, topic, difficulty)
}

// LogAttempt appends one attempt, copying topic and difficulty from
// the question so later edits do not rewrite history.
func (e *Engine) LogAttempt(ctx context.Context, learnerID, questionID int64, correct bool) (*quiz.Attempt, error) {
	q, err := e.questions.ByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	a := &quiz.Attempt{
		LearnerID:  learnerID,
		QuestionID: q.ID,
		Topic:      q.Topic,
		Difficulty: q.Difficulty,
		Correct:    correct,
		CreatedAt:  time.Now().UTC(),
	}
	if err := e.attempts.Append(ctx, a); err != nil {
		return nil, fmt.Errorf("append attempt: %w", err)
	}
	return a, nil
}
