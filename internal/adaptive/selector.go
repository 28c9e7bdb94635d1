package adaptive

import (
	"context"
	"fmt"

	"github.com/UgwuGeorge/Past-Questions/internal/quiz"
	"github.com/UgwuGeorge/Past-Questions/internal/store"
)

// Scope resolves an exam's subject set, bounding selection.
type Scope interface {
	SubjectIDs(ctx context.Context, examID int64) ([]int64, error)
}

// Pool reads questions from the content pool.
type Pool interface {
	BySubjects(ctx context.Context, subjectIDs []int64, f store.QuestionFilter) ([]quiz.Question, error)
}

// Selector picks practice questions from an exam's content scope.
type Selector struct {
	scope Scope
	pool  Pool
}

// NewSelector creates a Selector over the given scope and pool.
func NewSelector(scope Scope, pool Pool) *Selector {
	return &Selector{scope: scope, pool: pool}
}

// SelectOne picks one question from the exam's scope. Fallback order,
// first non-empty match wins:
//
//  1. topic match AND difficulty match
//  2. topic match, any difficulty
//  3. any question in scope
//
// Topic targeting matters more than difficulty precision: a learner is
// never blocked just because the exact tier is unpopulated. Within each
// tier the lowest-id candidate wins, so repeated calls against an
// unchanged pool return the same question. Returns quiz.ErrNotFound
// only when the entire scope is empty.
func (s *Selector) SelectOne(ctx context.Context, examID int64, topic string, difficulty quiz.Difficulty) (*quiz.Question, error) {
	subjectIDs, err := s.scope.SubjectIDs(ctx, examID)
	if err != nil {
		return nil, err
	}

	filters := []store.QuestionFilter{
		{Topic: topic, Difficulty: difficulty, Limit: 1},
		{Topic: topic, Limit: 1},
		{Limit: 1},
	}
	if topic == "" {
		// No topic target: still try the mapped difficulty first,
		// then anything in scope.
		filters = []store.QuestionFilter{
			{Difficulty: difficulty, Limit: 1},
			{Limit: 1},
		}
	}

	for _, f := range filters {
		questions, err := s.pool.BySubjects(ctx, subjectIDs, f)
		if err != nil {
			return nil, err
		}
		if len(questions) > 0 {
			return &questions[0], nil
		}
	}
	return nil, fmt.Errorf("no content for exam %d: %w", examID, quiz.ErrNotFound)
}

// SelectBatch returns up to count distinct questions from the exam's
// scope in ascending id order. Thin inventory yields a short sequence,
// never an error, so a client re-fetching the same batch against an
// unchanged pool sees an identical sequence.
func (s *Selector) SelectBatch(ctx context.Context, examID int64, count int) ([]quiz.Question, error) {
	if count <= 0 {
		return nil, nil
	}
	subjectIDs, err := s.scope.SubjectIDs(ctx, examID)
	if err != nil {
		return nil, err
	}
	return s.pool.BySubjects(ctx, subjectIDs, store.QuestionFilter{Limit: count})
}
