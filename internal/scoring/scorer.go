// Package scoring reduces attempts into session reports.
package scoring

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"

	"github.com/UgwuGeorge/Past-Questions/internal/quiz"
)

// AttemptLog is the scorer's view of the attempt log.
type AttemptLog interface {
	AppendBatch(ctx context.Context, attempts []quiz.Attempt) error
	LastN(ctx context.Context, learnerID int64, n int) ([]quiz.Attempt, error)
}

// QuestionLookup resolves questions during submission grading.
type QuestionLookup interface {
	ByID(ctx context.Context, id int64) (*quiz.Question, error)
}

// Answer is one submitted (question, choice) pair for a sitting.
type Answer struct {
	QuestionID int64 `json:"question_id"`
	ChoiceID   int64 `json:"choice_id"`
}

// Scorer produces session reports from the attempt log or a submitted
// answer set.
type Scorer struct {
	attempts  AttemptLog
	questions QuestionLookup
}

// NewScorer creates a Scorer over the given log and question lookup.
func NewScorer(attempts AttemptLog, questions QuestionLookup) *Scorer {
	return &Scorer{attempts: attempts, questions: questions}
}

// Score reduces an ordered attempt sequence into a report. Zero
// attempts is quiz.ErrEmptyHistory, not a divide-by-zero.
func Score(attempts []quiz.Attempt) (*quiz.SessionReport, error) {
	if len(attempts) == 0 {
		return nil, quiz.ErrEmptyHistory
	}

	report := &quiz.SessionReport{
		Total:   len(attempts),
		ByTopic: make(map[string]quiz.TopicStats, 4),
	}
	for _, a := range attempts {
		ts := report.ByTopic[a.Topic]
		ts.Total++
		if a.Correct {
			report.Correct++
			ts.Correct++
		}
		report.ByTopic[a.Topic] = ts
	}

	report.Percentage = roundPercentage(report.Correct, report.Total)
	report.Remark = remarkFor(report.Percentage)
	return report, nil
}

// ScoreLastN scores the learner's most recent n attempts, reported in
// chronological order.
func (s *Scorer) ScoreLastN(ctx context.Context, learnerID int64, n int) (*quiz.SessionReport, error) {
	attempts, err := s.attempts.LastN(ctx, learnerID, n)
	if err != nil {
		return nil, err
	}
	return Score(attempts)
}

// GradeSubmission grades an explicit answer set for one sitting against
// stored correctness and appends the graded attempts to the log in one
// atomic write.
// Unknown question ids are skipped, not fatal; an unknown choice id for
// a known question grades as incorrect.
func (s *Scorer) GradeSubmission(ctx context.Context, learnerID int64, answers []Answer) (*quiz.SessionReport, error) {
	var graded []quiz.Attempt
	for _, ans := range answers {
		question, err := s.questions.ByID(ctx, ans.QuestionID)
		if errors.Is(err, quiz.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		correct := false
		if cc := question.CorrectChoice(); cc != nil && cc.ID == ans.ChoiceID {
			correct = true
		}
		graded = append(graded, quiz.Attempt{
			LearnerID:  learnerID,
			QuestionID: question.ID,
			Topic:      question.Topic,
			Difficulty: question.Difficulty,
			Correct:    correct,
		})
	}

	report, err := Score(graded)
	if err != nil {
		return nil, err
	}
	report.SittingID = uuid.NewString()

	// One atomic write: a failed sitting leaves no partial log behind.
	if err := s.attempts.AppendBatch(ctx, graded); err != nil {
		return nil, err
	}
	return report, nil
}

// roundPercentage rounds 100*correct/total to one decimal place.
func roundPercentage(correct, total int) float64 {
	return math.Round(1000*float64(correct)/float64(total)) / 10
}
