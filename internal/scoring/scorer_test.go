package scoring

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/UgwuGeorge/Past-Questions/internal/quiz"
)

type fakeLog struct {
	appended   []quiz.Attempt
	batchCalls int
	appendErr  error
	lastN      []quiz.Attempt
}

func (f *fakeLog) AppendBatch(_ context.Context, attempts []quiz.Attempt) error {
	f.batchCalls++
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, attempts...)
	return nil
}

func (f *fakeLog) LastN(_ context.Context, _ int64, n int) ([]quiz.Attempt, error) {
	if n > len(f.lastN) {
		n = len(f.lastN)
	}
	return f.lastN[len(f.lastN)-n:], nil
}

type fakeQuestions struct {
	byID map[int64]*quiz.Question
}

func (f *fakeQuestions) ByID(_ context.Context, id int64) (*quiz.Question, error) {
	q, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("question %d: %w", id, quiz.ErrNotFound)
	}
	return q, nil
}

func attempts(topic string, correct, wrong int) []quiz.Attempt {
	var out []quiz.Attempt
	for i := 0; i < correct; i++ {
		out = append(out, quiz.Attempt{Topic: topic, Correct: true})
	}
	for i := 0; i < wrong; i++ {
		out = append(out, quiz.Attempt{Topic: topic, Correct: false})
	}
	return out
}

func TestScoreSevenAttemptsFiveCorrect(t *testing.T) {
	report, err := Score(attempts("Algebra", 5, 2))
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if report.Correct != 5 || report.Total != 7 {
		t.Errorf("counts = %d/%d, want 5/7", report.Correct, report.Total)
	}
	if report.Percentage != 71.4 {
		t.Errorf("percentage = %v, want 71.4", report.Percentage)
	}
	if report.Remark != remarkPositive {
		t.Errorf("remark = %q, want the positive remark at >= 70", report.Remark)
	}
}

func TestScoreBelowThresholdGetsEncouragement(t *testing.T) {
	report, err := Score(attempts("Algebra", 1, 2))
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if report.Percentage != 33.3 {
		t.Errorf("percentage = %v, want 33.3", report.Percentage)
	}
	if report.Remark != remarkEncouragement {
		t.Errorf("remark = %q, want encouragement below 70", report.Remark)
	}
}

func TestScoreEmptyIsEmptyHistory(t *testing.T) {
	_, err := Score(nil)
	if !errors.Is(err, quiz.ErrEmptyHistory) {
		t.Errorf("err = %v, want ErrEmptyHistory", err)
	}
}

func TestScorePerTopicBreakdown(t *testing.T) {
	report, err := Score(append(attempts("Algebra", 2, 3), attempts("Geometry", 4, 1)...))
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if got := report.ByTopic["Algebra"]; got.Correct != 2 || got.Total != 5 {
		t.Errorf("Algebra = %+v, want {2 5}", got)
	}
	if got := report.ByTopic["Geometry"]; got.Correct != 4 || got.Total != 5 {
		t.Errorf("Geometry = %+v, want {4 5}", got)
	}
}

func TestScoreLastN(t *testing.T) {
	log := &fakeLog{lastN: append(attempts("A", 0, 5), attempts("B", 3, 0)...)}
	scorer := NewScorer(log, &fakeQuestions{})

	report, err := scorer.ScoreLastN(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("score last n: %v", err)
	}
	if report.Total != 3 || report.Correct != 3 {
		t.Errorf("counts = %d/%d, want 3/3", report.Correct, report.Total)
	}
}

func submissionFixture() *fakeQuestions {
	return &fakeQuestions{byID: map[int64]*quiz.Question{
		1: {
			ID: 1, Topic: "Algebra", Difficulty: quiz.Medium,
			Choices: []quiz.Choice{
				{ID: 10, Correct: true},
				{ID: 11, Correct: false},
			},
		},
		2: {
			ID: 2, Topic: "Geometry", Difficulty: quiz.Easy,
			Choices: []quiz.Choice{
				{ID: 20, Correct: false},
				{ID: 21, Correct: true},
			},
		},
	}}
}

func TestGradeSubmission(t *testing.T) {
	log := &fakeLog{}
	scorer := NewScorer(log, submissionFixture())

	report, err := scorer.GradeSubmission(context.Background(), 7, []Answer{
		{QuestionID: 1, ChoiceID: 10}, // correct
		{QuestionID: 2, ChoiceID: 20}, // wrong
	})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if report.Correct != 1 || report.Total != 2 {
		t.Errorf("counts = %d/%d, want 1/2", report.Correct, report.Total)
	}
	if report.Percentage != 50.0 {
		t.Errorf("percentage = %v, want 50.0", report.Percentage)
	}
	if report.SittingID == "" {
		t.Error("expected a sitting id")
	}

	// Graded answers land in the attempt log with topic and difficulty
	// copied from the question.
	if len(log.appended) != 2 {
		t.Fatalf("appended = %d attempts, want 2", len(log.appended))
	}
	if log.appended[0].LearnerID != 7 || log.appended[0].Topic != "Algebra" || !log.appended[0].Correct {
		t.Errorf("first attempt = %+v", log.appended[0])
	}
	if log.appended[1].Difficulty != quiz.Easy || log.appended[1].Correct {
		t.Errorf("second attempt = %+v", log.appended[1])
	}
	if log.batchCalls != 1 {
		t.Errorf("append batch called %d times, want 1", log.batchCalls)
	}
}

func TestGradeSubmissionFailedAppendRecordsNothing(t *testing.T) {
	log := &fakeLog{appendErr: errors.New("disk full")}
	scorer := NewScorer(log, submissionFixture())

	_, err := scorer.GradeSubmission(context.Background(), 7, []Answer{
		{QuestionID: 1, ChoiceID: 10},
		{QuestionID: 2, ChoiceID: 21},
	})
	if err == nil {
		t.Fatal("expected the append error to surface")
	}
	if len(log.appended) != 0 {
		t.Errorf("appended = %d attempts, want none after a failed write", len(log.appended))
	}
}

func TestGradeSubmissionSkipsUnknownQuestions(t *testing.T) {
	log := &fakeLog{}
	scorer := NewScorer(log, submissionFixture())

	report, err := scorer.GradeSubmission(context.Background(), 7, []Answer{
		{QuestionID: 1, ChoiceID: 10},
		{QuestionID: 999, ChoiceID: 1}, // unknown: skipped, not fatal
	})
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	if report.Total != 1 {
		t.Errorf("total = %d, want 1 (unknown question skipped)", report.Total)
	}
}

func TestGradeSubmissionAllUnknownIsEmptyHistory(t *testing.T) {
	scorer := NewScorer(&fakeLog{}, submissionFixture())

	_, err := scorer.GradeSubmission(context.Background(), 7, []Answer{
		{QuestionID: 999, ChoiceID: 1},
	})
	if !errors.Is(err, quiz.ErrEmptyHistory) {
		t.Errorf("err = %v, want ErrEmptyHistory", err)
	}
}
