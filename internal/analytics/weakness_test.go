package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/UgwuGeorge/Past-Questions/internal/quiz"
)

type fakeAttempts struct {
	attempts []quiz.Attempt
	err      error
}

func (f *fakeAttempts) ByLearner(_ context.Context, _ int64) ([]quiz.Attempt, error) {
	return f.attempts, f.err
}

func attempt(topic string, correct bool) quiz.Attempt {
	return quiz.Attempt{LearnerID: 1, Topic: topic, Correct: correct}
}

func repeat(topic string, correct, wrong int) []quiz.Attempt {
	var out []quiz.Attempt
	for i := 0; i < correct; i++ {
		out = append(out, attempt(topic, true))
	}
	for i := 0; i < wrong; i++ {
		out = append(out, attempt(topic, false))
	}
	return out
}

func TestWeakTopicsAccuracy(t *testing.T) {
	src := &fakeAttempts{attempts: append(
		repeat("Algebra", 2, 3),  // 2/5 = 0.4
		repeat("Geometry", 4, 1)..., // 4/5 = 0.8
	)}
	svc := NewService(src)

	stats, err := svc.WeakTopics(context.Background(), 1)
	if err != nil {
		t.Fatalf("weak topics: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("topics = %d, want 2", len(stats))
	}
	if got := stats["Algebra"]; got.Correct != 2 || got.Total != 5 {
		t.Errorf("Algebra = %+v, want {2 5}", got)
	}
	if acc := stats["Algebra"].Accuracy(); acc != 0.4 {
		t.Errorf("Algebra accuracy = %v, want 0.4", acc)
	}
	if acc := stats["Geometry"].Accuracy(); acc != 0.8 {
		t.Errorf("Geometry accuracy = %v, want 0.8", acc)
	}
}

func TestWeakTopicsSingleCorrectAttemptIsPerfect(t *testing.T) {
	svc := NewService(&fakeAttempts{attempts: repeat("Calculus", 1, 0)})
	stats, err := svc.WeakTopics(context.Background(), 1)
	if err != nil {
		t.Fatalf("weak topics: %v", err)
	}
	// No smoothing: 1/1 is exactly 1.0.
	if acc := stats["Calculus"].Accuracy(); acc != 1.0 {
		t.Errorf("accuracy = %v, want 1.0", acc)
	}
}

func TestWeakTopicsEmptyHistory(t *testing.T) {
	svc := NewService(&fakeAttempts{})
	stats, err := svc.WeakTopics(context.Background(), 1)
	if err != nil {
		t.Fatalf("weak topics: %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("stats = %v, want empty", stats)
	}
}

func TestWeakTopicsAccuracyBounds(t *testing.T) {
	src := &fakeAttempts{attempts: append(
		repeat("A", 0, 4),
		repeat("B", 7, 3)...,
	)}
	svc := NewService(src)
	stats, _ := svc.WeakTopics(context.Background(), 1)
	for topic, ts := range stats {
		acc := ts.Accuracy()
		if acc < 0 || acc > 1 {
			t.Errorf("topic %s accuracy %v out of [0,1]", topic, acc)
		}
	}
}

func TestWeakestTopic(t *testing.T) {
	src := &fakeAttempts{attempts: append(
		repeat("Algebra", 2, 3),
		repeat("Geometry", 4, 1)...,
	)}
	svc := NewService(src)

	topic, acc, err := svc.WeakestTopic(context.Background(), 1)
	if err != nil {
		t.Fatalf("weakest: %v", err)
	}
	if topic != "Algebra" {
		t.Errorf("topic = %q, want Algebra", topic)
	}
	if acc != 0.4 {
		t.Errorf("accuracy = %v, want 0.4", acc)
	}
}

func TestWeakestTopicLexicographicTieBreak(t *testing.T) {
	src := &fakeAttempts{attempts: append(
		repeat("Zeta", 1, 1),
		repeat("Alpha", 1, 1)...,
	)}
	svc := NewService(src)

	topic, _, err := svc.WeakestTopic(context.Background(), 1)
	if err != nil {
		t.Fatalf("weakest: %v", err)
	}
	if topic != "Alpha" {
		t.Errorf("tie-break picked %q, want Alpha", topic)
	}
}

func TestWeakestTopicEmptyHistory(t *testing.T) {
	svc := NewService(&fakeAttempts{})
	_, _, err := svc.WeakestTopic(context.Background(), 1)
	if !errors.Is(err, quiz.ErrEmptyHistory) {
		t.Errorf("err = %v, want ErrEmptyHistory", err)
	}
}
