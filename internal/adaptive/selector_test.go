package adaptive

import (
	"context"
	"errors"
	"testing"

	"github.com/UgwuGeorge/Past-Questions/internal/quiz"
	"github.com/UgwuGeorge/Past-Questions/internal/store"
)

// fakePool filters an in-memory question slice the way the store does:
// matching questions in ascending id order.
type fakePool struct {
	subjects  []int64
	questions []quiz.Question
}

func (f *fakePool) SubjectIDs(_ context.Context, _ int64) ([]int64, error) {
	return f.subjects, nil
}

func (f *fakePool) BySubjects(_ context.Context, subjectIDs []int64, filter store.QuestionFilter) ([]quiz.Question, error) {
	inScope := make(map[int64]bool, len(subjectIDs))
	for _, id := range subjectIDs {
		inScope[id] = true
	}
	var out []quiz.Question
	for _, q := range f.questions {
		if !inScope[q.SubjectID] {
			continue
		}
		if filter.Topic != "" && q.Topic != filter.Topic {
			continue
		}
		if filter.Difficulty != "" && q.Difficulty != filter.Difficulty {
			continue
		}
		out = append(out, q)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func q(id int64, topic string, d quiz.Difficulty) quiz.Question {
	return quiz.Question{ID: id, SubjectID: 1, Topic: topic, Difficulty: d}
}

func TestSelectOneExactMatch(t *testing.T) {
	pool := &fakePool{subjects: []int64{1}, questions: []quiz.Question{
		q(1, "Algebra", quiz.Easy),
		q(2, "Algebra", quiz.Medium),
		q(3, "Geometry", quiz.Medium),
	}}
	sel := NewSelector(pool, pool)

	got, err := sel.SelectOne(context.Background(), 1, "Algebra", quiz.Medium)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got.ID != 2 {
		t.Errorf("selected id = %d, want 2", got.ID)
	}
}

func TestSelectOneFallsBackToAnyDifficulty(t *testing.T) {
	pool := &fakePool{subjects: []int64{1}, questions: []quiz.Question{
		q(1, "Algebra", quiz.Medium),
	}}
	sel := NewSelector(pool, pool)

	// Hard is unpopulated; topic targeting wins over difficulty precision.
	got, err := sel.SelectOne(context.Background(), 1, "Algebra", quiz.Hard)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got.ID != 1 || got.Difficulty != quiz.Medium {
		t.Errorf("selected = %+v, want medium Algebra question", got)
	}
}

func TestSelectOneFallsBackToAnyInScope(t *testing.T) {
	pool := &fakePool{subjects: []int64{1}, questions: []quiz.Question{
		q(7, "Geometry", quiz.Easy),
	}}
	sel := NewSelector(pool, pool)

	got, err := sel.SelectOne(context.Background(), 1, "Algebra", quiz.Hard)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got.ID != 7 {
		t.Errorf("selected id = %d, want 7", got.ID)
	}
}

func TestSelectOneNoTopicKeepsDifficulty(t *testing.T) {
	pool := &fakePool{subjects: []int64{1}, questions: []quiz.Question{
		q(1, "Algebra", quiz.Easy),
		q(2, "Geometry", quiz.Medium),
	}}
	sel := NewSelector(pool, pool)

	// Empty topic still targets the mapped tier, not just the lowest id.
	got, err := sel.SelectOne(context.Background(), 1, "", quiz.Medium)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got.ID != 2 || got.Difficulty != quiz.Medium {
		t.Errorf("selected = %+v, want the medium question (id 2)", got)
	}
}

func TestSelectOneNoTopicFallsBackToAnyInScope(t *testing.T) {
	pool := &fakePool{subjects: []int64{1}, questions: []quiz.Question{
		q(4, "Algebra", quiz.Easy),
	}}
	sel := NewSelector(pool, pool)

	got, err := sel.SelectOne(context.Background(), 1, "", quiz.Medium)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got.ID != 4 {
		t.Errorf("selected id = %d, want 4", got.ID)
	}
}

func TestSelectOneEmptyScopeIsNotFound(t *testing.T) {
	pool := &fakePool{subjects: []int64{1}}
	sel := NewSelector(pool, pool)

	_, err := sel.SelectOne(context.Background(), 1, "Algebra", quiz.Medium)
	if !errors.Is(err, quiz.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSelectOneDeterministicTieBreak(t *testing.T) {
	pool := &fakePool{subjects: []int64{1}, questions: []quiz.Question{
		q(3, "Algebra", quiz.Medium),
		q(5, "Algebra", quiz.Medium),
	}}
	sel := NewSelector(pool, pool)

	for i := 0; i < 3; i++ {
		got, err := sel.SelectOne(context.Background(), 1, "Algebra", quiz.Medium)
		if err != nil {
			t.Fatalf("select %d: %v", i, err)
		}
		if got.ID != 3 {
			t.Errorf("call %d selected id %d, want lowest id 3", i, got.ID)
		}
	}
}

func TestSelectBatchBoundedAndDeterministic(t *testing.T) {
	pool := &fakePool{subjects: []int64{1}, questions: []quiz.Question{
		q(1, "A", quiz.Easy),
		q(2, "B", quiz.Medium),
		q(3, "C", quiz.Hard),
	}}
	sel := NewSelector(pool, pool)
	ctx := context.Background()

	first, err := sel.SelectBatch(ctx, 1, 2)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(first) != 2 || first[0].ID != 1 || first[1].ID != 2 {
		t.Errorf("batch = %+v, want ids [1 2]", first)
	}

	second, err := sel.SelectBatch(ctx, 1, 2)
	if err != nil {
		t.Fatalf("batch again: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("repeat batch length %d != %d", len(second), len(first))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("batch not reproducible at %d: %d vs %d", i, first[i].ID, second[i].ID)
		}
	}
}

func TestSelectBatchShortOnThinInventory(t *testing.T) {
	pool := &fakePool{subjects: []int64{1}, questions: []quiz.Question{
		q(1, "A", quiz.Easy),
	}}
	sel := NewSelector(pool, pool)

	got, err := sel.SelectBatch(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("batch = %d questions, want 1", len(got))
	}
}
