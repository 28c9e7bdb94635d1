package backfill

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UgwuGeorge/Past-Questions/internal/quiz"
	"github.com/UgwuGeorge/Past-Questions/internal/quizgen"
	"github.com/UgwuGeorge/Past-Questions/internal/store"
)

type fakeGenerator struct {
	drafts []quiz.DraftQuestion
	err    error
	inputs []quizgen.GenerateInput
}

func (f *fakeGenerator) Generate(_ context.Context, input quizgen.GenerateInput) ([]quiz.DraftQuestion, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return f.drafts, nil
}

func draft(text string, correctIdx int, options ...string) quiz.DraftQuestion {
	d := quiz.DraftQuestion{Text: text, Explanation: "because"}
	for i, o := range options {
		d.Choices = append(d.Choices, quiz.DraftChoice{Text: o, Correct: i == correctIdx})
	}
	return d
}

func setup(t *testing.T) (*store.Store, *quiz.Exam, *quiz.Subject) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	exam, err := s.Exams().GetOrCreate(ctx, "WAEC", "")
	require.NoError(t, err)
	subject, err := s.Exams().GetOrCreateSubject(ctx, exam.ID, "Mathematics")
	require.NoError(t, err)
	return s, exam, subject
}

func TestBackfillAddsValidDrafts(t *testing.T) {
	s, exam, subject := setup(t)
	gen := &fakeGenerator{drafts: []quiz.DraftQuestion{
		draft("Simplify 2x + 3x.", 0, "5x", "6x", "x"),
		draft("Factorise x^2 - 9.", 1, "(x-3)^2", "(x-3)(x+3)", "x(x-9)"),
	}}
	svc := New(gen, s.Questions(), nil)

	added, err := svc.Backfill(context.Background(), exam, subject, "Algebra", quiz.Medium, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	got, err := s.Questions().BySubjects(context.Background(), []int64{subject.ID}, store.QuestionFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Algebra", got[0].Topic)
	assert.Equal(t, quiz.Medium, got[0].Difficulty)
	assert.Equal(t, quiz.SourceGenerated, got[0].Source)
	assert.Equal(t, "A", got[0].Choices[0].Label)
	require.NotNil(t, got[1].CorrectChoice())
	assert.Equal(t, "(x-3)(x+3)", got[1].CorrectChoice().Text)
}

func TestBackfillDropsInvalidItemsAndKeepsRest(t *testing.T) {
	s, exam, subject := setup(t)
	gen := &fakeGenerator{drafts: []quiz.DraftQuestion{
		draft("", 0, "a", "b"),                  // empty text
		draft("Only one option.", 0, "a"),       // too few choices
		draft("No correct option.", -1, "a", "b"),
		{Text: "Two correct options.", Choices: []quiz.DraftChoice{
			{Text: "a", Correct: true}, {Text: "b", Correct: true},
		}},
		draft("The one good draft.", 0, "yes", "no"),
	}}
	svc := New(gen, s.Questions(), nil)

	added, err := svc.Backfill(context.Background(), exam, subject, "Algebra", quiz.Easy, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
}

func TestBackfillGenerationFailureAddsNothing(t *testing.T) {
	s, exam, subject := setup(t)
	gen := &fakeGenerator{err: errors.New("provider down")}
	svc := New(gen, s.Questions(), nil)

	added, err := svc.Backfill(context.Background(), exam, subject, "Algebra", quiz.Medium, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}

func TestBackfillSkipsDuplicates(t *testing.T) {
	s, exam, subject := setup(t)
	gen := &fakeGenerator{drafts: []quiz.DraftQuestion{
		draft("Simplify 2x + 3x.", 0, "5x", "6x"),
		draft("Simplify 2x + 3x.", 0, "5x", "6x"), // in-batch duplicate
	}}
	svc := New(gen, s.Questions(), nil)

	added, err := svc.Backfill(context.Background(), exam, subject, "Algebra", quiz.Medium, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	// A second round with the same drafts adds nothing.
	added, err = svc.Backfill(context.Background(), exam, subject, "Algebra", quiz.Medium, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}

func TestBackfillFeedsExistingTextsToGenerator(t *testing.T) {
	s, exam, subject := setup(t)
	gen := &fakeGenerator{drafts: []quiz.DraftQuestion{
		draft("Fresh question.", 0, "a", "b"),
	}}
	svc := New(gen, s.Questions(), nil)

	_, err := svc.Backfill(context.Background(), exam, subject, "Algebra", quiz.Hard, 1)
	require.NoError(t, err)

	_, err = svc.Backfill(context.Background(), exam, subject, "Algebra", quiz.Hard, 1)
	require.NoError(t, err)

	require.Len(t, gen.inputs, 2)
	assert.Empty(t, gen.inputs[0].Avoid)
	assert.Equal(t, []string{"Fresh question."}, gen.inputs[1].Avoid)
	assert.Equal(t, "WAEC", gen.inputs[1].Exam)
	assert.Equal(t, "hard", gen.inputs[1].Difficulty)
}

func TestBackfillRejectsNonPositiveCount(t *testing.T) {
	s, exam, subject := setup(t)
	svc := New(&fakeGenerator{}, s.Questions(), nil)

	_, err := svc.Backfill(context.Background(), exam, subject, "Algebra", quiz.Medium, 0)
	require.Error(t, err)
}
