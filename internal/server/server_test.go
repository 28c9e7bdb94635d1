package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UgwuGeorge/Past-Questions/internal/adaptive"
	"github.com/UgwuGeorge/Past-Questions/internal/backfill"
	"github.com/UgwuGeorge/Past-Questions/internal/config"
	"github.com/UgwuGeorge/Past-Questions/internal/practice"
	"github.com/UgwuGeorge/Past-Questions/internal/quiz"
	"github.com/UgwuGeorge/Past-Questions/internal/quizgen"
	"github.com/UgwuGeorge/Past-Questions/internal/scoring"
	"github.com/UgwuGeorge/Past-Questions/internal/store"
)

type stubGenerator struct{ drafts []quiz.DraftQuestion }

func (s *stubGenerator) Generate(context.Context, quizgen.GenerateInput) ([]quiz.DraftQuestion, error) {
	return s.drafts, nil
}

type testEnv struct {
	srv   *Server
	store *store.Store
	gen   *stubGenerator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	gen := &stubGenerator{}
	engine := practice.NewEngine(s.Exams(), s.Questions(), s.Attempts(), adaptive.DefaultDifficultyConfig())
	srv := New(Deps{
		Store:    s,
		Engine:   engine,
		Scorer:   scoring.NewScorer(s.Attempts(), s.Questions()),
		Backfill: backfill.New(gen, s.Questions(), nil),
		Auth:     config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour},
	})
	return &testEnv{srv: srv, store: s, gen: gen}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.srv.Engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) registerAndLogin(t *testing.T) string {
	t.Helper()
	creds := map[string]string{"username": "ada", "password": "correct-horse"}
	w := e.do(t, http.MethodPost, "/register", "", creds)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(t, http.MethodPost, "/token", "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func (e *testEnv) seedQuestion(t *testing.T, topic string, diff quiz.Difficulty, text string) (*quiz.Exam, *quiz.Question) {
	t.Helper()
	ctx := context.Background()
	exam, err := e.store.Exams().GetOrCreate(ctx, "WAEC", "")
	require.NoError(t, err)
	subject, err := e.store.Exams().GetOrCreateSubject(ctx, exam.ID, "Mathematics")
	require.NoError(t, err)

	q := &quiz.Question{
		SubjectID:  subject.ID,
		Text:       text,
		Topic:      topic,
		Difficulty: diff,
		Source:     quiz.SourceAuthored,
		Choices: []quiz.Choice{
			{Label: "A", Text: "right", Correct: true},
			{Label: "B", Text: "wrong", Correct: false},
		},
	}
	require.NoError(t, e.store.Questions().Create(ctx, q))
	return exam, q
}

func TestLoginRejectsBadPassword(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t)

	w := env.do(t, http.MethodPost, "/token", "", map[string]string{
		"username": "ada", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t)

	w := env.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": "ada", "password": "another-pass",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/practice/next?exam_id=1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/practice/next?exam_id=1", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPracticeNextReturnsQuestionWithoutAnswers(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)
	exam, q := env.seedQuestion(t, "Algebra", quiz.Medium, "Simplify 2x + 3x.")

	w := env.do(t, http.MethodGet, fmt.Sprintf("/practice/next?exam_id=%d", exam.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var view questionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, q.ID, view.ID)
	assert.Equal(t, "Simplify 2x + 3x.", view.Text)
	assert.NotContains(t, w.Body.String(), "is_correct")
	assert.NotContains(t, w.Body.String(), "Correct")
}

func TestPracticeNextEmptyPoolIs404(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)
	ctx := context.Background()
	exam, err := env.store.Exams().GetOrCreate(ctx, "JAMB", "")
	require.NoError(t, err)

	w := env.do(t, http.MethodGet, fmt.Sprintf("/practice/next?exam_id=%d", exam.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAttemptLoggingAndReport(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)
	_, q := env.seedQuestion(t, "Algebra", quiz.Medium, "Simplify 2x + 3x.")

	for _, correct := range []bool{true, true, false} {
		w := env.do(t, http.MethodPost, "/attempts", token, map[string]any{
			"question_id": q.ID, "correct": correct,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := env.do(t, http.MethodGet, "/learners/1/report?last=10", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report quiz.SessionReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 2, report.Correct)
	assert.Equal(t, 3, report.Total)
	assert.InDelta(t, 66.7, report.Percentage, 0.01)
}

func TestWeakTopicsScopedToOwnLearner(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)

	w := env.do(t, http.MethodGet, "/learners/2/weak-topics", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/learners/1/weak-topics", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubmitSessionGradesAnswers(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)
	_, q := env.seedQuestion(t, "Algebra", quiz.Medium, "Simplify 2x + 3x.")

	correctChoice := q.CorrectChoice()
	require.NotNil(t, correctChoice)

	w := env.do(t, http.MethodPost, "/sessions/submit", token, map[string]any{
		"answers": []map[string]int64{
			{"question_id": q.ID, "choice_id": correctChoice.ID},
			{"question_id": 99999, "choice_id": 1}, // unknown, skipped
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report quiz.SessionReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Correct)
	assert.Equal(t, 1, report.Total)
	assert.InDelta(t, 100.0, report.Percentage, 0.01)
	assert.NotEmpty(t, report.SittingID)
}

func TestGenerateBackfillsPool(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t)
	exam, _ := env.seedQuestion(t, "Algebra", quiz.Medium, "Existing question.")
	env.gen.drafts = []quiz.DraftQuestion{{
		Text: "Brand new question?",
		Choices: []quiz.DraftChoice{
			{Text: "yes", Correct: true},
			{Text: "no", Correct: false},
		},
	}}

	w := env.do(t, http.MethodPost, "/generate", token, map[string]any{
		"exam": exam.Name, "subject": "Mathematics", "topic": "Algebra", "count": 1,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Added int `json:"added"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Added)
}

func TestListExamsPublic(t *testing.T) {
	env := newTestEnv(t)
	env.seedQuestion(t, "Algebra", quiz.Medium, "Q")

	w := env.do(t, http.MethodGet, "/exams", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "WAEC")
	assert.Contains(t, w.Body.String(), "Mathematics")
}
