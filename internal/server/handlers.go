package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/UgwuGeorge/Past-Questions/internal/quiz"
	"github.com/UgwuGeorge/Past-Questions/internal/scoring"
	"github.com/UgwuGeorge/Past-Questions/internal/store"
)

type handlers struct {
	deps Deps
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// questionView is the wire form of a question. Choice correctness is
// never exposed to the client.
type questionView struct {
	ID         int64        `json:"id"`
	SubjectID  int64        `json:"subject_id"`
	Text       string       `json:"text"`
	Topic      string       `json:"topic"`
	Difficulty string       `json:"difficulty"`
	Year       int          `json:"year,omitempty"`
	Choices    []choiceView `json:"choices"`
}

type choiceView struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

func toQuestionView(q *quiz.Question) questionView {
	v := questionView{
		ID:         q.ID,
		SubjectID:  q.SubjectID,
		Text:       q.Text,
		Topic:      q.Topic,
		Difficulty: string(q.Difficulty),
		Year:       q.Year,
		Choices:    make([]choiceView, 0, len(q.Choices)),
	}
	for _, ch := range q.Choices {
		v.Choices = append(v.Choices, choiceView{ID: ch.ID, Label: ch.Label, Text: ch.Text})
	}
	return v
}

// fail maps the domain error taxonomy onto HTTP statuses.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, quiz.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, quiz.ErrEmptyHistory):
		c.JSON(http.StatusNotFound, gin.H{"error": "no attempts recorded yet"})
	case errors.Is(err, quiz.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *handlers) listExams(c *gin.Context) {
	exams, err := h.deps.Store.Exams().List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, exams)
}

func (h *handlers) createExam(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "name required"})
		return
	}
	exam, err := h.deps.Store.Exams().GetOrCreate(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, exam)
}

func (h *handlers) listSubjects(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}
	exam, err := h.deps.Store.Exams().ByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, exam.Subjects)
}

func (h *handlers) listQuestions(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		return
	}

	filter := store.QuestionFilter{
		Topic:      c.Query("topic"),
		Difficulty: quiz.Difficulty(c.Query("difficulty")),
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && limit > 0 {
		filter.Limit = limit
	}

	questions, err := h.deps.Store.Questions().BySubjects(c.Request.Context(), []int64{id}, filter)
	if err != nil {
		fail(c, err)
		return
	}
	views := make([]questionView, 0, len(questions))
	for i := range questions {
		views = append(views, toQuestionView(&questions[i]))
	}
	c.JSON(http.StatusOK, views)
}

func (h *handlers) createQuestion(c *gin.Context) {
	var req struct {
		SubjectID   int64  `json:"subject_id" binding:"required"`
		Text        string `json:"text" binding:"required"`
		Topic       string `json:"topic"`
		Difficulty  string `json:"difficulty"`
		Explanation string `json:"explanation"`
		Year        int    `json:"year"`
		Choices     []struct {
			Label   string `json:"label"`
			Text    string `json:"text" binding:"required"`
			Correct bool   `json:"is_correct"`
		} `json:"choices" binding:"required,min=2"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	difficulty := quiz.Difficulty(req.Difficulty)
	if !difficulty.Valid() {
		difficulty = quiz.Medium
	}
	q := &quiz.Question{
		SubjectID:   req.SubjectID,
		Text:        req.Text,
		Topic:       req.Topic,
		Difficulty:  difficulty,
		Explanation: req.Explanation,
		Year:        req.Year,
		Source:      quiz.SourceAuthored,
	}
	for i, ch := range req.Choices {
		label := ch.Label
		if label == "" {
			label = string(rune('A' + i))
		}
		q.Choices = append(q.Choices, quiz.Choice{Label: label, Text: ch.Text, Correct: ch.Correct})
	}

	if err := h.deps.Store.Questions().Create(c.Request.Context(), q); err != nil {
		if errors.Is(err, quiz.ErrDuplicate) || errors.Is(err, quiz.ErrNotFound) {
			fail(c, err)
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toQuestionView(q))
}

func (h *handlers) practiceNext(c *gin.Context) {
	examID, ok := queryID(c, "exam_id")
	if !ok {
		return
	}
	q, err := h.deps.Engine.NextQuestion(c.Request.Context(), learnerID(c), examID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuestionView(q))
}

func (h *handlers) practiceBatch(c *gin.Context) {
	examID, ok := queryID(c, "exam_id")
	if !ok {
		return
	}
	count, err := strconv.Atoi(c.DefaultQuery("count", "10"))
	if err != nil || count <= 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "count must be a positive integer"})
		return
	}

	questions, err := h.deps.Engine.Selector().SelectBatch(c.Request.Context(), examID, count)
	if err != nil {
		fail(c, err)
		return
	}
	views := make([]questionView, 0, len(questions))
	for i := range questions {
		views = append(views, toQuestionView(&questions[i]))
	}
	c.JSON(http.StatusOK, views)
}

func (h *handlers) logAttempt(c *gin.Context) {
	var req struct {
		QuestionID int64 `json:"question_id" binding:"required"`
		Correct    *bool `json:"correct" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "question_id and correct required"})
		return
	}

	attempt, err := h.deps.Engine.LogAttempt(c.Request.Context(), learnerID(c), req.QuestionID, *req.Correct)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":         attempt.ID,
		"topic":      attempt.Topic,
		"difficulty": attempt.Difficulty,
		"correct":    attempt.Correct,
	})
}

func (h *handlers) weakTopics(c *gin.Context) {
	id, ok := h.scopedLearner(c)
	if !ok {
		return
	}
	stats, err := h.deps.Engine.Weakness().WeakTopics(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *handlers) report(c *gin.Context) {
	id, ok := h.scopedLearner(c)
	if !ok {
		return
	}
	last, err := strconv.Atoi(c.DefaultQuery("last", "20"))
	if err != nil || last <= 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "last must be a positive integer"})
		return
	}

	report, err := h.deps.Scorer.ScoreLastN(c.Request.Context(), id, last)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *handlers) submitSession(c *gin.Context) {
	var req struct {
		Answers []scoring.Answer `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "answers required"})
		return
	}

	report, err := h.deps.Scorer.GradeSubmission(c.Request.Context(), learnerID(c), req.Answers)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *handlers) generate(c *gin.Context) {
	var req struct {
		Exam       string `json:"exam" binding:"required"`
		Subject    string `json:"subject" binding:"required"`
		Topic      string `json:"topic"`
		Difficulty string `json:"difficulty"`
		Count      int    `json:"count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "exam and subject required"})
		return
	}
	if req.Count <= 0 {
		req.Count = 5
	}

	ctx := c.Request.Context()
	exam, err := h.deps.Store.Exams().ByName(ctx, req.Exam)
	if err != nil {
		fail(c, err)
		return
	}
	subject, err := h.deps.Store.Exams().GetOrCreateSubject(ctx, exam.ID, req.Subject)
	if err != nil {
		fail(c, err)
		return
	}

	added, err := h.deps.Backfill.Backfill(ctx, exam, subject, req.Topic, quiz.Difficulty(req.Difficulty), req.Count)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requested": req.Count, "added": added})
}

// scopedLearner reads the :id path param and rejects ids other than
// the authenticated learner's.
func (h *handlers) scopedLearner(c *gin.Context) (int64, bool) {
	id, err := pathID(c)
	if err != nil {
		return 0, false
	}
	if id != learnerID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot read another learner's data"})
		return 0, false
	}
	return id, true
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "id must be an integer"})
		return 0, err
	}
	return id, nil
}

func queryID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": name + " must be an integer"})
		return 0, false
	}
	return id, true
}
