// Package quiz holds the domain model shared by the engine packages:
// exams, subjects, questions, choices, and the append-only attempt log.
package quiz

import "time"

// Difficulty is a question's difficulty tier and a selection target.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Valid reports whether d is one of the three known tiers.
func (d Difficulty) Valid() bool {
	return d == Easy || d == Medium || d == Hard
}

// Source records how a question entered the pool.
type Source string

const (
	SourceImported  Source = "imported"
	SourceGenerated Source = "generated"
	SourceAuthored  Source = "authored"
)

// Exam is a named examination (e.g. "JAMB", "IELTS") owning subjects.
type Exam struct {
	ID          int64
	Name        string
	Description string
	Subjects    []Subject
}

// Subject groups questions under an exam. Every question belongs to
// exactly one subject, which belongs to exactly one exam.
type Subject struct {
	ID     int64
	ExamID int64
	Name   string
}

// Question is a single multiple-choice item in the content pool.
// Topic is a free-text label used as the weakness-grouping key.
type Question struct {
	ID          int64
	SubjectID   int64
	Text        string
	Topic       string
	Difficulty  Difficulty
	Explanation string
	Year        int
	Source      Source
	Choices     []Choice
}

// CorrectChoice returns the choice marked correct, or nil if none is.
func (q *Question) CorrectChoice() *Choice {
	for i := range q.Choices {
		if q.Choices[i].Correct {
			return &q.Choices[i]
		}
	}
	return nil
}

// Choice is one answer option. Immutable once created.
type Choice struct {
	ID         int64
	QuestionID int64
	Label      string
	Text       string
	Correct    bool
}

// Attempt is one learner response. Topic and difficulty are copied from
// the question at attempt time so later edits to the question do not
// rewrite history. Attempts are never updated or deleted.
type Attempt struct {
	ID         int64
	LearnerID  int64
	QuestionID int64
	Topic      string
	Difficulty Difficulty
	Correct    bool
	CreatedAt  time.Time
}

// TopicStats counts correct and total attempts for one topic.
type TopicStats struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Accuracy returns correct/total, or 0 for an empty stats record.
func (s TopicStats) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}

// SessionReport is the derived outcome of a scored sitting. It is a
// value, not a persisted entity.
type SessionReport struct {
	SittingID  string                `json:"sitting_id,omitempty"`
	Correct    int                   `json:"correct"`
	Total      int                   `json:"total"`
	Percentage float64               `json:"percentage"`
	Remark     string                `json:"remark"`
	ByTopic    map[string]TopicStats `json:"topic_breakdown"`
}

// DraftQuestion is an unvalidated question produced by the generation
// collaborator. It only becomes a Question after backfill validation.
type DraftQuestion struct {
	Text        string        `json:"text"`
	Explanation string        `json:"explanation"`
	Choices     []DraftChoice `json:"choices"`
}

// DraftChoice is one option of a draft question.
type DraftChoice struct {
	Text    string `json:"text"`
	Correct bool   `json:"is_correct"`
}

// User is a registered learner account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
