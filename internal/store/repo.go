package store

import (
	"context"

	"github.com/UgwuGeorge/Past-Questions/internal/quiz"
)

// QuestionFilter narrows a scoped question query. Zero values mean
// "no constraint".
type QuestionFilter struct {
	Topic      string
	Difficulty quiz.Difficulty
	Limit      int
}

// ExamRepo manages exams and their subjects.
type ExamRepo interface {
	// GetOrCreate returns the exam with the given name, creating it if
	// missing.
	GetOrCreate(ctx context.Context, name, description string) (*quiz.Exam, error)

	// ByID returns an exam with its subjects loaded.
	ByID(ctx context.Context, id int64) (*quiz.Exam, error)

	// ByName returns an exam with its subjects loaded.
	ByName(ctx context.Context, name string) (*quiz.Exam, error)

	// List returns all exams with subjects loaded, ordered by id.
	List(ctx context.Context) ([]quiz.Exam, error)

	// GetOrCreateSubject returns the named subject under an exam,
	// creating it if missing.
	GetOrCreateSubject(ctx context.Context, examID int64, name string) (*quiz.Subject, error)

	// SubjectIDs returns the ids of all subjects belonging to an exam.
	SubjectIDs(ctx context.Context, examID int64) ([]int64, error)
}

// QuestionRepo manages the content pool.
type QuestionRepo interface {
	// BySubjects returns questions whose subject id is in subjectIDs,
	// filtered by f, ordered by ascending id. Choices are loaded.
	BySubjects(ctx context.Context, subjectIDs []int64, f QuestionFilter) ([]quiz.Question, error)

	// ByID returns one question with its choices, or quiz.ErrNotFound.
	ByID(ctx context.Context, id int64) (*quiz.Question, error)

	// Create inserts a question and its choices in one transaction.
	// It rejects drafts without exactly one correct choice and drafts
	// whose text already exists in the same subject (quiz.ErrDuplicate).
	Create(ctx context.Context, q *quiz.Question) error

	// ExistsByText reports whether a question with exactly this text
	// already exists under the subject.
	ExistsByText(ctx context.Context, subjectID int64, text string) (bool, error)
}

// AttemptRepo is the append-only attempt log.
type AttemptRepo interface {
	// Append records one attempt. The attempt's ID is set on return.
	Append(ctx context.Context, a *quiz.Attempt) error

	// AppendBatch records attempts atomically: either every attempt
	// lands or none do. IDs are set on return.
	AppendBatch(ctx context.Context, attempts []quiz.Attempt) error

	// ByLearner returns all attempts for a learner in insertion order.
	ByLearner(ctx context.Context, learnerID int64) ([]quiz.Attempt, error)

	// LastN returns the learner's most recent n attempts in
	// chronological (oldest-first) order. A non-positive n yields no
	// attempts.
	LastN(ctx context.Context, learnerID int64, n int) ([]quiz.Attempt, error)
}

// UserRepo manages learner accounts.
type UserRepo interface {
	// Create inserts a user. The user's ID is set on return. A taken
	// username is rejected with quiz.ErrDuplicate.
	Create(ctx context.Context, u *quiz.User) error

	// ByUsername returns a user or quiz.ErrNotFound.
	ByUsername(ctx context.Context, username string) (*quiz.User, error)
}
