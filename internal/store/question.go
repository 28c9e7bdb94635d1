package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/UgwuGeorge/Past-Questions/internal/quiz"
)

type questionRepo struct {
	db *sql.DB
}

func (r *questionRepo) BySubjects(ctx context.Context, subjectIDs []int64, f QuestionFilter) ([]quiz.Question, error) {
	if len(subjectIDs) == 0 {
		return nil, nil
	}

	var b strings.Builder
	b.WriteString(`SELECT id, subject_id, text, topic, difficulty, explanation, year, source
		FROM questions WHERE subject_id IN (?` + strings.Repeat(",?", len(subjectIDs)-1) + `)`)

	args := make([]any, 0, len(subjectIDs)+3)
	for _, id := range subjectIDs {
		args = append(args, id)
	}
	if f.Topic != "" {
		b.WriteString(" AND topic = ?")
		args = append(args, f.Topic)
	}
	if f.Difficulty != "" {
		b.WriteString(" AND difficulty = ?")
		args = append(args, string(f.Difficulty))
	}
	b.WriteString(" ORDER BY id")
	if f.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var questions []quiz.Question
	for rows.Next() {
		var q quiz.Question
		if err := rows.Scan(&q.ID, &q.SubjectID, &q.Text, &q.Topic,
			&q.Difficulty, &q.Explanation, &q.Year, &q.Source); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}

	for i := range questions {
		if err := r.loadChoices(ctx, &questions[i]); err != nil {
			return nil, err
		}
	}
	return questions, nil
}

func (r *questionRepo) ByID(ctx context.Context, id int64) (*quiz.Question, error) {
	q := &quiz.Question{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, subject_id, text, topic, difficulty, explanation, year, source
		 FROM questions WHERE id = ?`, id,
	).Scan(&q.ID, &q.SubjectID, &q.Text, &q.Topic, &q.Difficulty,
		&q.Explanation, &q.Year, &q.Source)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("question %d: %w", id, quiz.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query question: %w", err)
	}
	if err := r.loadChoices(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Create inserts a question and its choices in a single transaction.
// The duplicate check runs inside the same transaction, so concurrent
// backfills for the same scope cannot both insert the same text.
func (r *questionRepo) Create(ctx context.Context, q *quiz.Question) error {
	if q.Text == "" {
		return fmt.Errorf("question text is empty")
	}
	if !q.Difficulty.Valid() {
		return fmt.Errorf("invalid difficulty %q", q.Difficulty)
	}
	correct := 0
	for _, c := range q.Choices {
		if c.Correct {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("question must have exactly one correct choice, got %d", correct)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM questions WHERE subject_id = ? AND text = ?`,
		q.SubjectID, q.Text,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("duplicate check: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("question %q in subject %d: %w", q.Text, q.SubjectID, quiz.ErrDuplicate)
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO questions (subject_id, text, topic, difficulty, explanation, year, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		q.SubjectID, q.Text, q.Topic, string(q.Difficulty), q.Explanation, q.Year, string(q.Source),
	).Scan(&q.ID)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}

	for i := range q.Choices {
		c := &q.Choices[i]
		c.QuestionID = q.ID
		err = tx.QueryRowContext(ctx,
			`INSERT INTO choices (question_id, label, text, is_correct)
			 VALUES (?, ?, ?, ?) RETURNING id`,
			c.QuestionID, c.Label, c.Text, c.Correct,
		).Scan(&c.ID)
		if err != nil {
			return fmt.Errorf("insert choice: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *questionRepo) ExistsByText(ctx context.Context, subjectID int64, text string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM questions WHERE subject_id = ? AND text = ?`,
		subjectID, text,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("exists by text: %w", err)
	}
	return n > 0, nil
}

func (r *questionRepo) loadChoices(ctx context.Context, q *quiz.Question) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, question_id, label, text, is_correct
		 FROM choices WHERE question_id = ? ORDER BY id`, q.ID)
	if err != nil {
		return fmt.Errorf("query choices: %w", err)
	}
	defer rows.Close()

	q.Choices = nil
	for rows.Next() {
		var c quiz.Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.Label, &c.Text, &c.Correct); err != nil {
			return fmt.Errorf("scan choice: %w", err)
		}
		q.Choices = append(q.Choices, c)
	}
	return rows.Err()
}
