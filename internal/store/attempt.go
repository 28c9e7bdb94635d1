package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/UgwuGeorge/Past-Questions/internal/quiz"
)

type attemptRepo struct {
	db *sql.DB
}

func (r *attemptRepo) Append(ctx context.Context, a *quiz.Attempt) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO attempts (learner_id, question_id, topic, difficulty, correct, created_at)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		a.LearnerID, a.QuestionID, a.Topic, string(a.Difficulty), a.Correct, a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("append attempt: %w", err)
	}
	return nil
}

// AppendBatch records attempts in one transaction, so a sitting lands
// completely or not at all.
func (r *attemptRepo) AppendBatch(ctx context.Context, attempts []quiz.Attempt) error {
	if len(attempts) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin attempt batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := range attempts {
		a := &attempts[i]
		if a.CreatedAt.IsZero() {
			a.CreatedAt = time.Now().UTC()
		}
		err := tx.QueryRowContext(ctx,
			`INSERT INTO attempts (learner_id, question_id, topic, difficulty, correct, created_at)
			 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
			a.LearnerID, a.QuestionID, a.Topic, string(a.Difficulty), a.Correct, a.CreatedAt,
		).Scan(&a.ID)
		if err != nil {
			return fmt.Errorf("append attempt batch: %w", err)
		}
	}
	return tx.Commit()
}

func (r *attemptRepo) ByLearner(ctx context.Context, learnerID int64) ([]quiz.Attempt, error) {
	return r.query(ctx,
		`SELECT id, learner_id, question_id, topic, difficulty, correct, created_at
		 FROM attempts WHERE learner_id = ? ORDER BY id`, learnerID)
}

// LastN reads the newest n rows and reverses them so callers receive
// chronological order. A non-positive n yields no attempts; it must
// not reach SQLite, where a negative LIMIT means unlimited.
func (r *attemptRepo) LastN(ctx context.Context, learnerID int64, n int) ([]quiz.Attempt, error) {
	if n <= 0 {
		return nil, nil
	}
	attempts, err := r.query(ctx,
		`SELECT id, learner_id, question_id, topic, difficulty, correct, created_at
		 FROM attempts WHERE learner_id = ? ORDER BY id DESC LIMIT ?`, learnerID, n)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(attempts)-1; i < j; i, j = i+1, j-1 {
		attempts[i], attempts[j] = attempts[j], attempts[i]
	}
	return attempts, nil
}

func (r *attemptRepo) query(ctx context.Context, stmt string, args ...any) ([]quiz.Attempt, error) {
	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []quiz.Attempt
	for rows.Next() {
		var a quiz.Attempt
		if err := rows.Scan(&a.ID, &a.LearnerID, &a.QuestionID, &a.Topic,
			&a.Difficulty, &a.Correct, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return attempts, nil
}
