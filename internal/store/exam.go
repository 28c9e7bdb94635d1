package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/UgwuGeorge/Past-Questions/internal/quiz"
)

type examRepo struct {
	db *sql.DB
}

func (r *examRepo) GetOrCreate(ctx context.Context, name, description string) (*quiz.Exam, error) {
	ex, err := r.ByName(ctx, name)
	if err == nil {
		return ex, nil
	}
	if !errors.Is(err, quiz.ErrNotFound) {
		return nil, err
	}

	var id int64
	err = r.db.QueryRowContext(ctx,
		`INSERT INTO exams (name, description) VALUES (?, ?) RETURNING id`,
		name, description,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert exam: %w", err)
	}
	return &quiz.Exam{ID: id, Name: name, Description: description}, nil
}

func (r *examRepo) ByID(ctx context.Context, id int64) (*quiz.Exam, error) {
	ex := &quiz.Exam{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM exams WHERE id = ?`, id,
	).Scan(&ex.ID, &ex.Name, &ex.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("exam %d: %w", id, quiz.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query exam: %w", err)
	}
	if err := r.loadSubjects(ctx, ex); err != nil {
		return nil, err
	}
	return ex, nil
}

func (r *examRepo) ByName(ctx context.Context, name string) (*quiz.Exam, error) {
	ex := &quiz.Exam{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM exams WHERE name = ?`, name,
	).Scan(&ex.ID, &ex.Name, &ex.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("exam %q: %w", name, quiz.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query exam: %w", err)
	}
	if err := r.loadSubjects(ctx, ex); err != nil {
		return nil, err
	}
	return ex, nil
}

func (r *examRepo) List(ctx context.Context) ([]quiz.Exam, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description FROM exams ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	defer rows.Close()

	var exams []quiz.Exam
	for rows.Next() {
		var ex quiz.Exam
		if err := rows.Scan(&ex.ID, &ex.Name, &ex.Description); err != nil {
			return nil, fmt.Errorf("scan exam: %w", err)
		}
		exams = append(exams, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exams: %w", err)
	}

	for i := range exams {
		if err := r.loadSubjects(ctx, &exams[i]); err != nil {
			return nil, err
		}
	}
	return exams, nil
}

func (r *examRepo) GetOrCreateSubject(ctx context.Context, examID int64, name string) (*quiz.Subject, error) {
	sub := &quiz.Subject{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, exam_id, name FROM subjects WHERE exam_id = ? AND name = ?`,
		examID, name,
	).Scan(&sub.ID, &sub.ExamID, &sub.Name)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query subject: %w", err)
	}

	var id int64
	err = r.db.QueryRowContext(ctx,
		`INSERT INTO subjects (exam_id, name) VALUES (?, ?) RETURNING id`,
		examID, name,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert subject: %w", err)
	}
	return &quiz.Subject{ID: id, ExamID: examID, Name: name}, nil
}

func (r *examRepo) SubjectIDs(ctx context.Context, examID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM subjects WHERE exam_id = ? ORDER BY id`, examID)
	if err != nil {
		return nil, fmt.Errorf("query subject ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan subject id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *examRepo) loadSubjects(ctx context.Context, ex *quiz.Exam) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, exam_id, name FROM subjects WHERE exam_id = ? ORDER BY id`, ex.ID)
	if err != nil {
		return fmt.Errorf("query subjects: %w", err)
	}
	defer rows.Close()

	ex.Subjects = nil
	for rows.Next() {
		var sub quiz.Subject
		if err := rows.Scan(&sub.ID, &sub.ExamID, &sub.Name); err != nil {
			return fmt.Errorf("scan subject: %w", err)
		}
		ex.Subjects = append(ex.Subjects, sub)
	}
	return rows.Err()
}
