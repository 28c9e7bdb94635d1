// Package importer loads past-question JSON documents into the content
// pool. One document covers one exam/subject/year; directories are
// walked recursively with per-file error isolation.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/UgwuGeorge/Past-Questions/internal/quiz"
	"github.com/UgwuGeorge/Past-Questions/internal/store"
)

// Document is one importable JSON file.
type Document struct {
	ExamName    string        `json:"exam_name"`
	SubjectName string        `json:"subject_name"`
	Year        int           `json:"year"`
	Questions   []DocQuestion `json:"questions"`
}

// DocQuestion is one question inside a Document.
type DocQuestion struct {
	Text        string      `json:"text"`
	Topic       string      `json:"topic"`
	Difficulty  string      `json:"difficulty"`
	Explanation string      `json:"explanation"`
	Choices     []DocChoice `json:"choices"`
}

// DocChoice is one option of a DocQuestion.
type DocChoice struct {
	Label   string `json:"label"`
	Text    string `json:"text"`
	Correct bool   `json:"is_correct"`
}

// Result counts what one import run did.
type Result struct {
	FilesProcessed int
	FilesFailed    int
	Added          int
	Skipped        int
}

// Importer writes documents into the store.
type Importer struct {
	exams     store.ExamRepo
	questions store.QuestionRepo
	log       *zap.SugaredLogger
}

// New creates an Importer. A nil logger is replaced with a no-op one.
func New(exams store.ExamRepo, questions store.QuestionRepo, log *zap.SugaredLogger) *Importer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Importer{exams: exams, questions: questions, log: log}
}

// ImportPath imports a single JSON file, or every .json file under a
// directory. A failing file is logged and counted, never aborts the
// walk.
func (im *Importer) ImportPath(ctx context.Context, path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	total := &Result{}
	if !info.IsDir() {
		im.importOne(ctx, path, total)
		return total, nil
	}

	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".json") {
			return nil
		}
		im.importOne(ctx, p, total)
		return nil
	})
	if err != nil {
		return total, fmt.Errorf("walk %s: %w", path, err)
	}
	return total, nil
}

func (im *Importer) importOne(ctx context.Context, path string, total *Result) {
	res, err := im.ImportFile(ctx, path)
	if err != nil {
		total.FilesFailed++
		im.log.Warnw("import failed", "file", path, "error", err)
		return
	}
	total.FilesProcessed++
	total.Added += res.Added
	total.Skipped += res.Skipped
	im.log.Infow("imported file", "file", path, "added", res.Added, "skipped", res.Skipped)
}

// ImportFile imports one document. Duplicate questions (same text in
// the same subject) are skipped; so are questions the store rejects as
// malformed. Metadata problems fail the whole file.
func (im *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return im.ImportDocument(ctx, &doc)
}

// ImportDocument writes one parsed document into the store.
func (im *Importer) ImportDocument(ctx context.Context, doc *Document) (*Result, error) {
	examName := strings.ToUpper(strings.TrimSpace(doc.ExamName))
	subjectName := strings.TrimSpace(doc.SubjectName)
	if examName == "" || subjectName == "" || doc.Year == 0 {
		return nil, errors.New("document missing exam_name, subject_name or year")
	}

	exam, err := im.exams.GetOrCreate(ctx, examName, examName+" examination")
	if err != nil {
		return nil, fmt.Errorf("resolve exam: %w", err)
	}
	subject, err := im.exams.GetOrCreateSubject(ctx, exam.ID, subjectName)
	if err != nil {
		return nil, fmt.Errorf("resolve subject: %w", err)
	}

	res := &Result{FilesProcessed: 1}
	for _, dq := range doc.Questions {
		q := buildQuestion(subject.ID, doc.Year, dq)
		if err := im.questions.Create(ctx, q); err != nil {
			if errors.Is(err, quiz.ErrDuplicate) {
				res.Skipped++
				continue
			}
			res.Skipped++
			im.log.Debugw("dropping malformed question", "text", dq.Text, "error", err)
			continue
		}
		res.Added++
	}
	return res, nil
}

func buildQuestion(subjectID int64, year int, dq DocQuestion) *quiz.Question {
	difficulty := quiz.Difficulty(strings.ToLower(strings.TrimSpace(dq.Difficulty)))
	if !difficulty.Valid() {
		difficulty = quiz.Medium
	}

	q := &quiz.Question{
		SubjectID:   subjectID,
		Text:        strings.TrimSpace(dq.Text),
		Topic:       dq.Topic,
		Difficulty:  difficulty,
		Explanation: dq.Explanation,
		Year:        year,
		Source:      quiz.SourceImported,
	}
	for i, c := range dq.Choices {
		label := c.Label
		if label == "" {
			label = string(rune('A' + i))
		}
		q.Choices = append(q.Choices, quiz.Choice{Label: label, Text: c.Text, Correct: c.Correct})
	}
	return q
}
