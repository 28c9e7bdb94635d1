package quiz

import "errors"

// Sentinel conditions surfaced by the engine. All are recoverable at the
// engine boundary and returned as values, never panics.
var (
	// ErrNotFound reports an unknown exam, subject, or question, or an
	// entirely empty content scope during selection.
	ErrNotFound = errors.New("not found")

	// ErrEmptyHistory reports a learner with no attempts. Distinct from
	// zero accuracy: no data and all-wrong answers mean different things.
	ErrEmptyHistory = errors.New("no attempt history")

	// ErrDuplicate reports a record that already exists in its scope:
	// a question text within a subject, or a taken username.
	ErrDuplicate = errors.New("duplicate record")
)
