// Package quizgen produces multiple-choice questions with an LLM
// provider. Its output is draft material; persistence-side validation
// decides what actually enters the question bank.
package quizgen

// GenerateInput describes what to generate.
type GenerateInput struct {
	// Exam is the examination body, e.g. "WAEC".
	Exam string

	// Subject is the subject the questions belong to.
	Subject string

	// Topic focuses generation on one topic. Empty means the model
	// picks representative topics for the subject.
	Topic string

	// Difficulty is the target tier: easy, medium or hard.
	Difficulty string

	// Count is how many questions to produce.
	Count int

	// Avoid lists question texts already in the bank, so the model
	// does not repeat them.
	Avoid []string
}

// Config bounds a generation request.
type Config struct {
	MaxTokens   int
	Temperature float64

	// MaxAvoid caps how many existing question texts go into the
	// prompt.
	MaxAvoid int
}

// DefaultConfig returns the generation limits used by the CLI and
// server.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.7,
		MaxAvoid:    40,
	}
}
