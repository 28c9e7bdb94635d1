// Package adaptive maps learner weakness to a difficulty tier and picks
// practice content from an exam's question pool.
package adaptive

import "github.com/UgwuGeorge/Past-Questions/internal/quiz"

// DifficultyConfig holds the fixed thresholds for the accuracy →
// difficulty mapping. The thresholds themselves do not adapt; tests can
// vary them without touching engine code.
type DifficultyConfig struct {
	// WeakThreshold: accuracy strictly below this maps to easy.
	WeakThreshold float64

	// StrongThreshold: accuracy strictly above this maps to hard.
	StrongThreshold float64

	// DefaultTier is used when the learner has no history.
	DefaultTier quiz.Difficulty
}

// DefaultDifficultyConfig returns the standard thresholds.
func DefaultDifficultyConfig() DifficultyConfig {
	return DifficultyConfig{
		WeakThreshold:   0.4,
		StrongThreshold: 0.75,
		DefaultTier:     quiz.Medium,
	}
}

// MapDifficulty converts an accuracy ratio to a difficulty tier. When
// hasHistory is false (new learner, no weakest topic) the default tier
// is returned. Pure and total.
func (c DifficultyConfig) MapDifficulty(accuracy float64, hasHistory bool) quiz.Difficulty {
	if !hasHistory {
		return c.DefaultTier
	}
	switch {
	case accuracy < c.WeakThreshold:
		return quiz.Easy
	case accuracy > c.StrongThreshold:
		return quiz.Hard
	default:
		return quiz.Medium
	}
}
