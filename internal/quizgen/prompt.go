package quizgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an exam content author writing past-questions style practice items for standardized school-leaving examinations.

Rules:
- Generate multiple-choice questions in the register and difficulty of the named examination body.
- Each question has one stem, four options, and exactly one correct option.
- Distractors must reflect plausible candidate mistakes, not random values.
- Use plain text for all content. No LaTeX, no markdown, no numbering in the stem.
- The explanation states why the correct option is correct in one or two sentences.
- Every question must be answerable from its own text alone.
- Do not repeat any question from the "already in the bank" list.`

// buildUserMessage constructs the user message from the input and
// config limits.
func buildUserMessage(input GenerateInput, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Examination: %s\n", input.Exam)
	fmt.Fprintf(&b, "Subject: %s\n", input.Subject)
	if input.Topic != "" {
		fmt.Fprintf(&b, "Topic: %s\n", input.Topic)
	}
	if input.Difficulty != "" {
		fmt.Fprintf(&b, "Difficulty: %s\n", input.Difficulty)
	}
	fmt.Fprintf(&b, "Questions to generate: %d\n", input.Count)

	b.WriteString("\nAlready in the bank:\n")
	b.WriteString(buildAvoid(input.Avoid, cfg.MaxAvoid))

	return b.String()
}

// buildAvoid formats the existing question texts for the prompt,
// keeping only the most recent N.
func buildAvoid(avoid []string, max int) string {
	if len(avoid) == 0 {
		return "None"
	}
	if max > 0 && len(avoid) > max {
		avoid = avoid[len(avoid)-max:]
	}

	var b strings.Builder
	for i, text := range avoid {
		fmt.Fprintf(&b, "%d. %s\n", i+1, text)
	}
	return strings.TrimRight(b.String(), "\n")
}
