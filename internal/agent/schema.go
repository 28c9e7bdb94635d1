package agent

import "github.com/UgwuGeorge/Past-Questions/internal/llm"

// command is the structured action the model picks each turn. Exactly
// one of the finite command names; arguments the command does not use
// are ignored.
type command struct {
	Command    string `json:"command"`
	Answer     string `json:"answer,omitempty"`
	Exam       string `json:"exam,omitempty"`
	Subject    string `json:"subject,omitempty"`
	Topic      string `json:"topic,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	QuestionID int64  `json:"question_id,omitempty"`
	Correct    bool   `json:"correct,omitempty"`
	Count      int    `json:"count,omitempty"`
	Last       int    `json:"last,omitempty"`
}

const (
	cmdList       = "list"
	cmdFetchOne   = "fetchOne"
	cmdFetchBatch = "fetchBatch"
	cmdLog        = "log"
	cmdScore      = "score"
	cmdGenerate   = "generate"
	cmdAnswer     = "answer"
)

// commandSchema constrains the model's first call each turn to one of
// the dispatcher's commands.
var commandSchema = &llm.Schema{
	Name:        "agent-command",
	Description: "The next action the exam practice assistant takes",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"command": map[string]any{
				"type": "string",
				"enum": []any{cmdList, cmdFetchOne, cmdFetchBatch, cmdLog, cmdScore, cmdGenerate, cmdAnswer},
				"description": "list: show exams and subjects. fetchOne: next adaptive question. fetchBatch: a set of questions. log: record the learner's answer to a question. score: session report. generate: create new questions. answer: reply directly without touching the database.",
			},
			"answer": map[string]any{
				"type":        "string",
				"description": "The direct reply when command is answer",
			},
			"exam": map[string]any{
				"type":        "string",
				"description": "Exam name, e.g. WAEC",
			},
			"subject": map[string]any{
				"type":        "string",
				"description": "Subject name, required for generate",
			},
			"topic": map[string]any{
				"type":        "string",
				"description": "Topic label for generate",
			},
			"difficulty": map[string]any{
				"type":        "string",
				"enum":        []any{"", "easy", "medium", "hard"},
				"description": "Difficulty tier for generate",
			},
			"question_id": map[string]any{
				"type":        "integer",
				"description": "Question id for log",
			},
			"correct": map[string]any{
				"type":        "boolean",
				"description": "Whether the learner answered correctly, for log",
			},
			"count": map[string]any{
				"type":        "integer",
				"description": "How many questions for fetchBatch or generate",
			},
			"last": map[string]any{
				"type":        "integer",
				"description": "How many recent attempts for score",
			},
		},
		"required":             []any{"command"},
		"additionalProperties": false,
	},
}
