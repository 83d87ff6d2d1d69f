package assessment

import "time"

// DefaultTag groups questions that were authored without a category.
const DefaultTag = "General"

type Option struct {
	Text        string  `json:"text"`
	Score       float64 `json:"score"`
	Description string  `json:"description,omitempty"`
}

type Question struct {
	ID      string   `json:"id"`
	Tag     string   `json:"tag"`
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options"`
}

// Category returns the question's tag, or DefaultTag when it has none.
func (q Question) Category() string {
	if q.Tag == "" {
		return DefaultTag
	}
	return q.Tag
}

// Test is an authored question set. A nil CreatedAt marks a preview that was never published.
type Test struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	BehaviorsDescription string     `json:"behaviors_description"`
	Questions            []Question `json:"questions"`
	CreatedAt            *time.Time `json:"created_at,omitempty"`
}

func (t Test) IsPreview() bool { return t.CreatedAt == nil }

type TestSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Answers maps Question.ID to the score of the chosen option.
type Answers map[string]float64

type Submission struct {
	ID          string     `json:"id"`
	TestID      string     `json:"test_id"`
	Started     bool       `json:"started"`
	Completed   bool       `json:"completed"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Answers     Answers    `json:"answers"`
	Score       float64    `json:"score"`
	Percentage  int        `json:"percentage"`
}

// Completion finalizes an in-progress submission. An empty SubmissionID targets
// the most recently started, not yet completed submission of TestID.
type Completion struct {
	TestID       string
	SubmissionID string
	Answers      Answers
	Score        float64
	Percentage   int
}
