package assessment

import "fmt"

// DraftOption is an option as authored. Score stays nil when the field was
// absent, so a missing score is told apart from an explicit 0.
type DraftOption struct {
	Text        string   `json:"text"`
	Score       *float64 `json:"score"`
	Description string   `json:"description,omitempty"`
}

type DraftQuestion struct {
	ID      string        `json:"id"`
	Tag     string        `json:"tag"`
	Prompt  string        `json:"prompt"`
	Options []DraftOption `json:"options"`
}

// DraftTest is the request shape for publishing or previewing a test.
type DraftTest struct {
	Name                 string          `json:"name"`
	BehaviorsDescription string          `json:"behaviors_description"`
	Questions            []DraftQuestion `json:"questions"`
}

// Build converts the draft into a Test. Every option must carry a score;
// the remaining authoring rules are left to Test.Validate.
func (d DraftTest) Build() (Test, error) {
	t := Test{Name: d.Name, BehaviorsDescription: d.BehaviorsDescription}
	for _, dq := range d.Questions {
		q := Question{ID: dq.ID, Tag: dq.Tag, Prompt: dq.Prompt}
		for i, o := range dq.Options {
			if o.Score == nil {
				return Test{}, invalid(fmt.Sprintf("questions[%s].options[%d].score", dq.ID, i), "required")
			}
			q.Options = append(q.Options, Option{Text: o.Text, Score: *o.Score, Description: o.Description})
		}
		t.Questions = append(t.Questions, q)
	}
	return t, nil
}
