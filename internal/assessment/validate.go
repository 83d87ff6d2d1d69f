package assessment

import (
	"fmt"
	"math"
	"strings"
)

// MinOptions is the smallest number of options a gradable question may have.
const MinOptions = 2

func (q Question) Validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return invalid("id", "required")
	}
	field := fmt.Sprintf("questions[%s]", q.ID)
	if strings.TrimSpace(q.Prompt) == "" {
		return invalid(field+".prompt", "required")
	}
	if len(q.Options) < MinOptions {
		return invalid(field+".options", "need at least %d options, got %d", MinOptions, len(q.Options))
	}
	for i, o := range q.Options {
		if strings.TrimSpace(o.Text) == "" {
			return invalid(fmt.Sprintf("%s.options[%d].text", field, i), "required")
		}
		if math.IsNaN(o.Score) || math.IsInf(o.Score, 0) {
			return invalid(fmt.Sprintf("%s.options[%d].score", field, i), "must be a finite number")
		}
	}
	return nil
}

// Validate checks the test's authoring invariants. It does not look at ID or CreatedAt.
func (t Test) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return invalid("name", "required")
	}
	if len(t.Questions) == 0 {
		return invalid("questions", "at least one question required")
	}
	seen := make(map[string]struct{}, len(t.Questions))
	for _, q := range t.Questions {
		if err := q.Validate(); err != nil {
			return err
		}
		if _, dup := seen[q.ID]; dup {
			return invalid("questions", "duplicate question id %q", q.ID)
		}
		seen[q.ID] = struct{}{}
	}
	return nil
}

// MinScore is the lowest option score of q. A question without options scores 0.
func MinScore(q Question) float64 {
	if len(q.Options) == 0 {
		return 0
	}
	m := q.Options[0].Score
	for _, o := range q.Options[1:] {
		if o.Score < m {
			m = o.Score
		}
	}
	return m
}

// MaxScore is the highest option score of q. A question without options scores 0.
func MaxScore(q Question) float64 {
	if len(q.Options) == 0 {
		return 0
	}
	m := q.Options[0].Score
	for _, o := range q.Options[1:] {
		if o.Score > m {
			m = o.Score
		}
	}
	return m
}

// ValidateAnswers rejects answers for unknown questions and values that are
// not one of the question's option scores. Missing answers are allowed.
func ValidateAnswers(questions []Question, answers Answers) error {
	byID := make(map[string]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	for qid, v := range answers {
		q, ok := byID[qid]
		if !ok {
			return notFound("question", qid)
		}
		if !hasOptionScore(q, v) {
			return invalid(fmt.Sprintf("answers[%s]", qid), "%v is not an option score", v)
		}
	}
	return nil
}

func hasOptionScore(q Question, v float64) bool {
	for _, o := range q.Options {
		if o.Score == v {
			return true
		}
	}
	return false
}
