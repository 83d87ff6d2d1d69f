package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mind-engage/culturetest/internal/assessment"
)

type generatedOption struct {
	Text        string   `json:"text"`
	Score       *float64 `json:"score"`
	Description string   `json:"description"`
}

type generated struct {
	Tag      string            `json:"tag"`
	Question string            `json:"question"`
	Options  []generatedOption `json:"options"`
}

// parseQuestions pulls the outermost {...} block out of the model's reply.
// Questions with a blank prompt are dropped.
func parseQuestions(content string) ([]generated, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, genErr("no JSON object in model reply", nil)
	}
	var body struct {
		Questions []generated `json:"questions"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &body); err != nil {
		return nil, genErr("parse model reply", err)
	}
	if body.Questions == nil {
		return nil, genErr("model reply has no questions array", nil)
	}
	out := body.Questions[:0]
	for _, q := range body.Questions {
		if strings.TrimSpace(q.Question) != "" {
			out = append(out, q)
		}
	}
	return out, nil
}

var defaultOptions = []assessment.Option{
	{Text: "Option 1", Score: 10, Description: "Highest score option"},
	{Text: "Option 2", Score: 7, Description: "Medium-high score option"},
	{Text: "Option 3", Score: 4, Description: "Medium-low score option"},
	{Text: "Option 4", Score: 1, Description: "Lowest score option"},
}

// normalize numbers questions q1..qN and fills in missing tags, option text and scores.
func normalize(in []generated) []assessment.Question {
	out := make([]assessment.Question, 0, len(in))
	for i, g := range in {
		q := assessment.Question{
			ID:     fmt.Sprintf("q%d", i+1),
			Tag:    strings.TrimSpace(g.Tag),
			Prompt: strings.TrimSpace(g.Question),
		}
		if q.Tag == "" {
			q.Tag = assessment.DefaultTag
		}
		if len(g.Options) < assessment.MinOptions {
			q.Options = append([]assessment.Option(nil), defaultOptions...)
		} else {
			for j, o := range g.Options {
				opt := assessment.Option{Text: strings.TrimSpace(o.Text), Description: o.Description}
				if opt.Text == "" {
					opt.Text = fmt.Sprintf("Option %d", j+1)
				}
				if o.Score != nil {
					opt.Score = *o.Score
				} else {
					opt.Score = float64(10 - j*3)
				}
				q.Options = append(q.Options, opt)
			}
		}
		out = append(out, q)
	}
	return out
}

const systemPrompt = "You are an expert in behavioral assessment and organizational psychology. " +
	"Generate relevant behavioral questions that assess specific behaviors and attitudes. " +
	"Always provide the exact number of questions requested."

const retrySystemPrompt = "You are an expert in behavioral assessment. " +
	"Generate ONLY the missing questions in the exact format requested."

const questionFormat = `{
  "questions": [
    {
      "tag": "Category Name",
      "question": "Question text here?",
      "options": [
        {"text": "Option description", "score": 10, "description": "What this option represents"},
        {"text": "Option description", "score": 7, "description": "What this option represents"},
        {"text": "Option description", "score": 4, "description": "What this option represents"},
        {"text": "Option description", "score": 1, "description": "What this option represents"}
      ]
    }
  ]
}`

func buildPrompt(name, behaviors string, n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate EXACTLY %d behavioral assessment questions for a test called %q.\n\n", n, name)
	fmt.Fprintf(&b, "The test focuses on these behaviors and attitudes: %q\n\n", behaviors)
	b.WriteString("For each question provide a clear behavioral question, 4 answer options at different behavioral levels, ")
	b.WriteString("a category tag, and a score per option (10, 7, 4, 1 where 10 is best).\n\n")
	fmt.Fprintf(&b, "Format the response as JSON with EXACTLY %d questions:\n%s\n\n", n, questionFormat)
	b.WriteString("Make questions specific, observable and grounded in real workplace scenarios.")
	return b.String()
}

func buildRetryPrompt(name, behaviors string, n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate EXACTLY %d additional behavioral assessment questions for a test called %q.\n\n", n, name)
	fmt.Fprintf(&b, "The test focuses on these behaviors and attitudes: %q\n\n", behaviors)
	fmt.Fprintf(&b, "Format as JSON with ONLY the additional questions:\n%s\n\n", questionFormat)
	b.WriteString("Focus on unusual scenarios and edge cases.")
	return b.String()
}
