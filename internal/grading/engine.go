package grading

import (
	"math"

	"github.com/mind-engage/culturetest/internal/assessment"
)

// CategoryScore is the range-normalized result for one tag.
type CategoryScore struct {
	Tag         string  `json:"tag"`
	RawScore    float64 `json:"raw_score"`
	MinPossible float64 `json:"min_possible"`
	MaxPossible float64 `json:"max_possible"`
	Questions   int     `json:"questions"`
	Answered    int     `json:"answered"`
	Percentage  int     `json:"percentage"`
	Insight     Insight `json:"insight"`
}

// Result is the outcome of scoring one set of answers against a question set.
type Result struct {
	RawScore               float64         `json:"raw_score"`
	MinPossible            float64         `json:"min_possible"`
	MaxPossible            float64         `json:"max_possible"`
	Range                  float64         `json:"range"`
	Percentage             int             `json:"percentage"`
	AverageScorePercentage int             `json:"average_score_percentage"`
	QuestionCount          int             `json:"question_count"`
	Answered               int             `json:"answered"`
	CategoryPercentages    map[string]int  `json:"category_percentages"`
	Categories             []CategoryScore `json:"categories"`
	Insight                Insight         `json:"insight"`
	Strengths              []string        `json:"strengths"`
	DevelopmentAreas       []string        `json:"development_areas"`
}

// Engine options

type Option func(*config)

type config struct {
	AnsweredOnlyRange bool // overall min/max over answered questions only
}

// WithAnsweredOnlyRange excludes unanswered questions from the overall
// min/max range as well as from the raw score.
func WithAnsweredOnlyRange(b bool) Option { return func(c *config) { c.AnsweredOnlyRange = b } }

// Score computes raw score, range-normalized percentage, the coarse average
// percentage and per-tag breakdowns. It has no side effects.
//
// Unanswered questions contribute nothing to the raw score. By default their
// min/max still count toward the overall range; per-tag ranges only ever
// include answered questions.
func Score(questions []assessment.Question, answers assessment.Answers, opts ...Option) Result {
	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}

	res := Result{
		QuestionCount:       len(questions),
		CategoryPercentages: map[string]int{},
		Categories:          []CategoryScore{},
		Strengths:           []string{},
		DevelopmentAreas:    []string{},
	}
	if len(questions) == 0 {
		res.Insight = Classify(0)
		return res
	}

	catIndex := map[string]int{}
	globalMax := math.Inf(-1)
	for _, q := range questions {
		lo, hi := assessment.MinScore(q), assessment.MaxScore(q)
		if hi > globalMax {
			globalMax = hi
		}

		tag := q.Category()
		ci, ok := catIndex[tag]
		if !ok {
			ci = len(res.Categories)
			catIndex[tag] = ci
			res.Categories = append(res.Categories, CategoryScore{Tag: tag})
		}
		cat := &res.Categories[ci]
		cat.Questions++

		v, answered := answers[q.ID]
		if answered {
			res.RawScore += v
			res.Answered++
			cat.RawScore += v
			cat.MinPossible += lo
			cat.MaxPossible += hi
			cat.Answered++
		}
		if answered || !cfg.AnsweredOnlyRange {
			res.MinPossible += lo
			res.MaxPossible += hi
		}
	}

	res.Range = res.MaxPossible - res.MinPossible
	res.Percentage = Percent(res.RawScore, res.MinPossible, res.MaxPossible)
	res.Insight = Classify(res.Percentage)
	if globalMax != 0 {
		res.AverageScorePercentage = round(res.RawScore / float64(len(questions)) / globalMax * 100)
	}

	for i := range res.Categories {
		cat := &res.Categories[i]
		cat.Percentage = Percent(cat.RawScore, cat.MinPossible, cat.MaxPossible)
		cat.Insight = Classify(cat.Percentage)
		res.CategoryPercentages[cat.Tag] = cat.Percentage
		if IsStrength(cat.Percentage) {
			res.Strengths = append(res.Strengths, cat.Tag)
		}
		if NeedsDevelopment(cat.Percentage) {
			res.DevelopmentAreas = append(res.DevelopmentAreas, cat.Tag)
		}
	}
	return res
}

// Percent maps raw onto 0..100 anchored at min and max. A zero or negative
// range yields 0 instead of dividing by zero.
func Percent(raw, lo, hi float64) int {
	rng := hi - lo
	if rng <= 0 {
		return 0
	}
	return round((raw - lo) / rng * 100)
}

// round rounds half up, so 49.5 becomes 50 and -0.5 becomes 0.
func round(x float64) int { return int(math.Floor(x + 0.5)) }
