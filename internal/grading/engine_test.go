package grading

import (
	"testing"

	"github.com/mind-engage/culturetest/internal/assessment"
)

func fourPoint(id, tag string) assessment.Question {
	return assessment.Question{
		ID:     id,
		Tag:    tag,
		Prompt: "How do you handle " + id + "?",
		Options: []assessment.Option{
			{Text: "always", Score: 10},
			{Text: "often", Score: 7},
			{Text: "sometimes", Score: 4},
			{Text: "rarely", Score: 1},
		},
	}
}

func TestScoreWorkedExample(t *testing.T) {
	qs := []assessment.Question{fourPoint("q1", "Ownership"), fourPoint("q2", "Ownership")}
	res := Score(qs, assessment.Answers{"q1": 10, "q2": 1})

	if res.RawScore != 11 || res.MinPossible != 2 || res.MaxPossible != 20 || res.Range != 18 {
		t.Fatalf("raw/min/max/range = %v/%v/%v/%v, want 11/2/20/18", res.RawScore, res.MinPossible, res.MaxPossible, res.Range)
	}
	if res.Percentage != 50 {
		t.Fatalf("percentage = %d, want 50", res.Percentage)
	}
	if res.AverageScorePercentage != 55 {
		t.Fatalf("average percentage = %d, want 55", res.AverageScorePercentage)
	}
	if res.Insight != InsightConsistent {
		t.Fatalf("insight = %q, want %q", res.Insight, InsightConsistent)
	}
	if got := res.CategoryPercentages["Ownership"]; got != 50 {
		t.Fatalf("category percentage = %d, want 50", got)
	}
}

func TestScoreExtremes(t *testing.T) {
	qs := []assessment.Question{
		fourPoint("q1", "A"),
		{ID: "q2", Tag: "B", Prompt: "p", Options: []assessment.Option{{Text: "x", Score: -5}, {Text: "y", Score: 3}}},
		{ID: "q3", Tag: "A", Prompt: "p", Options: []assessment.Option{{Text: "x", Score: 100}, {Text: "y", Score: 40}, {Text: "z", Score: 70}}},
	}
	lowest := assessment.Answers{}
	highest := assessment.Answers{}
	for _, q := range qs {
		lowest[q.ID] = assessment.MinScore(q)
		highest[q.ID] = assessment.MaxScore(q)
	}
	if got := Score(qs, lowest).Percentage; got != 0 {
		t.Fatalf("all minimum answers: percentage = %d, want 0", got)
	}
	res := Score(qs, highest)
	if res.Percentage != 100 {
		t.Fatalf("all maximum answers: percentage = %d, want 100", res.Percentage)
	}
	for _, c := range res.Categories {
		if c.Percentage != 100 {
			t.Fatalf("category %s = %d, want 100", c.Tag, c.Percentage)
		}
	}
}

func TestScoreEqualOptionsGuardsZeroRange(t *testing.T) {
	flat := assessment.Question{ID: "q1", Tag: "Flat", Prompt: "p", Options: []assessment.Option{{Text: "a", Score: 5}, {Text: "b", Score: 5}}}
	res := Score([]assessment.Question{flat}, assessment.Answers{"q1": 5})
	if res.Percentage != 0 {
		t.Fatalf("percentage = %d, want 0", res.Percentage)
	}
	if res.CategoryPercentages["Flat"] != 0 {
		t.Fatalf("category percentage = %d, want 0", res.CategoryPercentages["Flat"])
	}
}

func TestScoreEmptyQuestions(t *testing.T) {
	res := Score(nil, assessment.Answers{"q1": 10})
	if res.RawScore != 0 || res.Percentage != 0 || res.AverageScorePercentage != 0 || len(res.Categories) != 0 {
		t.Fatalf("expected all-zero result, got %+v", res)
	}
}

func TestScoreUnansweredPolicy(t *testing.T) {
	qs := []assessment.Question{fourPoint("q1", "A"), fourPoint("q2", "B")}
	answers := assessment.Answers{"q1": 10}

	res := Score(qs, answers)
	// full range: (10-2)/(20-2) = 44.4%
	if res.Percentage != 44 {
		t.Fatalf("default policy percentage = %d, want 44", res.Percentage)
	}
	if res.CategoryPercentages["A"] != 100 || res.CategoryPercentages["B"] != 0 {
		t.Fatalf("category percentages = %v, want A:100 B:0", res.CategoryPercentages)
	}
	if res.Answered != 1 || res.QuestionCount != 2 {
		t.Fatalf("answered/questions = %d/%d, want 1/2", res.Answered, res.QuestionCount)
	}

	res = Score(qs, answers, WithAnsweredOnlyRange(true))
	if res.Percentage != 100 {
		t.Fatalf("answered-only policy percentage = %d, want 100", res.Percentage)
	}
}

func TestScoreCategoriesKeepFirstAppearanceOrder(t *testing.T) {
	qs := []assessment.Question{fourPoint("q1", "Reliability"), fourPoint("q2", ""), fourPoint("q3", "Reliability"), fourPoint("q4", "Agility")}
	res := Score(qs, assessment.Answers{"q1": 10, "q2": 4, "q3": 10, "q4": 1})

	want := []string{"Reliability", assessment.DefaultTag, "Agility"}
	if len(res.Categories) != len(want) {
		t.Fatalf("categories = %+v", res.Categories)
	}
	for i, tag := range want {
		if res.Categories[i].Tag != tag {
			t.Fatalf("category[%d] = %q, want %q", i, res.Categories[i].Tag, tag)
		}
	}
	if len(res.Strengths) != 1 || res.Strengths[0] != "Reliability" {
		t.Fatalf("strengths = %v, want [Reliability]", res.Strengths)
	}
	// General: (4-1)/9 = 33%, Agility: 0%
	if len(res.DevelopmentAreas) != 2 || res.DevelopmentAreas[0] != assessment.DefaultTag || res.DevelopmentAreas[1] != "Agility" {
		t.Fatalf("development areas = %v", res.DevelopmentAreas)
	}
	if res.Categories[1].Insight != InsightNeedsImprovement || res.Categories[2].Insight != InsightNeedsAttention {
		t.Fatalf("insights = %q, %q", res.Categories[1].Insight, res.Categories[2].Insight)
	}
}

func TestPercentRoundsHalfUp(t *testing.T) {
	cases := []struct {
		raw, lo, hi float64
		want        int
	}{
		{1, 0, 8, 13},   // 12.5
		{5, 0, 8, 63},   // 62.5
		{3, 0, 8, 38},   // 37.5
		{5, 5, 5, 0},    // zero range
		{0, 10, 0, 0},   // inverted range
		{-3, -5, 5, 20}, // negative scale
	}
	for _, c := range cases {
		if got := Percent(c.raw, c.lo, c.hi); got != c.want {
			t.Fatalf("Percent(%v,%v,%v) = %d, want %d", c.raw, c.lo, c.hi, got, c.want)
		}
	}
}

func TestClassifyBands(t *testing.T) {
	cases := []struct {
		p    int
		want Insight
	}{
		{100, InsightRoleModel},
		{75, InsightRoleModel},
		{74, InsightConsistent},
		{50, InsightConsistent},
		{49, InsightNeedsImprovement},
		{25, InsightNeedsImprovement},
		{24, InsightNeedsAttention},
		{0, InsightNeedsAttention},
	}
	for _, c := range cases {
		if got := Classify(c.p); got != c.want {
			t.Fatalf("Classify(%d) = %q, want %q", c.p, got, c.want)
		}
	}
}
