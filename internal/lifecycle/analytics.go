package lifecycle

import (
	"math"

	"github.com/mind-engage/culturetest/internal/assessment"
)

// Analytics counts a test's submissions. Views counts every record,
// including ones that were opened and never progressed.
type Analytics struct {
	TestID         string `json:"test_id"`
	Views          int    `json:"views"`
	Starts         int    `json:"starts"`
	Submissions    int    `json:"submissions"`
	CompletionRate int    `json:"completion_rate"`
}

// Summarize derives analytics from the stored records; nothing is cached.
func Summarize(testID string, records []assessment.Submission) Analytics {
	a := Analytics{TestID: testID, Views: len(records)}
	for _, r := range records {
		if r.Started {
			a.Starts++
		}
		if r.Completed {
			a.Submissions++
		}
	}
	if a.Starts > 0 {
		a.CompletionRate = int(math.Floor(float64(a.Submissions)/float64(a.Starts)*100 + 0.5))
	}
	return a
}
