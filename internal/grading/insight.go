package grading

// Insight is a qualitative band for a percentage.
type Insight string

const (
	InsightRoleModel        Insight = "role-model"
	InsightConsistent       Insight = "consistent"
	InsightNeedsImprovement Insight = "needs-improvement"
	InsightNeedsAttention   Insight = "needs-attention"
)

// Band cut points, inclusive lower bounds. Used for the overall result,
// every category, and the strength/development lists.
const (
	RoleModelMin        = 75
	ConsistentMin       = 50
	NeedsImprovementMin = 25
)

// Classify maps a percentage to its insight band.
func Classify(p int) Insight {
	switch {
	case p >= RoleModelMin:
		return InsightRoleModel
	case p >= ConsistentMin:
		return InsightConsistent
	case p >= NeedsImprovementMin:
		return InsightNeedsImprovement
	default:
		return InsightNeedsAttention
	}
}

// IsStrength reports whether a category percentage is listed as a strength.
func IsStrength(p int) bool { return p >= RoleModelMin }

// NeedsDevelopment reports whether a category percentage is listed as a development area.
func NeedsDevelopment(p int) bool { return p < ConsistentMin }
