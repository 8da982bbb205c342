package models

// Severity tiers for redline issues.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
)

// Issue is one flagged problem in a narrative.
type Issue struct {
	Component string   `json:"component"`
	Rule      string   `json:"rule"`
	Message   string   `json:"message"`
	Severity  Severity `json:"severity"`
	Snippet   string   `json:"snippet,omitempty"`
}

// Redline is the ordered list of issues flagged during an evaluation,
// with per-tier counts. TotalIssues always equals len(Issues) and the
// tier counts always sum to TotalIssues.
type Redline struct {
	TotalIssues int     `json:"total_issues"`
	Critical    int     `json:"critical"`
	High        int     `json:"high"`
	Medium      int     `json:"medium"`
	Issues      []Issue `json:"issues"`
}

// BuildRedline assembles a Redline from issues, computing tier counts.
func BuildRedline(issues []Issue) Redline {
	r := Redline{
		TotalIssues: len(issues),
		Issues:      issues,
	}
	if issues == nil {
		r.Issues = []Issue{}
	}
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityCritical:
			r.Critical++
		case SeverityHigh:
			r.High++
		default:
			r.Medium++
		}
	}
	return r
}
