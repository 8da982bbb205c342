package refinement

import (
	"fmt"
	"strings"

	"github.com/redlinehq/redline/internal/models"
)

// maxCritiqueIssues bounds how many redline issues a critique relays to
// the drafting agent. The highest-severity issues carry the most signal.
const maxCritiqueIssues = 5

// Critique summarizes an evaluation for the drafting agent.
type Critique struct {
	RiskScore      int                   `json:"risk_score"`
	Classification models.Classification `json:"classification"`
	Summary        string                `json:"summary"`
	Issues         []models.Issue        `json:"issues"`
}

// BuildCritique distills an evaluation result into actionable feedback.
func BuildCritique(result *models.EvaluationResult) *Critique {
	issues := topIssues(result.Redline.Issues, maxCritiqueIssues)
	return &Critique{
		RiskScore:      result.RiskScore,
		Classification: result.Classification,
		Summary:        critiqueSummary(result),
		Issues:         issues,
	}
}

// Prompt renders the critique as the instruction text for the next draft.
func (c *Critique) Prompt() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Your previous draft scored %d (classification: %s). %s\n", c.RiskScore, c.Classification, c.Summary)
	if len(c.Issues) > 0 {
		sb.WriteString("Address these issues in the next revision:\n")
		for _, issue := range c.Issues {
			fmt.Fprintf(&sb, "- [%s/%s] %s\n", issue.Component, issue.Severity, issue.Message)
		}
	}
	sb.WriteString("Rewrite the narrative to resolve the issues above. Respond with the revised narrative only.")
	return sb.String()
}

func critiqueSummary(result *models.EvaluationResult) string {
	worst := worstComponent(result.ComponentScores)
	if worst == "" {
		return "No single component dominates the penalty."
	}
	return fmt.Sprintf("The largest penalty comes from %s (%d points).", worst, result.ComponentScores[worst])
}

// worstComponent returns the component with the highest penalty,
// breaking ties lexicographically for stable output.
func worstComponent(scores map[string]int) string {
	var name string
	best := -1
	for component, penalty := range scores {
		if component == models.TotalPenaltyKey {
			continue
		}
		if penalty > best || (penalty == best && component < name) {
			name = component
			best = penalty
		}
	}
	if best <= 0 {
		return ""
	}
	return name
}

// topIssues returns up to n issues ordered critical, high, medium,
// preserving the redline's order within each tier.
func topIssues(issues []models.Issue, n int) []models.Issue {
	out := make([]models.Issue, 0, n)
	for _, sev := range []models.Severity{models.SeverityCritical, models.SeverityHigh, models.SeverityMedium} {
		for _, issue := range issues {
			if issue.Severity != sev {
				continue
			}
			out = append(out, issue)
			if len(out) == n {
				return out
			}
		}
	}
	return out
}
