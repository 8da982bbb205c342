package detectors

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/redlinehq/redline/internal/models"
	"github.com/redlinehq/redline/internal/rules"
)

// compiledPattern is one rule-table entry ready for scanning. Literal
// phrases are compiled case-insensitively with arbitrary whitespace
// allowed between words.
type compiledPattern struct {
	label     string
	points    int
	negatable bool
	re        *regexp.Regexp
}

// negationTail matches a negation cue within the last few words before a
// span, e.g. "not", "no longer", "beyond routine".
var negationTail = regexp.MustCompile(`(?i)\b(not|no|never|without|beyond|rather\s+than)\s+(\S+\s+){0,2}$`)

func compilePatterns(ps []rules.Pattern) ([]compiledPattern, error) {
	out := make([]compiledPattern, 0, len(ps))
	for _, p := range ps {
		var expr string
		if p.Match != "" {
			// Whitespace-resilient literal: any run of whitespace in the
			// phrase matches any run of whitespace in the text.
			words := strings.Fields(p.Match)
			quoted := make([]string, len(words))
			for i, w := range words {
				quoted[i] = regexp.QuoteMeta(w)
			}
			expr = strings.Join(quoted, `\s+`)
		} else {
			expr = p.Regex
		}
		re, err := regexp.Compile("(?i)" + expr)
		if err != nil {
			return nil, fmt.Errorf("detectors: compile pattern %q: %w", p.Label(), err)
		}
		out = append(out, compiledPattern{
			label:     p.Label(),
			points:    p.Points,
			negatable: p.Negatable,
			re:        re,
		})
	}
	return out, nil
}

// matchResult aggregates one scan pass over the text.
type matchResult struct {
	points    int
	spans     []models.Span
	byPattern map[string]int
}

// scan runs every pattern over the text, suppressing negated matches and
// accumulating points per match.
func scan(text string, pats []compiledPattern) matchResult {
	res := matchResult{byPattern: map[string]int{}}
	for _, p := range pats {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			if p.negatable && isNegated(text, loc[0]) {
				continue
			}
			res.points += p.points
			res.byPattern[p.label]++
			res.spans = append(res.spans, models.Span{
				Start:   loc[0],
				End:     loc[1],
				Snippet: text[loc[0]:loc[1]],
				Pattern: p.label,
			})
		}
	}
	return res
}

// isNegated reports whether the text immediately before offset ends in a
// negation cue.
func isNegated(text string, offset int) bool {
	start := offset - 32
	if start < 0 {
		start = 0
	}
	return negationTail.MatchString(text[start:offset])
}

// wordCount counts whitespace-separated tokens.
func wordCount(text string) int {
	return len(strings.Fields(text))
}

// spanWordCount counts the words covered by matched spans.
func spanWordCount(spans []models.Span) int {
	n := 0
	for _, s := range spans {
		n += wordCount(s.Snippet)
	}
	return n
}

// containsAny reports whether text contains any of the literal phrases,
// case-insensitively.
func containsAny(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
