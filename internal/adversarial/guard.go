// Package adversarial detects narratives engineered to game the rubric:
// favorable keywords stuffed into a short window, templated skeleton
// structure, and padding with disconnected numeric tokens. Its penalty is
// additive to total risk and deliberately not reflected in any component
// score: components measure rubric compliance, the guard measures gaming.
package adversarial

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/redlinehq/redline/internal/models"
	"github.com/redlinehq/redline/internal/rules"
)

// Signature identifies one gaming pattern.
type Signature string

const (
	SignatureStuffing Signature = "keyword_stuffing"
	SignatureTemplate Signature = "templated_structure"
	SignaturePadding  Signature = "metric_padding"
)

// Flag is one triggered gaming signature with its supporting detail.
type Flag struct {
	Signature Signature
	Detail    string
}

// Result is the guard's verdict for one narrative.
type Result struct {
	Penalty int
	Flags   []Flag
}

// Triggered reports whether sig fired.
func (r Result) Triggered(sig Signature) bool {
	for _, f := range r.Flags {
		if f.Signature == sig {
			return true
		}
	}
	return false
}

// Guard inspects combined detector evidence for gaming signatures.
type Guard struct {
	cfg rules.AdversarialRules
}

// NewGuard builds a guard from adversarial rule parameters.
func NewGuard(cfg rules.AdversarialRules) *Guard {
	return &Guard{cfg: cfg}
}

var numericToken = regexp.MustCompile(`^\d+([.,]\d+)?$`)

// Inspect runs after all detectors. It only reads favorable-evidence
// spans plus the raw text; it never modifies findings.
func (g *Guard) Inspect(text string, findings []models.DetectorFinding) Result {
	var res Result

	stuffed := g.stuffedCategories(text, findings)
	if len(stuffed) >= 2 {
		res.Penalty += g.cfg.StuffingPenalty
		res.Flags = append(res.Flags, Flag{SignatureStuffing, strings.Join(stuffed, "; ")})
	}

	if detail, ok := g.templatedStructure(text); ok {
		res.Penalty += g.cfg.TemplatePenalty
		res.Flags = append(res.Flags, Flag{SignatureTemplate, detail})
	}

	if detail, ok := g.numericPadding(text); ok {
		res.Penalty += g.cfg.PaddingPenalty
		res.Flags = append(res.Flags, Flag{SignaturePadding, detail})
	}

	return res
}

// stuffedCategories returns one detail line per favorable-evidence
// category that repeats a keyword root above the threshold within the
// configured word window. Two or more stuffed categories trigger the
// stuffing penalty.
func (g *Guard) stuffedCategories(text string, findings []models.DetectorFinding) []string {
	starts := wordStarts(text)
	var details []string

	for _, f := range findings {
		if !f.Favorable || len(f.Spans) == 0 {
			continue
		}

		// Group span word-positions by normalized keyword root. Numeric
		// snippets are left to the padding signature.
		positions := map[string][]int{}
		for _, sp := range f.Spans {
			token := firstToken(sp.Snippet)
			if token == "" || numericToken.MatchString(token) {
				continue
			}
			key := token
			if g.cfg.NormalizeStems {
				key = stem(token)
			}
			positions[key] = append(positions[key], wordIndex(starts, sp.Start))
		}

		for root, pos := range positions {
			if len(pos) < g.cfg.RepetitionThreshold {
				continue
			}
			sort.Ints(pos)
			if withinWindow(pos, g.cfg.RepetitionThreshold, g.cfg.WindowWords) {
				details = append(details,
					fmt.Sprintf("%s: %q repeated %dx within %d words",
						f.Component, root, len(pos), g.cfg.WindowWords))
				break
			}
		}
	}

	sort.Strings(details)
	return details
}

// withinWindow reports whether any `threshold` consecutive positions fit
// inside a window of `window` words.
func withinWindow(sorted []int, threshold, window int) bool {
	for i := 0; i+threshold-1 < len(sorted); i++ {
		if sorted[i+threshold-1]-sorted[i] <= window {
			return true
		}
	}
	return false
}

// templatedStructure flags text whose lines or sentences repeat the same
// two-word opener three or more times, a fixed skeleton wrapped around
// thin content.
func (g *Guard) templatedStructure(text string) (string, bool) {
	openers := map[string]int{}

	// Lines are split on sentence punctuation so each fragment counts
	// once, whether the skeleton repeats per line or per sentence.
	for _, line := range strings.Split(text, "\n") {
		for _, sentence := range splitSentences(line) {
			if key := openerKey(sentence); key != "" {
				openers[key]++
			}
		}
	}

	// Deterministic pick: highest count, then lexicographic.
	best, bestN := "", 0
	for key, n := range openers {
		if n > bestN || (n == bestN && key < best) {
			best, bestN = key, n
		}
	}
	if bestN >= 3 {
		return fmt.Sprintf("opener %q repeated %dx", best, bestN), true
	}
	return "", false
}

// numericPadding flags text where bare numbers dominate: at least 8
// numeric tokens making up more than 15% of all tokens.
func (g *Guard) numericPadding(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}

	numeric := 0
	for _, f := range fields {
		if numericToken.MatchString(strings.Trim(f, ".,;:()")) {
			numeric++
		}
	}

	if numeric >= 8 && float64(numeric)/float64(len(fields)) > 0.15 {
		return fmt.Sprintf("%d of %d tokens are bare numbers", numeric, len(fields)), true
	}
	return "", false
}

// --- text helpers ---

// wordStarts returns the byte offset of every whitespace-separated word.
func wordStarts(text string) []int {
	var starts []int
	inWord := false
	for i, r := range text {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			starts = append(starts, i)
			inWord = true
		}
	}
	return starts
}

// wordIndex maps a byte offset to the index of the word containing it.
func wordIndex(starts []int, offset int) int {
	i := sort.SearchInts(starts, offset+1) - 1
	if i < 0 {
		return 0
	}
	return i
}

func firstToken(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], ".,;:()\"'")
}

// openerKey returns the normalized first two words of a line or
// sentence, or "" when there are fewer than two.
func openerKey(s string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	if len(fields) < 2 {
		return ""
	}
	return strings.Trim(fields[0], ".,;:") + " " + strings.Trim(fields[1], ".,;:")
}

func splitSentences(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
}

// stemSuffixes are stripped longest-first. Naive by design: conflating
// "tested"/"testing" into one root is exactly the aggressive behavior the
// normalize_stems switch controls.
var stemSuffixes = []string{"ication", "ation", "tion", "ment", "ness", "ally", "ing", "ed", "es", "ly", "s"}

func stem(token string) string {
	for _, suf := range stemSuffixes {
		if strings.HasSuffix(token, suf) && len(token)-len(suf) >= 4 {
			return token[:len(token)-len(suf)]
		}
	}
	return token
}
