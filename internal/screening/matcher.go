package screening

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

var nonName = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// Similarity scores two free-text names on a 0-100 scale. Both inputs are
// normalized and token-sorted before comparison, so the function is
// symmetric and insensitive to token order: "Ali Ahmed" and "Ahmed Ali"
// score 100. Every downstream threshold depends on the exact value, so the
// normalization and scaling here are part of the contract.
func Similarity(a, b string) int {
	na := normalizeName(a)
	nb := normalizeName(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 100
	}

	// Edit distance scaled against the combined length, the same shape of
	// ratio the token-sort matchers in screening vendors use. Divergent
	// names bottom out near zero, single-token noise stays above the
	// match threshold.
	dist := levenshtein.ComputeDistance(na, nb)
	total := utf8.RuneCountInString(na) + utf8.RuneCountInString(nb)
	ratio := 1.0 - float64(dist)/float64(total)
	if ratio < 0 {
		ratio = 0
	}
	return int(math.Round(ratio * 100))
}

// normalizeName case-folds, strips punctuation, collapses whitespace and
// sorts tokens.
func normalizeName(name string) string {
	name = nonName.ReplaceAllString(strings.ToLower(name), "")
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return ""
	}
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
