// Package grade evaluates a submitted answer against a question and returns
// a verdict. Grading is a pure decision function: structural checks first,
// then exact matching against the answer and its accepted variants, then an
// optional fuzzy fallback. The caller applies consequences.
package grade

import (
	"strings"

	"github.com/nathoo/tutorcore/engine/match"
	"github.com/nathoo/tutorcore/types"
)

// Mode selects how non-exact submissions are treated.
type Mode int

const (
	// ModeExact grades any non-exact submission Incorrect.
	ModeExact Mode = iota
	// ModeFuzzy grades near-misses AlmostCorrect when similarity to the
	// answer reaches the threshold.
	ModeFuzzy
)

// DefaultAlmostThreshold is used when Options.AlmostThreshold is zero.
const DefaultAlmostThreshold = 0.8

// Options tunes grading for one lesson.
type Options struct {
	Mode            Mode
	AlmostThreshold float64
	CaseSensitive   bool
}

type checkFunc func(raw string, rule types.CheckRule) bool

var checkRegistry = map[string]checkFunc{
	"ends_with":  checkEndsWith,
	"contains":   checkContains,
	"balanced":   checkBalanced,
	"quote_pair": checkQuotePair,
}

// KnownCheckType reports whether the grade package can evaluate the given
// structural check type. The loader uses this during validation.
func KnownCheckType(t string) bool {
	_, ok := checkRegistry[t]
	return ok
}

// Evaluate grades a raw submission. Structural checks run in order against
// the trimmed raw input; the first failing check short-circuits with a
// Malformed verdict carrying its message. Exact matches (after
// normalization) dominate fuzzy scoring regardless of threshold.
func Evaluate(raw string, q types.QuestionDef, opts Options) types.Verdict {
	trimmed := strings.TrimSpace(raw)

	for _, rule := range q.Checks {
		fn, ok := checkRegistry[rule.Type]
		if !ok {
			// Unknown check types are a loader bug; treat as failing
			// so content errors surface instead of passing silently.
			return types.Verdict{Kind: types.VerdictMalformed, Message: "unknown check type: " + rule.Type}
		}
		if !fn(trimmed, rule) {
			return types.Verdict{Kind: types.VerdictMalformed, Message: failureMessage(rule)}
		}
	}

	normalize := match.Normalize
	if opts.CaseSensitive {
		normalize = match.NormalizeKeepCase
	}

	input := normalize(raw)
	if input == normalize(q.Answer) {
		return types.Verdict{Kind: types.VerdictCorrect, Similarity: 1.0}
	}
	for _, variant := range q.Accepts {
		if input == normalize(variant) {
			return types.Verdict{Kind: types.VerdictCorrect, Similarity: 1.0}
		}
	}

	if opts.Mode == ModeFuzzy {
		threshold := opts.AlmostThreshold
		if threshold == 0 {
			threshold = DefaultAlmostThreshold
		}
		sim := match.Similarity(raw, q.Answer)
		if sim >= threshold {
			return types.Verdict{Kind: types.VerdictAlmostCorrect, Message: q.Hint, Similarity: sim}
		}
		return types.Verdict{Kind: types.VerdictIncorrect, Message: q.Hint, Similarity: sim}
	}

	return types.Verdict{Kind: types.VerdictIncorrect, Message: q.Hint}
}

func failureMessage(rule types.CheckRule) string {
	if rule.Message != "" {
		return rule.Message
	}
	switch rule.Type {
	case "ends_with":
		return "your answer should end with " + strconvQuote(rule.Value)
	case "contains":
		return "your answer should contain " + strconvQuote(rule.Value)
	case "balanced":
		return "check that every " + rule.Open + " has a matching " + rule.Close
	case "quote_pair":
		return "check that your quotes come in pairs"
	default:
		return "your answer is not well formed"
	}
}

func strconvQuote(s string) string {
	return "'" + s + "'"
}

func checkEndsWith(raw string, rule types.CheckRule) bool {
	return strings.HasSuffix(raw, rule.Value)
}

func checkContains(raw string, rule types.CheckRule) bool {
	return strings.Contains(raw, rule.Value)
}

// checkBalanced verifies opening and closing tokens pair up left to right.
func checkBalanced(raw string, rule types.CheckRule) bool {
	if rule.Open == "" || rule.Close == "" {
		return true
	}
	depth := 0
	for i := 0; i < len(raw); {
		switch {
		case strings.HasPrefix(raw[i:], rule.Open):
			depth++
			i += len(rule.Open)
		case strings.HasPrefix(raw[i:], rule.Close):
			depth--
			if depth < 0 {
				return false
			}
			i += len(rule.Close)
		default:
			i++
		}
	}
	return depth == 0
}

// checkQuotePair verifies the quote character appears an even number of times.
func checkQuotePair(raw string, rule types.CheckRule) bool {
	q := rule.Value
	if q == "" {
		q = "'"
	}
	return strings.Count(raw, q)%2 == 0
}
