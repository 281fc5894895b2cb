package grade

import (
	"testing"

	"github.com/nathoo/tutorcore/types"
)

func printQuestion() types.QuestionDef {
	return types.QuestionDef{
		ID:      "q1",
		Prompt:  "Print the word hello.",
		Answer:  "print('hello')",
		Accepts: []string{`print("hello")`},
		Hint:    "Use print with quotes around the text.",
	}
}

func TestEvaluate_ExactMatch(t *testing.T) {
	q := printQuestion()

	tests := []struct {
		name string
		raw  string
	}{
		{"exact", "print('hello')"},
		{"case folded", "PRINT('HELLO')"},
		{"trimmed", "  print('hello')  "},
		{"accepted variant", `print("hello")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Evaluate(tt.raw, q, Options{Mode: ModeFuzzy})
			if v.Kind != types.VerdictCorrect {
				t.Errorf("Evaluate(%q) = %v, want correct", tt.raw, v.Kind)
			}
		})
	}
}

func TestEvaluate_ExactDominatesFuzzy(t *testing.T) {
	q := printQuestion()
	// Even with an absurd threshold, an exact match is Correct.
	v := Evaluate("print('hello')", q, Options{Mode: ModeFuzzy, AlmostThreshold: 0.999999})
	if v.Kind != types.VerdictCorrect {
		t.Errorf("got %v, want correct", v.Kind)
	}
}

func TestEvaluate_FuzzyBands(t *testing.T) {
	q := types.QuestionDef{Answer: "hi", Hint: "Just say hi."}

	// similarity("hii","hi") = 2/3 ≈ 0.67 → below 0.8 → incorrect.
	v := Evaluate("hii", q, Options{Mode: ModeFuzzy, AlmostThreshold: 0.8})
	if v.Kind != types.VerdictIncorrect {
		t.Errorf("hii at 0.8: got %v, want incorrect", v.Kind)
	}
	if v.Message != q.Hint {
		t.Errorf("incorrect verdict message = %q, want hint", v.Message)
	}

	// Same submission at a lower threshold is almost correct.
	v = Evaluate("hii", q, Options{Mode: ModeFuzzy, AlmostThreshold: 0.6})
	if v.Kind != types.VerdictAlmostCorrect {
		t.Errorf("hii at 0.6: got %v, want almost_correct", v.Kind)
	}
}

func TestEvaluate_ExactModeNoFuzzyFallback(t *testing.T) {
	q := types.QuestionDef{Answer: "hi", Hint: "hint"}
	v := Evaluate("hii", q, Options{Mode: ModeExact})
	if v.Kind != types.VerdictIncorrect {
		t.Errorf("got %v, want incorrect (no fuzzy fallback)", v.Kind)
	}
}

func TestEvaluate_CaseSensitive(t *testing.T) {
	q := types.QuestionDef{Answer: "Print('Hi')"}
	v := Evaluate("print('hi')", q, Options{Mode: ModeExact, CaseSensitive: true})
	if v.Kind != types.VerdictIncorrect {
		t.Errorf("case-sensitive mismatch: got %v, want incorrect", v.Kind)
	}
	v = Evaluate(" Print('Hi') ", q, Options{Mode: ModeExact, CaseSensitive: true})
	if v.Kind != types.VerdictCorrect {
		t.Errorf("case-sensitive exact: got %v, want correct", v.Kind)
	}
}

func TestEvaluate_StructuralChecks(t *testing.T) {
	q := types.QuestionDef{
		Answer: `printf("hello");`,
		Checks: []types.CheckRule{
			{Type: "ends_with", Value: ";", Message: "don't forget the semicolon"},
			{Type: "balanced", Open: "(", Close: ")"},
			{Type: "quote_pair", Value: `"`},
		},
	}

	tests := []struct {
		name    string
		raw     string
		want    types.VerdictKind
		message string
	}{
		{"missing terminator", `printf("hello")`, types.VerdictMalformed, "don't forget the semicolon"},
		{"unbalanced parens", `printf("hello";`, types.VerdictMalformed, ""},
		{"odd quotes", `printf("hello);`, types.VerdictMalformed, ""},
		{"well formed", `printf("hello");`, types.VerdictCorrect, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Evaluate(tt.raw, q, Options{Mode: ModeFuzzy})
			if v.Kind != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.raw, v.Kind, tt.want)
			}
			if tt.message != "" && v.Message != tt.message {
				t.Errorf("message = %q, want %q", v.Message, tt.message)
			}
		})
	}
}

func TestEvaluate_FirstFailingCheckWins(t *testing.T) {
	q := types.QuestionDef{
		Answer: "x = 5;",
		Checks: []types.CheckRule{
			{Type: "contains", Value: "=", Message: "first"},
			{Type: "ends_with", Value: ";", Message: "second"},
		},
	}
	v := Evaluate("x 5", q, Options{})
	if v.Kind != types.VerdictMalformed || v.Message != "first" {
		t.Errorf("got (%v, %q), want malformed with first rule's message", v.Kind, v.Message)
	}
}

func TestEvaluate_ChecksRunOnTrimmedInput(t *testing.T) {
	q := types.QuestionDef{
		Answer: "x = 5;",
		Checks: []types.CheckRule{{Type: "ends_with", Value: ";"}},
	}
	v := Evaluate("x = 5;  \n", q, Options{})
	if v.Kind != types.VerdictCorrect {
		t.Errorf("trailing whitespace should not break the terminator check: got %v", v.Kind)
	}
}

func TestKnownCheckType(t *testing.T) {
	for _, known := range []string{"ends_with", "contains", "balanced", "quote_pair"} {
		if !KnownCheckType(known) {
			t.Errorf("KnownCheckType(%q) = false", known)
		}
	}
	if KnownCheckType("regex") {
		t.Error("KnownCheckType(regex) = true")
	}
}

func TestEvaluate_EndToEndScenario(t *testing.T) {
	// The "Hi" scenario: maxAttempts semantics live in the lesson machine,
	// but grading itself must produce incorrect-then-correct.
	q := types.QuestionDef{Prompt: "print('Hi')", Answer: "hi", Hint: "Two letters."}
	opts := Options{Mode: ModeFuzzy, AlmostThreshold: 0.8}

	v := Evaluate("Hii", q, opts)
	if v.Kind != types.VerdictIncorrect {
		t.Fatalf("Hii: got %v, want incorrect", v.Kind)
	}
	if v.Similarity <= 0.6 || v.Similarity >= 0.7 {
		t.Errorf("similarity = %v, want ≈0.67", v.Similarity)
	}

	v = Evaluate("hi", q, opts)
	if v.Kind != types.VerdictCorrect {
		t.Fatalf("hi: got %v, want correct", v.Kind)
	}
}
