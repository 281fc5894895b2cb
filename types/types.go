// Package types defines the shared data structures for the TutorCore engine.
// This package contains only type definitions, no logic beyond String()
// helpers for enums.
package types

// Speaker identifies who delivers a dialogue line.
type Speaker string

// DialogueLine is a single line of scripted dialogue.
type DialogueLine struct {
	Speaker  Speaker
	Text     string
	Portrait string // opaque asset handle for the host's display layer
}

// Script is an ordered dialogue sequence; insertion order is playback order.
type Script []DialogueLine

// Tier is a discrete performance band selecting which question set and
// difficulty a lesson presents.
type Tier int

const (
	TierStruggling Tier = iota
	TierNovice
	TierCompetent
	TierMaster
)

func (t Tier) String() string {
	switch t {
	case TierStruggling:
		return "struggling"
	case TierNovice:
		return "novice"
	case TierCompetent:
		return "competent"
	case TierMaster:
		return "master"
	default:
		return "unknown"
	}
}

// Phase is the lesson state machine phase.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseIntroducing
	PhaseTeaching
	PhaseAskingQuestion
	PhaseReviewingFeedback
	PhaseConcluding
	PhaseRemediating
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseIntroducing:
		return "introducing"
	case PhaseTeaching:
		return "teaching"
	case PhaseAskingQuestion:
		return "asking_question"
	case PhaseReviewingFeedback:
		return "reviewing_feedback"
	case PhaseConcluding:
		return "concluding"
	case PhaseRemediating:
		return "remediating"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// VerdictKind classifies a graded answer.
type VerdictKind int

const (
	VerdictCorrect VerdictKind = iota
	VerdictAlmostCorrect
	VerdictIncorrect
	VerdictMalformed
)

func (k VerdictKind) String() string {
	switch k {
	case VerdictCorrect:
		return "correct"
	case VerdictAlmostCorrect:
		return "almost_correct"
	case VerdictIncorrect:
		return "incorrect"
	case VerdictMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Verdict is the outcome of grading a single submission.
type Verdict struct {
	Kind       VerdictKind
	Message    string  // hint or malformed reason; empty when Correct
	Similarity float64 // normalized similarity to the answer (fuzzy mode only)
}

// CheckRule is a structural precondition on a code-like answer, evaluated
// before any matching. Rules are data; the grade package maps Type to an
// evaluator.
type CheckRule struct {
	Type    string // "ends_with", "contains", "balanced", "quote_pair"
	Value   string // suffix / substring / quote character
	Open    string // balanced: opening token
	Close   string // balanced: closing token
	Message string // user-facing failure text
}

// FieldDef describes one input field of a terminal form.
type FieldDef struct {
	Label  string
	Accept string // "any", "digits", "letters"
}

// QuestionDef is the immutable content of a single question.
type QuestionDef struct {
	ID           string
	Prompt       string
	Answer       string
	Accepts      []string // literal variants also graded Correct
	Hint         string
	DetailedHint string
	Explanation  string
	Success      string // feedback line shown on a correct answer
	Checks       []CheckRule
	Fields       []FieldDef // empty means one free-form field
}

// TierContent is the teaching script and question set for one tier.
type TierContent struct {
	Teaching  Script
	Questions []QuestionDef
}

// Conclusion holds the closing lines for a lesson, split by outcome.
type Conclusion struct {
	Pass string
	Fail string
}

// LessonDef is the full immutable definition of one lesson.
type LessonDef struct {
	ID                     string
	Title                  string
	Intro                  Script
	Tiers                  map[Tier]TierContent
	Conclusions            map[Tier]Conclusion
	MaxAttempts            int
	AlmostThreshold        float64 // fuzzy-match band lower bound, in (0,1]
	PassThreshold          float64 // success rate below this routes to remediation
	CaseSensitive          bool
	MalformedCountsAttempt bool
}
