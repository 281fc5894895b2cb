// Package engine provides the Lesson orchestrator that wires together
// dialogue sequencing, answer grading, input forms, and performance
// tracking into a single tick-driven lesson.
package engine

import (
	"fmt"

	"github.com/nathoo/tutorcore/engine/editor"
	"github.com/nathoo/tutorcore/engine/grade"
	"github.com/nathoo/tutorcore/engine/progress"
	"github.com/nathoo/tutorcore/engine/sequence"
	"github.com/nathoo/tutorcore/types"
)

// DefaultRevealRate is the typewriter speed in characters per second used
// when the host does not override it.
const DefaultRevealRate = 40.0

// InvalidStateError reports an operation called in a phase that does not
// accept it. These are programmer errors in the host, not user mistakes.
type InvalidStateError struct {
	Op    string
	Phase types.Phase
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: invalid in phase %s", e.Op, e.Phase)
}

// Hooks is the world-effect boundary. The host maps these to whatever it
// wants: unlock an obstacle, play a sound, load a scene. Nil hooks are
// no-ops; the engine never touches the terminal, the clock, or storage.
type Hooks struct {
	OnQuestionSucceeded func(index int)
	OnLessonFinished    func(tier types.Tier, correct int)
	OnRemediationNeeded func()
	OnLine              func(speaker types.Speaker, text, portrait string)
	OnReveal            func(partial string)
}

// stage records which script the sequencer is currently playing, so its
// completion callback knows where to transition.
type stage int

const (
	stageNone stage = iota
	stageIntro
	stageTeaching
	stageFeedback
	stageConclusion
)

// Lesson is the per-lesson state machine. It advances only in response to
// discrete external events: one Tick, one keystroke routed to the form, one
// submit/advance/acknowledge request. Single-threaded by contract.
type Lesson struct {
	def    types.LessonDef
	record *progress.Record
	hooks  Hooks
	rate   float64

	phase   types.Phase
	tier    types.Tier
	content types.TierContent

	seq   *sequence.Sequencer
	stage stage

	index    int // current question, monotonically non-decreasing
	correct  int
	attempts int
	form     *editor.Form
	passed   bool
}

// New creates a lesson over a definition and a shared performance record.
// The record may be read by many lessons but is written only by this one,
// at its own conclusion.
func New(def types.LessonDef, record *progress.Record, hooks Hooks) *Lesson {
	l := &Lesson{
		def:    def,
		record: record,
		hooks:  hooks,
		rate:   DefaultRevealRate,
		phase:  types.PhaseNotStarted,
	}
	l.seq = sequence.New(l.rate)
	l.seq.SetOnLine(l.lineStarted)
	l.seq.SetOnDone(l.scriptDone)
	return l
}

// SetRevealRate overrides the typewriter speed in characters per second.
// A non-positive rate reveals lines instantly. Call before Begin.
func (l *Lesson) SetRevealRate(charsPerSecond float64) {
	l.rate = charsPerSecond
	l.seq = sequence.New(l.rate)
	l.seq.SetOnLine(l.lineStarted)
	l.seq.SetOnDone(l.scriptDone)
}

// Begin selects the question set and teaching script for the given tier,
// resets counters, and starts the intro dialogue. The tier is captured here
// and never re-evaluated for the lesson's duration. Configuration problems
// are reported as errors now rather than surfacing mid-lesson.
func (l *Lesson) Begin(tier types.Tier) error {
	content, ok := l.def.Tiers[tier]
	if !ok {
		return fmt.Errorf("lesson %s: no content for tier %s", l.def.ID, tier)
	}
	if len(content.Questions) == 0 {
		return fmt.Errorf("lesson %s: tier %s has no questions", l.def.ID, tier)
	}
	if l.def.MaxAttempts < 1 {
		return fmt.Errorf("lesson %s: max attempts must be at least 1, got %d", l.def.ID, l.def.MaxAttempts)
	}
	if l.def.AlmostThreshold < 0 || l.def.AlmostThreshold > 1 {
		return fmt.Errorf("lesson %s: almost threshold %v out of [0,1]", l.def.ID, l.def.AlmostThreshold)
	}
	if l.def.PassThreshold < 0 || l.def.PassThreshold > 1 {
		return fmt.Errorf("lesson %s: pass threshold %v out of [0,1]", l.def.ID, l.def.PassThreshold)
	}

	l.tier = tier
	l.content = content
	l.index = 0
	l.correct = 0
	l.attempts = 0
	l.passed = false
	l.form = nil

	l.phase = types.PhaseIntroducing
	l.playScript(stageIntro, l.def.Intro)
	return nil
}

// Tick advances the active dialogue reveal by dt seconds.
func (l *Lesson) Tick(dt float64) {
	if l.seq.State() != sequence.Playing {
		return
	}
	l.seq.Tick(dt)
	if l.hooks.OnReveal != nil {
		l.hooks.OnReveal(l.seq.Visible())
	}
}

// Skip forces the current dialogue line fully visible.
func (l *Lesson) Skip() {
	l.seq.Skip()
}

// Advance moves the active dialogue to its next line. Calls while a line is
// still revealing are ignored, not queued.
func (l *Lesson) Advance() {
	l.seq.Advance()
}

// SubmitAnswer grades a raw submission against the current question and
// applies the consequences. Valid only while a question is open; any other
// phase returns an *InvalidStateError.
func (l *Lesson) SubmitAnswer(raw string) (types.Verdict, error) {
	if l.phase != types.PhaseAskingQuestion {
		return types.Verdict{}, &InvalidStateError{Op: "submit answer", Phase: l.phase}
	}

	q := l.content.Questions[l.index]
	verdict := grade.Evaluate(raw, q, grade.Options{
		Mode:            grade.ModeFuzzy,
		AlmostThreshold: l.def.AlmostThreshold,
		CaseSensitive:   l.def.CaseSensitive,
	})

	switch verdict.Kind {
	case types.VerdictCorrect:
		l.correct++
		if l.hooks.OnQuestionSucceeded != nil {
			l.hooks.OnQuestionSucceeded(l.index)
		}
		l.index++
		l.review(successScript(q))

	case types.VerdictMalformed:
		if !l.def.MalformedCountsAttempt {
			// Free correction: syntax-only errors do not burn an attempt.
			return verdict, nil
		}
		verdict = l.failAttempt(q, verdict)

	default: // AlmostCorrect, Incorrect
		verdict = l.failAttempt(q, verdict)
	}

	return verdict, nil
}

// failAttempt consumes one attempt and either re-opens the question with an
// escalated hint or, when attempts are exhausted, reveals the answer and
// forces progression to the next question.
func (l *Lesson) failAttempt(q types.QuestionDef, verdict types.Verdict) types.Verdict {
	l.attempts++
	if l.attempts < l.def.MaxAttempts {
		verdict.Message = l.escalatedHint(q)
		l.resetForm(q)
		return verdict
	}
	l.index++
	l.review(revealScript(q))
	return verdict
}

// AcknowledgeFeedback closes the feedback phase: the next question opens,
// or the lesson concludes when every question has been asked.
func (l *Lesson) AcknowledgeFeedback() error {
	if l.phase != types.PhaseReviewingFeedback {
		return &InvalidStateError{Op: "acknowledge feedback", Phase: l.phase}
	}
	if l.index < len(l.content.Questions) {
		l.openQuestion()
		return nil
	}
	l.conclude()
	return nil
}

// Phase returns the current lesson phase.
func (l *Lesson) Phase() types.Phase { return l.phase }

// Tier returns the tier captured at Begin.
func (l *Lesson) Tier() types.Tier { return l.tier }

// Question returns the currently open question. Only meaningful while
// asking.
func (l *Lesson) Question() types.QuestionDef {
	if l.index < len(l.content.Questions) {
		return l.content.Questions[l.index]
	}
	return types.QuestionDef{}
}

// QuestionIndex returns the zero-based index of the current question.
func (l *Lesson) QuestionIndex() int { return l.index }

// QuestionCount returns the size of the selected question set.
func (l *Lesson) QuestionCount() int { return len(l.content.Questions) }

// CorrectCount returns the number of correctly answered questions so far.
func (l *Lesson) CorrectCount() int { return l.correct }

// AttemptsUsed returns the failed attempts on the current question.
func (l *Lesson) AttemptsUsed() int { return l.attempts }

// Form returns the input form for the current question, nil outside
// AskingQuestion.
func (l *Lesson) Form() *editor.Form { return l.form }

// Line returns the dialogue line currently playing or awaiting advance.
func (l *Lesson) Line() types.DialogueLine { return l.seq.Line() }

// Visible returns the revealed portion of the current dialogue line.
func (l *Lesson) Visible() string { return l.seq.Visible() }

// DialogueState exposes the underlying sequencer state for hosts that
// render a "press enter to continue" affordance.
func (l *Lesson) DialogueState() sequence.State { return l.seq.State() }

// Passed reports whether the final success rate met the pass threshold.
// Only meaningful once the lesson has concluded.
func (l *Lesson) Passed() bool { return l.passed }

func (l *Lesson) playScript(s stage, script types.Script) {
	l.stage = s
	l.seq.Start(script)
}

func (l *Lesson) lineStarted(line types.DialogueLine) {
	if l.hooks.OnLine != nil {
		l.hooks.OnLine(line.Speaker, line.Text, line.Portrait)
	}
}

// scriptDone routes sequencer completion to the next phase. The feedback
// stage stays put: ReviewingFeedback ends on an explicit acknowledge, not
// on the script running out.
func (l *Lesson) scriptDone() {
	switch l.stage {
	case stageIntro:
		if len(l.content.Teaching) > 0 {
			l.phase = types.PhaseTeaching
			l.playScript(stageTeaching, l.content.Teaching)
			return
		}
		l.openQuestion()
	case stageTeaching:
		l.openQuestion()
	case stageConclusion:
		l.finalize()
	}
	l.stage = stageNone
}

func (l *Lesson) openQuestion() {
	l.phase = types.PhaseAskingQuestion
	l.attempts = 0
	l.resetForm(l.content.Questions[l.index])
}

func (l *Lesson) resetForm(q types.QuestionDef) {
	defs := q.Fields
	if len(defs) == 0 {
		defs = []types.FieldDef{{}}
	}
	fields := make([]*editor.Field, len(defs))
	for i, fd := range defs {
		accept, ok := editor.AcceptClass(fd.Accept)
		if !ok {
			accept = editor.AcceptAny
		}
		fields[i] = editor.NewField(fd.Label, accept)
	}
	l.form = editor.NewForm(fields...)
}

func (l *Lesson) review(feedback types.Script) {
	l.phase = types.PhaseReviewingFeedback
	l.form = nil
	l.playScript(stageFeedback, feedback)
}

// conclude computes the final success rate, picks the conclusion line for
// the tier and outcome, and plays it before finalizing.
func (l *Lesson) conclude() {
	l.phase = types.PhaseConcluding
	rate := float64(l.correct) / float64(len(l.content.Questions))
	l.passed = rate >= l.def.PassThreshold

	text := l.conclusionText()
	if text == "" {
		l.finalize()
		return
	}
	l.playScript(stageConclusion, types.Script{{Text: text}})
}

func (l *Lesson) conclusionText() string {
	c, ok := l.def.Conclusions[l.tier]
	if !ok {
		return ""
	}
	if l.passed {
		return c.Pass
	}
	return c.Fail
}

// finalize writes the result into the shared record and fires the terminal
// hook. The record is written for both outcomes so a remedial lesson can
// still read how this one went.
func (l *Lesson) finalize() {
	if l.record != nil {
		l.record.RecordResult(l.def.ID, l.correct)
	}
	if l.passed {
		l.phase = types.PhaseFinished
		if l.hooks.OnLessonFinished != nil {
			l.hooks.OnLessonFinished(l.tier, l.correct)
		}
		return
	}
	l.phase = types.PhaseRemediating
	if l.hooks.OnRemediationNeeded != nil {
		l.hooks.OnRemediationNeeded()
	}
}

// escalatedHint picks progressively more detailed help as attempts burn:
// the plain hint first, then the detailed hint, then a generic nudge.
func (l *Lesson) escalatedHint(q types.QuestionDef) string {
	switch {
	case l.attempts <= 1:
		return q.Hint
	case q.DetailedHint != "":
		return q.DetailedHint
	default:
		return "Take another look at the prompt and try again."
	}
}

func successScript(q types.QuestionDef) types.Script {
	text := q.Success
	if text == "" {
		text = "Correct!"
	}
	return types.Script{{Text: text}}
}

// revealScript is the forced-progression feedback: the answer is shown so
// a wrong answer after max attempts never blocks the lesson.
func revealScript(q types.QuestionDef) types.Script {
	script := types.Script{{Text: "The answer was '" + q.Answer + "'."}}
	if q.Explanation != "" {
		script = append(script, types.DialogueLine{Text: q.Explanation})
	}
	return script
}
