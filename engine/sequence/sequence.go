// Package sequence plays a dialogue script line by line. Each line's text
// runs through a typewriter reveal; once the reveal completes the sequencer
// waits for an explicit advance before moving on. The completion callback
// fires exactly once per Start.
package sequence

import (
	"github.com/nathoo/tutorcore/engine/reveal"
	"github.com/nathoo/tutorcore/types"
)

// State is the sequencer's play state.
type State int

const (
	// Idle means no script is loaded.
	Idle State = iota
	// Playing means the current line is mid-reveal.
	Playing
	// AwaitingAdvance means the current line is fully shown and the
	// sequencer is waiting for the host to advance.
	AwaitingAdvance
	// Finished means the script has been played to the end.
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case AwaitingAdvance:
		return "awaiting_advance"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// OnLine is invoked when a line starts playing.
type OnLine func(line types.DialogueLine)

// OnDone is invoked once when the script finishes.
type OnDone func()

// Sequencer drives a script through reveal and advance.
type Sequencer struct {
	script   types.Script
	index    int
	state    State
	rate     float64
	revealer *reveal.Revealer
	onLine   OnLine
	onDone   OnDone
	onChar   reveal.OnChar
}

// New creates an idle sequencer revealing text at charsPerSecond.
// A non-positive rate reveals each line instantly.
func New(charsPerSecond float64) *Sequencer {
	return &Sequencer{rate: charsPerSecond}
}

// SetOnLine registers the line-start hook.
func (s *Sequencer) SetOnLine(fn OnLine) { s.onLine = fn }

// SetOnDone registers the completion hook.
func (s *Sequencer) SetOnDone(fn OnDone) { s.onDone = fn }

// SetOnChar registers the per-character hook passed to each line's revealer.
func (s *Sequencer) SetOnChar(fn reveal.OnChar) { s.onChar = fn }

// Start loads a script and begins playing its first line. An empty script
// finishes immediately, still firing the completion hook once.
func (s *Sequencer) Start(script types.Script) {
	s.script = script
	s.index = 0
	if len(script) == 0 {
		s.finish()
		return
	}
	s.play(0)
}

// Tick advances the current line's reveal by dt seconds.
func (s *Sequencer) Tick(dt float64) {
	if s.state != Playing {
		return
	}
	s.revealer.Tick(dt)
	if !s.revealer.Active() {
		s.state = AwaitingAdvance
	}
}

// Skip forces the current line fully visible and moves to AwaitingAdvance.
// Outside Playing it does nothing.
func (s *Sequencer) Skip() {
	if s.state != Playing {
		return
	}
	s.revealer.Skip()
	s.state = AwaitingAdvance
}

// Advance moves to the next line. It is only accepted in AwaitingAdvance;
// calls while Playing or after Finished are ignored, not queued.
func (s *Sequencer) Advance() {
	if s.state != AwaitingAdvance {
		return
	}
	s.index++
	if s.index >= len(s.script) {
		s.finish()
		return
	}
	s.play(s.index)
}

// State returns the current play state.
func (s *Sequencer) State() State { return s.state }

// Line returns the current line, or a zero line when no script is playing.
func (s *Sequencer) Line() types.DialogueLine {
	if s.index < len(s.script) {
		return s.script[s.index]
	}
	return types.DialogueLine{}
}

// Visible returns the revealed portion of the current line's text.
func (s *Sequencer) Visible() string {
	if s.revealer == nil {
		return ""
	}
	return s.revealer.Visible()
}

// Index returns the zero-based index of the current line.
func (s *Sequencer) Index() int { return s.index }

// Len returns the loaded script's length.
func (s *Sequencer) Len() int { return len(s.script) }

func (s *Sequencer) play(i int) {
	line := s.script[i]
	s.revealer = reveal.New(line.Text, s.rate)
	s.revealer.SetOnChar(s.onChar)
	s.state = Playing
	if s.onLine != nil {
		s.onLine(line)
	}
	if line.Text == "" {
		s.state = AwaitingAdvance
	}
}

func (s *Sequencer) finish() {
	s.state = Finished
	if s.onDone != nil {
		s.onDone()
	}
}
