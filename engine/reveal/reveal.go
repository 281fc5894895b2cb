// Package reveal implements the typewriter-style character reveal.
// The revealer is tick-driven: the host supplies elapsed seconds and the
// revealer reports how much of the text is visible. No goroutines and no
// wall-clock reads, so pacing is fully deterministic.
package reveal

// OnChar is invoked once for each newly revealed character, in order.
// Hosts use it to drive per-character side effects such as typing sounds.
type OnChar func(r rune)

// Revealer exposes a growing prefix of a string at a fixed rate.
type Revealer struct {
	text    []rune
	shown   int
	perChar float64 // seconds between characters; 0 reveals instantly
	acc     float64 // unspent elapsed seconds
	onChar  OnChar
}

// New creates a revealer for text at the given characters-per-second rate.
// A non-positive rate reveals the whole text on the first Tick.
func New(text string, charsPerSecond float64) *Revealer {
	r := &Revealer{text: []rune(text)}
	if charsPerSecond > 0 {
		r.perChar = 1.0 / charsPerSecond
	}
	return r
}

// SetOnChar registers the per-character hook. Pass nil to clear it.
func (r *Revealer) SetOnChar(fn OnChar) {
	r.onChar = fn
}

// Tick advances the reveal by dt seconds and returns the visible prefix.
func (r *Revealer) Tick(dt float64) string {
	if !r.Active() {
		return r.Visible()
	}
	if r.perChar == 0 {
		return r.Skip()
	}
	r.acc += dt
	for r.acc >= r.perChar && r.shown < len(r.text) {
		r.acc -= r.perChar
		r.emit(r.text[r.shown])
		r.shown++
	}
	if r.shown == len(r.text) {
		r.acc = 0
	}
	return r.Visible()
}

// Skip reveals the remainder immediately and returns the full text.
// Per-character hooks still fire for the skipped characters.
func (r *Revealer) Skip() string {
	for r.shown < len(r.text) {
		r.emit(r.text[r.shown])
		r.shown++
	}
	r.acc = 0
	return r.Visible()
}

// Active reports whether any characters remain hidden. An empty string
// completes trivially: Active is false from the start.
func (r *Revealer) Active() bool {
	return r.shown < len(r.text)
}

// Visible returns the currently revealed prefix.
func (r *Revealer) Visible() string {
	return string(r.text[:r.shown])
}

// Restart rewinds the reveal to the beginning.
func (r *Revealer) Restart() {
	r.shown = 0
	r.acc = 0
}

func (r *Revealer) emit(c rune) {
	if r.onChar != nil {
		r.onChar(c)
	}
}
