// Package tui provides a Bubble Tea terminal UI for the TutorCore lesson
// engine.
package tui

// History keeps submitted answers per question, with cursor-based
// navigation, so a learner can recall and edit an earlier attempt at the
// question in front of them without wading through answers to other ones.
type History struct {
	byQuestion map[int][]string
	max        int // cap per question
	question   int
	cursor     int // -1 = not navigating, 0..len-1 = position in entries
}

// NewHistory creates a history buffer holding up to max answers per
// question. Recall starts scoped to question 0.
func NewHistory(max int) *History {
	return &History{
		byQuestion: map[int][]string{},
		max:        max,
		cursor:     -1,
	}
}

// SetQuestion scopes subsequent pushes and recalls to one question.
// Switching questions drops any in-progress navigation.
func (h *History) SetQuestion(index int) {
	if index != h.question {
		h.question = index
		h.cursor = -1
	}
}

func (h *History) entries() []string {
	return h.byQuestion[h.question]
}

// Push records an answer for the current question. Consecutive duplicates
// are skipped.
func (h *History) Push(answer string) {
	entries := h.byQuestion[h.question]
	if len(entries) > 0 && entries[len(entries)-1] == answer {
		return
	}
	entries = append(entries, answer)
	if len(entries) > h.max {
		entries = entries[1:]
	}
	h.byQuestion[h.question] = entries
}

// Prev returns the previous (older) answer to the current question.
// Returns ("", false) if none have been submitted.
func (h *History) Prev() (string, bool) {
	entries := h.entries()
	if len(entries) == 0 {
		return "", false
	}
	if h.cursor == -1 {
		h.cursor = len(entries) - 1
	} else if h.cursor > 0 {
		h.cursor--
	}
	return entries[h.cursor], true
}

// Next returns the next (newer) answer to the current question.
// Returns ("", false) when past the most recent one (back to fresh input).
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	entries := h.entries()
	h.cursor++
	if h.cursor >= len(entries) {
		h.cursor = -1
		return "", false
	}
	return entries[h.cursor], true
}

// ResetCursor resets the navigation cursor to the "not navigating" state.
func (h *History) ResetCursor() {
	h.cursor = -1
}
