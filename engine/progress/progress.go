// Package progress tracks cross-lesson performance and maps it to a tier.
// The record is an explicit value passed to lessons that need it; there is
// no global state.
package progress

import "github.com/nathoo/tutorcore/types"

// Record is the running tally of correct answers per lesson.
type Record struct {
	Correct map[string]int `json:"correct"`
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{Correct: make(map[string]int)}
}

// RecordResult stores the correct-answer count for a lesson, replacing any
// earlier result for the same lesson.
func (r *Record) RecordResult(lessonID string, correct int) {
	if r.Correct == nil {
		r.Correct = make(map[string]int)
	}
	r.Correct[lessonID] = correct
}

// Total returns the combined correct count across all recorded lessons.
func (r *Record) Total() int {
	total := 0
	for _, n := range r.Correct {
		total += n
	}
	return total
}

// CorrectFor returns the recorded count for one lesson, zero if absent.
func (r *Record) CorrectFor(lessonID string) int {
	return r.Correct[lessonID]
}

// Thresholds are the tier band lower bounds, checked highest first.
type Thresholds struct {
	Master    int
	Competent int
	Novice    int
}

// DefaultThresholds matches the standard band layout: 5+ correct answers
// is master, 3+ competent, 1+ novice, otherwise struggling.
var DefaultThresholds = Thresholds{Master: 5, Competent: 3, Novice: 1}

// TierFor maps a combined correct count to a performance tier. Pure
// function over the caller-supplied bands.
func TierFor(total int, t Thresholds) types.Tier {
	switch {
	case total >= t.Master:
		return types.TierMaster
	case total >= t.Competent:
		return types.TierCompetent
	case total >= t.Novice:
		return types.TierNovice
	default:
		return types.TierStruggling
	}
}

// Tier is shorthand for TierFor over the record's total with the given
// thresholds.
func (r *Record) Tier(t Thresholds) types.Tier {
	return TierFor(r.Total(), t)
}
