package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/nathoo/tutorcore/engine/editor"
	"github.com/nathoo/tutorcore/engine/grade"
	"github.com/nathoo/tutorcore/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks the compiled lessons for consistency: tiers have content,
// checks and accept classes are known, thresholds are in range.
func validate(lessons []types.LessonDef) error {
	ve := &ValidationError{}

	lessonIDs := map[string]bool{}
	for _, lesson := range lessons {
		if lessonIDs[lesson.ID] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate lesson ID %q", lesson.ID))
		}
		lessonIDs[lesson.ID] = true
		validateLesson(lesson, ve)
	}

	// Print warnings to stderr.
	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateLesson(lesson types.LessonDef, ve *ValidationError) {
	if lesson.Title == "" {
		ve.Errors = append(ve.Errors, fmt.Sprintf("lesson %q: title is required", lesson.ID))
	}
	if len(lesson.Tiers) == 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("lesson %q: no tiers defined", lesson.ID))
	}
	if lesson.MaxAttempts < 1 {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"lesson %q: max_attempts must be at least 1, got %d", lesson.ID, lesson.MaxAttempts))
	}
	if lesson.AlmostThreshold < 0 || lesson.AlmostThreshold > 1 {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"lesson %q: almost_threshold %v out of [0,1]", lesson.ID, lesson.AlmostThreshold))
	}
	if lesson.PassThreshold < 0 || lesson.PassThreshold > 1 {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"lesson %q: pass_threshold %v out of [0,1]", lesson.ID, lesson.PassThreshold))
	}
	if len(lesson.Intro) == 0 {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf("lesson %q: intro script is empty", lesson.ID))
	}

	for tier, content := range lesson.Tiers {
		validateTier(lesson, tier, content, ve)
		if _, ok := lesson.Conclusions[tier]; !ok {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"lesson %q: tier %s has no conclusion text", lesson.ID, tier))
		}
	}
}

func validateTier(lesson types.LessonDef, tier types.Tier, content types.TierContent, ve *ValidationError) {
	if len(content.Questions) == 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"lesson %q: tier %s has no questions", lesson.ID, tier))
		return
	}

	questionIDs := map[string]bool{}
	for i, q := range content.Questions {
		name := q.ID
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"lesson %q: tier %s question %s has no ID", lesson.ID, tier, name))
		} else {
			if questionIDs[name] {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"lesson %q: tier %s has duplicate question ID %q", lesson.ID, tier, name))
			}
			questionIDs[name] = true
		}

		if q.Answer == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"lesson %q: tier %s question %s has no answer", lesson.ID, tier, name))
		}
		if q.Hint == "" {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"lesson %q: tier %s question %s has no hint", lesson.ID, tier, name))
		}

		for _, check := range q.Checks {
			if !grade.KnownCheckType(check.Type) {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"lesson %q: tier %s question %s uses unknown check type %q",
					lesson.ID, tier, name, check.Type))
			}
		}

		for _, field := range q.Fields {
			if _, ok := editor.AcceptClass(field.Accept); !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"lesson %q: tier %s question %s field %q uses unknown accept class %q",
					lesson.ID, tier, name, field.Label, field.Accept))
			}
		}
	}
}
