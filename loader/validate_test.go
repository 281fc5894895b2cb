package loader

import (
	"strings"
	"testing"

	"github.com/nathoo/tutorcore/types"
)

// validLessons returns a minimal valid lesson list for testing.
func validLessons() []types.LessonDef {
	return []types.LessonDef{{
		ID:    "hello",
		Title: "Saying Hello",
		Intro: types.Script{{Speaker: "abel", Text: "Welcome!"}},
		Tiers: map[types.Tier]types.TierContent{
			types.TierNovice: {
				Questions: []types.QuestionDef{
					{ID: "q1", Prompt: "p", Answer: "hi", Hint: "h"},
				},
			},
		},
		Conclusions: map[types.Tier]types.Conclusion{
			types.TierNovice: {Pass: "Well done!", Fail: "Let's review."},
		},
		MaxAttempts:     2,
		AlmostThreshold: 0.8,
		PassThreshold:   0.5,
	}}
}

func assertContains(t *testing.T, msgs []string, want string) {
	t.Helper()
	for _, m := range msgs {
		if strings.Contains(m, want) {
			return
		}
	}
	t.Errorf("no message containing %q in %v", want, msgs)
}

func TestValidate_ValidLessons(t *testing.T) {
	if err := validate(validLessons()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_EmptyTitle(t *testing.T) {
	lessons := validLessons()
	lessons[0].Title = ""

	err := validate(lessons)
	if err == nil {
		t.Fatal("expected error for empty title")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	assertContains(t, ve.Errors, "title")
}

func TestValidate_NoTiers(t *testing.T) {
	lessons := validLessons()
	lessons[0].Tiers = nil

	err := validate(lessons)
	if err == nil {
		t.Fatal("expected error for missing tiers")
	}
	assertContains(t, err.(*ValidationError).Errors, "no tiers")
}

func TestValidate_EmptyQuestionSet(t *testing.T) {
	lessons := validLessons()
	lessons[0].Tiers[types.TierNovice] = types.TierContent{}

	err := validate(lessons)
	if err == nil {
		t.Fatal("expected error for empty question set")
	}
	assertContains(t, err.(*ValidationError).Errors, "no questions")
}

func TestValidate_ThresholdsOutOfRange(t *testing.T) {
	lessons := validLessons()
	lessons[0].AlmostThreshold = 1.5
	lessons[0].PassThreshold = -0.2

	err := validate(lessons)
	if err == nil {
		t.Fatal("expected error for out-of-range thresholds")
	}
	ve := err.(*ValidationError)
	assertContains(t, ve.Errors, "almost_threshold")
	assertContains(t, ve.Errors, "pass_threshold")
}

func TestValidate_UnknownCheckType(t *testing.T) {
	lessons := validLessons()
	content := lessons[0].Tiers[types.TierNovice]
	content.Questions[0].Checks = []types.CheckRule{{Type: "regex", Value: ".*"}}
	lessons[0].Tiers[types.TierNovice] = content

	err := validate(lessons)
	if err == nil {
		t.Fatal("expected error for unknown check type")
	}
	assertContains(t, err.(*ValidationError).Errors, "unknown check type")
}

func TestValidate_UnknownAcceptClass(t *testing.T) {
	lessons := validLessons()
	content := lessons[0].Tiers[types.TierNovice]
	content.Questions[0].Fields = []types.FieldDef{{Label: "value", Accept: "hex"}}
	lessons[0].Tiers[types.TierNovice] = content

	err := validate(lessons)
	if err == nil {
		t.Fatal("expected error for unknown accept class")
	}
	assertContains(t, err.(*ValidationError).Errors, "unknown accept class")
}

func TestValidate_DuplicateQuestionIDs(t *testing.T) {
	lessons := validLessons()
	content := lessons[0].Tiers[types.TierNovice]
	content.Questions = append(content.Questions, content.Questions[0])
	lessons[0].Tiers[types.TierNovice] = content

	err := validate(lessons)
	if err == nil {
		t.Fatal("expected error for duplicate question IDs")
	}
	assertContains(t, err.(*ValidationError).Errors, "duplicate question ID")
}

func TestValidate_DuplicateLessonIDs(t *testing.T) {
	lessons := append(validLessons(), validLessons()...)

	err := validate(lessons)
	if err == nil {
		t.Fatal("expected error for duplicate lesson IDs")
	}
	assertContains(t, err.(*ValidationError).Errors, "duplicate lesson ID")
}

func TestValidate_MissingAnswer(t *testing.T) {
	lessons := validLessons()
	content := lessons[0].Tiers[types.TierNovice]
	content.Questions[0].Answer = ""
	lessons[0].Tiers[types.TierNovice] = content

	err := validate(lessons)
	if err == nil {
		t.Fatal("expected error for missing answer")
	}
	assertContains(t, err.(*ValidationError).Errors, "no answer")
}

func TestValidate_WarningsDoNotFail(t *testing.T) {
	lessons := validLessons()
	lessons[0].Intro = nil // warning only
	content := lessons[0].Tiers[types.TierNovice]
	content.Questions[0].Hint = "" // warning only
	lessons[0].Tiers[types.TierNovice] = content

	if err := validate(lessons); err != nil {
		t.Fatalf("warnings should not fail validation: %v", err)
	}
}
