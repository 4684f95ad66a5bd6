package services

import (
	"reflect"
	"testing"

	"github.com/soaringjerry/Guidance/internal/models"
)

func TestEncodeDefaultsAndClamps(t *testing.T) {
	raw := map[int]int{0: 3, 1: 9, 2: -4, 42: 1}
	got := Encode(models.AssessmentAnxiety, raw)
	if got["feeling_nervous"] != "nearly_every_day" {
		t.Fatalf("index 0: got %q", got["feeling_nervous"])
	}
	if got["cant_stop_worrying"] != "nearly_every_day" {
		t.Fatalf("out-of-range high should clamp, got %q", got["cant_stop_worrying"])
	}
	if got["worrying_too_much"] != "not_at_all" {
		t.Fatalf("out-of-range low should clamp, got %q", got["worrying_too_much"])
	}
	if got["feeling_afraid"] != "not_at_all" {
		t.Fatalf("missing index should default, got %q", got["feeling_afraid"])
	}
	if got["difficulty_level"] != "not_difficult_at_all" {
		t.Fatalf("difficulty default, got %q", got["difficulty_level"])
	}
	if len(got) != 8 {
		t.Fatalf("expected 8 fields, got %d", len(got))
	}
	if len(raw) != 4 || raw[1] != 9 {
		t.Fatalf("input mutated: %v", raw)
	}
}

func TestEncodeStressMissingReverseItemsDefaultToLowestSeverity(t *testing.T) {
	got := Encode(models.AssessmentStress, nil)
	if got["confident_handling_problems"] != "very_often" {
		t.Fatalf("reverse item default, got %q", got["confident_handling_problems"])
	}
	if got["upset_unexpectedly"] != "never" {
		t.Fatalf("forward item default, got %q", got["upset_unexpectedly"])
	}
}

func TestEncodeUnknownInstrument(t *testing.T) {
	if got := Encode(models.AssessmentType("sleep"), map[int]int{0: 1}); len(got) != 0 {
		t.Fatalf("expected empty encoding, got %v", got)
	}
}

func TestEncodeSuicideOmitsClosedBranch(t *testing.T) {
	got := Encode(models.AssessmentSuicide, map[int]int{0: 1, 1: 0, 2: 1, 3: 1, 4: 1, 5: 1})
	for _, f := range suicideConditionalFields {
		if _, ok := got[f]; ok {
			t.Fatalf("branch field %s should be omitted", f)
		}
	}
	if got[SuicideFieldWishDead] != "yes" || got[SuicideFieldThoughts] != "no" {
		t.Fatalf("screening fields wrong: %v", got)
	}
	if _, ok := got[SuicideFieldRecent]; !ok {
		t.Fatalf("recent behavior is unconditional")
	}

	open := Encode(models.AssessmentSuicide, map[int]int{1: 1, 4: 1})
	if open[SuicideFieldPlan] != "yes" || open[SuicideFieldMethod] != "no" {
		t.Fatalf("open branch not encoded: %v", open)
	}
}

func TestEncodeChecklist(t *testing.T) {
	raw := map[models.ChecklistCategory]map[int]int{
		models.CategoryEmotional: {0: 1, 1: 2, 2: 7},
		"unknown":                {0: 2},
	}
	got := EncodeChecklist(raw)
	if len(got) != 10 {
		t.Fatalf("expected 10 categories, got %d", len(got))
	}
	emo := got[models.CategoryEmotional]
	if emo["feeling_sad"] != models.MarkChecked || emo["feeling_hopeless"] != models.MarkCircled || emo["mood_swings"] != models.MarkCircled {
		t.Fatalf("unexpected emotional marks: %v", emo)
	}
	if emo["crying_often"] != models.MarkNotChecked {
		t.Fatalf("missing item should be not_checked")
	}
	if _, ok := got["unknown"]; ok {
		t.Fatalf("unknown category should be ignored")
	}
}

func TestEncodeScoreIdempotent(t *testing.T) {
	raw := map[int]int{0: 2, 1: 1, 3: 3, 8: 1}
	r1, s1, ok1 := Evaluate(models.AssessmentDepression, raw)
	r2, s2, ok2 := Evaluate(models.AssessmentDepression, raw)
	if !ok1 || !ok2 {
		t.Fatalf("evaluate failed")
	}
	if !reflect.DeepEqual(r1, r2) || !reflect.DeepEqual(s1, s2) {
		t.Fatalf("repeated evaluation differs: %v %v / %+v %+v", r1, r2, s1, s2)
	}
}

func TestOptionScaleOrdinal(t *testing.T) {
	if v, ok := StressScale.Ordinal("fairly_often"); !ok || v != 3 {
		t.Fatalf("ordinal fairly_often = %d,%v", v, ok)
	}
	if v, ok := StressScale.Ordinal("bogus"); ok || v != 0 {
		t.Fatalf("unknown code should be 0,false; got %d,%v", v, ok)
	}
}
