package services

import "github.com/soaringjerry/Guidance/internal/models"

// Encode maps raw UI answers (question index to Likert value) onto the
// instrument's named codes. Missing indices encode as the lowest-severity
// code (the top of the scale for reverse-scored items), out-of-range values
// are clamped, and indices beyond the instrument are ignored. Suicide-risk
// branch items are omitted unless the gating answer is yes. The input map
// is never modified.
func Encode(t models.AssessmentType, raw map[int]int) models.EncodedResponse {
	inst, ok := InstrumentFor(t)
	if !ok {
		return models.EncodedResponse{}
	}
	out := make(models.EncodedResponse, len(inst.Items))
	for i, it := range inst.Items {
		v, ok := raw[i]
		if !ok && it.Reverse {
			v = it.Scale.Max()
		}
		out[it.Field] = it.Scale.Code(v)
	}
	if t == models.AssessmentSuicide && !runSuicideFlow(out).BranchOpen {
		for _, it := range inst.Items {
			if it.Conditional {
				delete(out, it.Field)
			}
		}
	}
	return out
}

// EncodeChecklist maps raw per-category answers (item index to 0/1/2) onto
// checklist marks for every category in the catalog. Unknown categories
// and indices are ignored.
func EncodeChecklist(raw map[models.ChecklistCategory]map[int]int) models.ChecklistResponses {
	out := make(models.ChecklistResponses, len(checklistCatalog))
	for _, cat := range checklistCatalog {
		answers := raw[cat.Key]
		marks := make(map[string]models.ChecklistMark, len(cat.Items))
		for i, field := range cat.Items {
			marks[field] = models.ChecklistMark(MarkScale.Code(answers[i]))
		}
		out[cat.Key] = marks
	}
	return out
}

// ordinalOf returns the scale position of the code stored for field, or 0.
func ordinalOf(resp models.EncodedResponse, it ItemDef) int {
	v, _ := it.Scale.Ordinal(resp[it.Field])
	return v
}

func isYes(code string) bool {
	return code == BinaryScale.Codes[1]
}
