package services

import "github.com/soaringjerry/Guidance/internal/models"

// OptionScale is an ordered, closed set of categorical answer codes.
// Position 0 is always the lowest-severity code.
type OptionScale struct {
	Name  string   `json:"name"`
	Codes []string `json:"codes"`
}

// Max returns the highest ordinal on the scale.
func (s OptionScale) Max() int { return len(s.Codes) - 1 }

// Code returns the code for raw, clamping out-of-range values to the nearest end.
func (s OptionScale) Code(raw int) string {
	if len(s.Codes) == 0 {
		return ""
	}
	return s.Codes[clamp(raw, 0, s.Max())]
}

// Ordinal returns the position of code on the scale. Unknown codes yield (0, false).
func (s OptionScale) Ordinal(code string) (int, bool) {
	for i, c := range s.Codes {
		if c == code {
			return i, true
		}
	}
	return 0, false
}

var (
	FrequencyScale = OptionScale{
		Name:  "frequency",
		Codes: []string{"not_at_all", "several_days", "more_than_half_days", "nearly_every_day"},
	}
	DifficultyScale = OptionScale{
		Name:  "difficulty",
		Codes: []string{"not_difficult_at_all", "somewhat_difficult", "very_difficult", "extremely_difficult"},
	}
	StressScale = OptionScale{
		Name:  "stress_frequency",
		Codes: []string{"never", "almost_never", "sometimes", "fairly_often", "very_often"},
	}
	BinaryScale = OptionScale{
		Name:  "binary",
		Codes: []string{"no", "yes"},
	}
	MarkScale = OptionScale{
		Name:  "checklist_mark",
		Codes: []string{string(models.MarkNotChecked), string(models.MarkChecked), string(models.MarkCircled)},
	}
)

// ItemDef describes one question of an instrument at a fixed index.
type ItemDef struct {
	Field       string      `json:"field"`
	Scale       OptionScale `json:"scale"`
	Scored      bool        `json:"scored"`
	Reverse     bool        `json:"reverse_scored,omitempty"`
	Conditional bool        `json:"conditional,omitempty"`
}

// Instrument is the static schema of one screening questionnaire.
// Field names must match the backend validation schema exactly.
type Instrument struct {
	Type  models.AssessmentType `json:"type"`
	Items []ItemDef             `json:"items"`
}

// Field names that scoring rules refer to directly.
const (
	DepressionFieldSelfHarm = "self_harm_thoughts"

	SuicideFieldWishDead    = "wish_dead"
	SuicideFieldThoughts    = "suicidal_thoughts"
	SuicideFieldMethod      = "thoughts_with_method"
	SuicideFieldIntention   = "intention_to_act"
	SuicideFieldPlan        = "specific_plan"
	SuicideFieldPreparation = "preparatory_behavior"
	SuicideFieldRecent      = "recent_behavior"
)

func scored(field string, scale OptionScale) ItemDef {
	return ItemDef{Field: field, Scale: scale, Scored: true}
}

func reversed(field string, scale OptionScale) ItemDef {
	return ItemDef{Field: field, Scale: scale, Scored: true, Reverse: true}
}

func conditional(field string) ItemDef {
	return ItemDef{Field: field, Scale: BinaryScale, Scored: true, Conditional: true}
}

func unscored(field string, scale OptionScale) ItemDef {
	return ItemDef{Field: field, Scale: scale}
}

var instruments = map[models.AssessmentType]*Instrument{
	models.AssessmentAnxiety: {
		Type: models.AssessmentAnxiety,
		Items: []ItemDef{
			scored("feeling_nervous", FrequencyScale),
			scored("cant_stop_worrying", FrequencyScale),
			scored("worrying_too_much", FrequencyScale),
			scored("trouble_relaxing", FrequencyScale),
			scored("being_restless", FrequencyScale),
			scored("easily_annoyed", FrequencyScale),
			scored("feeling_afraid", FrequencyScale),
			unscored("difficulty_level", DifficultyScale),
		},
	},
	models.AssessmentDepression: {
		Type: models.AssessmentDepression,
		Items: []ItemDef{
			scored("little_interest", FrequencyScale),
			scored("feeling_down", FrequencyScale),
			scored("sleep_trouble", FrequencyScale),
			scored("feeling_tired", FrequencyScale),
			scored("appetite_problems", FrequencyScale),
			scored("feeling_bad_about_self", FrequencyScale),
			scored("trouble_concentrating", FrequencyScale),
			scored("moving_slowly", FrequencyScale),
			scored(DepressionFieldSelfHarm, FrequencyScale),
			unscored("difficulty_level", DifficultyScale),
		},
	},
	// Items 3, 4, 6 and 7 are positively worded and therefore reverse-scored.
	models.AssessmentStress: {
		Type: models.AssessmentStress,
		Items: []ItemDef{
			scored("upset_unexpectedly", StressScale),
			scored("unable_to_control", StressScale),
			scored("nervous_and_stressed", StressScale),
			reversed("confident_handling_problems", StressScale),
			reversed("things_going_your_way", StressScale),
			scored("could_not_cope", StressScale),
			reversed("control_irritations", StressScale),
			reversed("on_top_of_things", StressScale),
			scored("angered_by_things", StressScale),
			scored("difficulties_piling_up", StressScale),
		},
	},
	models.AssessmentSuicide: {
		Type: models.AssessmentSuicide,
		Items: []ItemDef{
			scored(SuicideFieldWishDead, BinaryScale),
			scored(SuicideFieldThoughts, BinaryScale),
			conditional(SuicideFieldMethod),
			conditional(SuicideFieldIntention),
			conditional(SuicideFieldPlan),
			conditional(SuicideFieldPreparation),
			unscored(SuicideFieldRecent, BinaryScale),
		},
	},
}

// InstrumentFor returns the schema of a scored instrument. The checklist is
// not an instrument; see ChecklistCatalog.
func InstrumentFor(t models.AssessmentType) (*Instrument, bool) {
	inst, ok := instruments[t]
	return inst, ok
}

// Instruments lists every instrument schema in insight order.
func Instruments() []*Instrument {
	out := make([]*Instrument, 0, len(instruments))
	for _, t := range models.InsightOrder {
		if inst, ok := instruments[t]; ok {
			out = append(out, inst)
		}
	}
	return out
}
