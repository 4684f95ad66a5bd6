package services

import "github.com/soaringjerry/Guidance/internal/models"

// Result is the computed score/level bundle for one instrument submission.
type Result struct {
	Type                 models.AssessmentType  `json:"type"`
	TotalScore           *int                   `json:"total_score,omitempty"`
	Level                string                 `json:"level"`
	RequiresIntervention bool                   `json:"requires_immediate_intervention,omitempty"`
	Analysis             models.AnalysisSummary `json:"analysis"`
}

type analysisText struct {
	description    string
	recommendation string
}

var bandText = map[models.AssessmentType]map[string]analysisText{
	models.AssessmentAnxiety: {
		models.LevelMinimal:  {"Minimal anxiety symptoms.", "Keep up your current self-care routines."},
		models.LevelMild:     {"Mild anxiety symptoms.", "Try relaxation techniques and monitor how you feel over the next weeks."},
		models.LevelModerate: {"Moderate anxiety symptoms.", "Consider talking with a guidance counselor about what is worrying you."},
		models.LevelSevere:   {"Severe anxiety symptoms.", "Please reach out to a counselor or mental health professional soon."},
	},
	models.AssessmentDepression: {
		models.LevelMinimal:          {"Minimal depressive symptoms.", "Continue healthy habits such as sleep, activity and time with friends."},
		models.LevelMild:             {"Mild depressive symptoms.", "Watch for changes in mood and consider a check-in with a counselor."},
		models.LevelModerate:         {"Moderate depressive symptoms.", "A conversation with a guidance counselor is recommended."},
		models.LevelModeratelySevere: {"Moderately severe depressive symptoms.", "Schedule a session with a counselor; professional support is advised."},
		models.LevelSevere:           {"Severe depressive symptoms.", "Please seek professional help as soon as possible."},
	},
	models.AssessmentStress: {
		models.LevelLow:      {"Low perceived stress.", "Keep balancing study, rest and activities you enjoy."},
		models.LevelModerate: {"Moderate perceived stress.", "Plan your workload and try stress-management techniques."},
		models.LevelHigh:     {"High perceived stress.", "Talk to a counselor about ways to reduce and cope with stress."},
	},
	models.AssessmentSuicide: {
		models.LevelLow:      {"Low suicide risk indicated.", "Reach out to someone you trust if these feelings change."},
		models.LevelModerate: {"Moderate suicide risk indicated.", "Please talk with a counselor soon about these thoughts."},
		models.LevelHigh:     {"High suicide risk indicated.", "Contact a counselor or crisis line today."},
	},
}

const (
	FlagSelfHarmIdeation      = "self_harm_ideation"
	FlagImmediateIntervention = "requires_immediate_intervention"
)

func summarize(t models.AssessmentType, level string) models.AnalysisSummary {
	txt := bandText[t][level]
	return models.AnalysisSummary{
		Severity:       level,
		Description:    txt.description,
		Recommendation: txt.recommendation,
	}
}

// sumScored adds the ordinal contribution of every scored item, inverting
// reverse-scored ones. Unknown codes contribute nothing.
func sumScored(inst *Instrument, resp models.EncodedResponse) int {
	total := 0
	for _, it := range inst.Items {
		if !it.Scored {
			continue
		}
		v := ordinalOf(resp, it)
		if it.Reverse {
			v = ReverseScore(v, it.Scale.Max())
		}
		total += v
	}
	return total
}

// ScoreAnxiety sums the seven frequency items.
func ScoreAnxiety(resp models.EncodedResponse) Result {
	total := sumScored(instruments[models.AssessmentAnxiety], resp)
	level := AnxietyBand(total)
	return Result{
		Type:       models.AssessmentAnxiety,
		TotalScore: &total,
		Level:      level,
		Analysis:   summarize(models.AssessmentAnxiety, level),
	}
}

// ScoreDepression sums the nine frequency items. Any answer above
// not_at_all on the self-harm item raises the urgent flag regardless of total.
func ScoreDepression(resp models.EncodedResponse) Result {
	inst := instruments[models.AssessmentDepression]
	total := sumScored(inst, resp)
	level := DepressionBand(total)
	res := Result{
		Type:       models.AssessmentDepression,
		TotalScore: &total,
		Level:      level,
		Analysis:   summarize(models.AssessmentDepression, level),
	}
	if level == models.LevelModeratelySevere || level == models.LevelSevere {
		res.Analysis.NeedsProfessionalHelp = true
	}
	if v, _ := FrequencyScale.Ordinal(resp[DepressionFieldSelfHarm]); v > 0 {
		res.RequiresIntervention = true
		res.Analysis.NeedsProfessionalHelp = true
		res.Analysis.Flags = append(res.Analysis.Flags, FlagSelfHarmIdeation)
		res.Analysis.Recommendation = "You reported thoughts of self-harm. Please talk to a counselor or a trusted adult today."
	}
	return res
}

// ScoreStress sums the ten items with items 3, 4, 6 and 7 reverse-scored (0-40).
func ScoreStress(resp models.EncodedResponse) Result {
	total := sumScored(instruments[models.AssessmentStress], resp)
	level := StressBand(total)
	return Result{
		Type:       models.AssessmentStress,
		TotalScore: &total,
		Level:      level,
		Analysis:   summarize(models.AssessmentStress, level),
	}
}

// Score dispatches to the scorer for t. The checklist is analyzed separately.
func Score(t models.AssessmentType, resp models.EncodedResponse) (Result, bool) {
	switch t {
	case models.AssessmentAnxiety:
		return ScoreAnxiety(resp), true
	case models.AssessmentDepression:
		return ScoreDepression(resp), true
	case models.AssessmentStress:
		return ScoreStress(resp), true
	case models.AssessmentSuicide:
		return ScoreSuicide(resp), true
	}
	return Result{}, false
}

// Evaluate encodes raw answers and scores them in one step.
func Evaluate(t models.AssessmentType, raw map[int]int) (models.EncodedResponse, Result, bool) {
	if _, ok := InstrumentFor(t); !ok {
		return nil, Result{}, false
	}
	resp := Encode(t, raw)
	res, ok := Score(t, resp)
	return resp, res, ok
}
