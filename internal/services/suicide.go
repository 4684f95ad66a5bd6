package services

import "github.com/soaringjerry/Guidance/internal/models"

// suicideState is a node of the suicide-risk screening decision tree.
type suicideState int

const (
	suicideStart suicideState = iota
	suicideScreened
	suicideBranchOpen
	suicideBranchScored
	suicideBranchClosed
)

var (
	suicideScreeningFields   = []string{SuicideFieldWishDead, SuicideFieldThoughts}
	suicideConditionalFields = []string{SuicideFieldMethod, SuicideFieldIntention, SuicideFieldPlan, SuicideFieldPreparation}
)

// SuicideOutcome is the result of walking the screening tree.
type SuicideOutcome struct {
	RiskScore            int
	BranchOpen           bool
	ScoredFields         []string
	PositiveConditional  []string
	RequiresIntervention bool
}

type suicideFlow struct {
	state suicideState
	resp  models.EncodedResponse
	out   SuicideOutcome
}

func (f *suicideFlow) score(field string) bool {
	f.out.ScoredFields = append(f.out.ScoredFields, field)
	if isYes(f.resp[field]) {
		f.out.RiskScore++
		return true
	}
	return false
}

// step advances one transition; it reports false once a terminal state is reached.
func (f *suicideFlow) step() bool {
	switch f.state {
	case suicideStart:
		for _, field := range suicideScreeningFields {
			f.score(field)
		}
		f.state = suicideScreened
	case suicideScreened:
		if isYes(f.resp[SuicideFieldThoughts]) {
			f.out.BranchOpen = true
			f.state = suicideBranchOpen
		} else {
			f.state = suicideBranchClosed
		}
	case suicideBranchOpen:
		for _, field := range suicideConditionalFields {
			if f.score(field) {
				f.out.PositiveConditional = append(f.out.PositiveConditional, field)
			}
		}
		f.state = suicideBranchScored
	default:
		return false
	}
	return true
}

// runSuicideFlow walks the tree for resp. Branch answers present while the
// gate is no are never visited, so they cannot contribute.
func runSuicideFlow(resp models.EncodedResponse) SuicideOutcome {
	f := &suicideFlow{state: suicideStart, resp: resp}
	for f.step() {
	}
	if f.state == suicideBranchScored {
		f.out.RequiresIntervention = requiresIntervention(resp, f.out.PositiveConditional)
	}
	return f.out
}

// requiresIntervention: intention or plan, or any branch yes with recent behavior.
func requiresIntervention(resp models.EncodedResponse, positive []string) bool {
	if isYes(resp[SuicideFieldIntention]) || isYes(resp[SuicideFieldPlan]) {
		return true
	}
	return len(positive) > 0 && isYes(resp[SuicideFieldRecent])
}

// ScoreSuicide scores the screening items and, only when the gate is open,
// the four branch items. The intervention flag is independent of the band.
func ScoreSuicide(resp models.EncodedResponse) Result {
	out := runSuicideFlow(resp)
	level := SuicideBand(out.RiskScore)
	res := Result{
		Type:                 models.AssessmentSuicide,
		Level:                level,
		RequiresIntervention: out.RequiresIntervention,
		Analysis:             summarize(models.AssessmentSuicide, level),
	}
	if level != models.LevelLow || out.RequiresIntervention {
		res.Analysis.NeedsProfessionalHelp = true
	}
	if out.RequiresIntervention {
		res.Analysis.Flags = append(res.Analysis.Flags, FlagImmediateIntervention)
		res.Analysis.Recommendation = "Immediate support is needed. Contact a counselor or crisis line now."
	}
	return res
}
