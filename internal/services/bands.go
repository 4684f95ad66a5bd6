package services

import "github.com/soaringjerry/Guidance/internal/models"

// Inclusive upper bounds of each severity band.
const (
	AnxietyMinimalMax  = 4
	AnxietyMildMax     = 9
	AnxietyModerateMax = 14

	DepressionMinimalMax          = 4
	DepressionMildMax             = 9
	DepressionModerateMax         = 14
	DepressionModeratelySevereMax = 19

	StressLowMax      = 13
	StressModerateMax = 26

	SuicideLowMax      = 1
	SuicideModerateMax = 3
)

func AnxietyBand(score int) string {
	switch {
	case score <= AnxietyMinimalMax:
		return models.LevelMinimal
	case score <= AnxietyMildMax:
		return models.LevelMild
	case score <= AnxietyModerateMax:
		return models.LevelModerate
	default:
		return models.LevelSevere
	}
}

func DepressionBand(score int) string {
	switch {
	case score <= DepressionMinimalMax:
		return models.LevelMinimal
	case score <= DepressionMildMax:
		return models.LevelMild
	case score <= DepressionModerateMax:
		return models.LevelModerate
	case score <= DepressionModeratelySevereMax:
		return models.LevelModeratelySevere
	default:
		return models.LevelSevere
	}
}

func StressBand(score int) string {
	switch {
	case score <= StressLowMax:
		return models.LevelLow
	case score <= StressModerateMax:
		return models.LevelModerate
	default:
		return models.LevelHigh
	}
}

func SuicideBand(riskScore int) string {
	switch {
	case riskScore <= SuicideLowMax:
		return models.LevelLow
	case riskScore <= SuicideModerateMax:
		return models.LevelModerate
	default:
		return models.LevelHigh
	}
}

// levelOrder lists each type's bands from best to worst.
var levelOrder = map[models.AssessmentType][]string{
	models.AssessmentAnxiety:    {models.LevelMinimal, models.LevelMild, models.LevelModerate, models.LevelSevere},
	models.AssessmentDepression: {models.LevelMinimal, models.LevelMild, models.LevelModerate, models.LevelModeratelySevere, models.LevelSevere},
	models.AssessmentStress:     {models.LevelLow, models.LevelModerate, models.LevelHigh},
	models.AssessmentSuicide:    {models.LevelLow, models.LevelModerate, models.LevelHigh},
	models.AssessmentChecklist:  {models.LevelLow, models.LevelModerate, models.LevelHigh, models.LevelCritical},
}

// LevelRank returns the ordinal rank of level for t, or -1 when unknown.
func LevelRank(t models.AssessmentType, level string) int {
	for i, l := range levelOrder[t] {
		if l == level {
			return i
		}
	}
	return -1
}

// LevelSeverity maps any band label onto the insight severity scale.
func LevelSeverity(level string) models.Severity {
	switch level {
	case models.LevelModerate:
		return models.SeverityMedium
	case models.LevelModeratelySevere, models.LevelSevere, models.LevelHigh, models.LevelCritical:
		return models.SeverityHigh
	default:
		return models.SeverityLow
	}
}
