package analysis

import "github.com/ZanzyTHEbar/cta-expert/internal/knowledge"

var (
	// status band lower edges, inclusive
	mediumFloor    = 0.4
	goodFloor      = 0.6
	excellentFloor = 0.8
)

// toPercent maps a certainty factor in [-1, 1] onto a 0-100 score
func toPercent(cf float64) float64 {
	return clip((cf+1)/2*100, 0, 100)
}

// toUnit maps a certainty factor in [-1, 1] onto [0, 1]
func toUnit(cf float64) float64 {
	return clip((cf+1)/2, 0, 1)
}

// Aggregate turns the per-target evidence into reported scores
func Aggregate(inf Inference, mode OverallMode) Scores {
	vis := inf.Evidence[knowledge.TargetVisibility]
	click := inf.Evidence[knowledge.TargetClickability]
	overall := inf.Evidence[knowledge.TargetOverall]

	cf := Combine(vis.CF, click.CF)
	if mode != OverallDerived && overall.Fired > 0 {
		cf = overall.CF
	}

	certainty := round(toUnit(cf), 2)

	return Scores{
		Visibility:       round(toPercent(vis.CF), 1),
		Clickability:     round(toPercent(click.CF), 1),
		OverallCertainty: certainty,
		Status:           StatusFor(certainty),
	}
}

// StatusFor maps an overall certainty in [0, 1] onto its band
func StatusFor(certainty float64) Status {
	switch {
	case certainty >= excellentFloor:
		return StatusExcellent
	case certainty >= goodFloor:
		return StatusGood
	case certainty >= mediumFloor:
		return StatusMedium
	default:
		return StatusWeak
	}
}
