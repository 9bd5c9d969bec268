package analysis

import "strings"

// Explain joins the rendered explanations of the activated rules in the
// order they fired. Nothing fired yields the empty string.
func Explain(activated []ActivatedRule) string {
	if len(activated) == 0 {
		return ""
	}
	lines := make([]string, 0, len(activated))
	for _, a := range activated {
		lines = append(lines, a.RenderedExplanation)
	}
	return strings.Join(lines, "\n")
}

// Recommendations lists one entry per activated weakness, in order. The
// result is never nil.
func Recommendations(activated []ActivatedRule) []string {
	out := []string{}
	for _, a := range activated {
		if a.CFApplied < 0 {
			out = append(out, a.Recommendation)
		}
	}
	return out
}

var statusSentences = map[Status]string{
	StatusWeak:      "CTA design needs significant work",
	StatusMedium:    "CTA design is acceptable but has clear weaknesses",
	StatusGood:      "CTA design is good with room for refinement",
	StatusExcellent: "CTA design is excellent",
}

// Summarize builds the human-readable summary for scores
func Summarize(s Scores) Summary {
	return Summary{
		OverallStatus:      statusSentences[s.Status],
		StatusEmoji:        s.Status,
		VisibilityStatus:   scoreLabel(s.Visibility),
		ClickabilityStatus: scoreLabel(s.Clickability),
		CertaintyLevel:     certaintyLevel(s.OverallCertainty),
	}
}

func scoreLabel(score float64) string {
	switch {
	case score >= 85:
		return "excellent"
	case score >= 70:
		return "good"
	case score >= 50:
		return "medium"
	default:
		return "weak"
	}
}

func certaintyLevel(certainty float64) string {
	switch {
	case certainty >= 0.9:
		return "very high"
	case certainty >= 0.8:
		return "high"
	case certainty >= 0.6:
		return "moderate"
	default:
		return "low"
	}
}
