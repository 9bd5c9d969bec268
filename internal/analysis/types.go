package analysis

import "github.com/ZanzyTHEbar/cta-expert/internal/knowledge"

// Status is the coarse quality band of a design
type Status string

const (
	StatusWeak      Status = "weak"
	StatusMedium    Status = "medium"
	StatusGood      Status = "good"
	StatusExcellent Status = "excellent"
)

// OverallMode selects how the overall certainty is computed
type OverallMode string

const (
	// OverallExplicit uses overall-target rules when any fired and falls
	// back to combining visibility and clickability otherwise.
	OverallExplicit OverallMode = "explicit"
	// OverallDerived always combines visibility and clickability.
	OverallDerived OverallMode = "derived"
)

// ParseOverallMode accepts "explicit" or "derived"; empty means explicit
func ParseOverallMode(s string) (OverallMode, bool) {
	switch OverallMode(s) {
	case "", OverallExplicit:
		return OverallExplicit, true
	case OverallDerived:
		return OverallDerived, true
	}
	return "", false
}

// ActivatedRule records one rule whose condition held
type ActivatedRule struct {
	RuleID              string           `json:"rule_id"`
	Target              knowledge.Target `json:"target"`
	CFApplied           float64          `json:"cf_applied"`
	Conclusion          string           `json:"conclusion"`
	RenderedExplanation string           `json:"rendered_explanation"`
	Recommendation      string           `json:"recommendation,omitempty"`
}

// Evidence is the accumulated certainty for one target
type Evidence struct {
	CF    float64 `json:"cf"`
	Fired int     `json:"fired"`
}

// Inference is the outcome of one forward pass over the catalog
type Inference struct {
	Evidence  map[knowledge.Target]Evidence
	Activated []ActivatedRule
}

// Scores are the aggregated, reported numbers
type Scores struct {
	Visibility       float64 `json:"visibility_score"`
	Clickability     float64 `json:"clickability_score"`
	OverallCertainty float64 `json:"overall_certainty"`
	Status           Status  `json:"status"`
}

type Summary struct {
	OverallStatus      string `json:"overall_status"`
	StatusEmoji        Status `json:"status_emoji"`
	VisibilityStatus   string `json:"visibility_status"`
	ClickabilityStatus string `json:"clickability_status"`
	CertaintyLevel     string `json:"certainty_level"`
}

// EvaluationResult is the full assessment of one CTA design
type EvaluationResult struct {
	VisibilityScore     float64           `json:"visibility_score"`
	ClickabilityScore   float64           `json:"clickability_score"`
	OverallCertainty    float64           `json:"overall_certainty"`
	ActivatedRules      []ActivatedRule   `json:"activated_rules"`
	Recommendations     []string          `json:"recommendations"`
	DetailedExplanation string            `json:"detailed_explanation"`
	QualitativeInputs   map[string]string `json:"qualitative_inputs"`
	Summary             Summary           `json:"summary"`
	CatalogVersion      string            `json:"catalog_version"`
}

// SimpleResult is the condensed view served to lightweight clients
type SimpleResult struct {
	VisibilityScore   float64  `json:"visibility_score"`
	ClickabilityScore float64  `json:"clickability_score"`
	OverallCertainty  float64  `json:"overall_certainty"`
	Recommendations   []string `json:"recommendations"`
	Summary           Summary  `json:"summary"`
}

// maxSimpleRecommendations bounds the recommendations in a SimpleResult
const maxSimpleRecommendations = 3

// Simple condenses r, keeping the first three recommendations
func (r *EvaluationResult) Simple() SimpleResult {
	recs := r.Recommendations
	if len(recs) > maxSimpleRecommendations {
		recs = recs[:maxSimpleRecommendations]
	}
	return SimpleResult{
		VisibilityScore:   r.VisibilityScore,
		ClickabilityScore: r.ClickabilityScore,
		OverallCertainty:  r.OverallCertainty,
		Recommendations:   append([]string{}, recs...),
		Summary:           r.Summary,
	}
}
