package analysis

import (
	"github.com/ZanzyTHEbar/cta-expert/internal/facts"
	"github.com/ZanzyTHEbar/cta-expert/internal/knowledge"
)

// Analyzer orchestrates the full evaluation pipeline. It holds only
// immutable state and is safe for concurrent use.
type Analyzer struct {
	catalog *knowledge.Catalog
	mode    OverallMode
}

type Option func(*Analyzer)

// WithOverallMode selects how the overall certainty is computed
func WithOverallMode(mode OverallMode) Option {
	return func(a *Analyzer) {
		if mode == OverallDerived {
			a.mode = OverallDerived
		} else {
			a.mode = OverallExplicit
		}
	}
}

// NewAnalyzer creates an analyzer over cat
func NewAnalyzer(cat *knowledge.Catalog, opts ...Option) *Analyzer {
	a := &Analyzer{catalog: cat, mode: OverallExplicit}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Catalog returns the rule catalog the analyzer evaluates
func (a *Analyzer) Catalog() *knowledge.Catalog {
	return a.catalog
}

// Mode returns the overall certainty mode
func (a *Analyzer) Mode() OverallMode {
	return a.mode
}

// Analyze validates raw and evaluates it. A *facts.ValidationError is
// returned unchanged when any field is missing or malformed.
func (a *Analyzer) Analyze(raw map[string]any) (*EvaluationResult, error) {
	fb, err := facts.Build(raw)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeFacts(fb), nil
}

// AnalyzeFacts evaluates an already-built fact base
func (a *Analyzer) AnalyzeFacts(fb facts.Base) *EvaluationResult {
	inf := Evaluate(fb, a.catalog)
	scores := Aggregate(inf, a.mode)

	version := ""
	if a.catalog != nil {
		version = a.catalog.Version()
	}

	return &EvaluationResult{
		VisibilityScore:     scores.Visibility,
		ClickabilityScore:   scores.Clickability,
		OverallCertainty:    scores.OverallCertainty,
		ActivatedRules:      inf.Activated,
		Recommendations:     Recommendations(inf.Activated),
		DetailedExplanation: Explain(inf.Activated),
		QualitativeInputs:   fb.Qualitative(),
		Summary:             Summarize(scores),
		CatalogVersion:      version,
	}
}
