package analysis

import (
	"github.com/ZanzyTHEbar/cta-expert/internal/facts"
	"github.com/ZanzyTHEbar/cta-expert/internal/knowledge"
)

// Evaluate runs a single forward pass of cat over fb. Rules are visited in
// declaration order; each rule whose condition holds folds its certainty
// factor into its target. Conclusions are never fed back as facts.
func Evaluate(fb facts.Base, cat *knowledge.Catalog) Inference {
	inf := Inference{
		Evidence:  make(map[knowledge.Target]Evidence, len(knowledge.Targets)),
		Activated: []ActivatedRule{},
	}
	for _, t := range knowledge.Targets {
		inf.Evidence[t] = Evidence{}
	}
	if cat == nil {
		return inf
	}

	cat.Each(func(r knowledge.Rule) {
		if !r.Holds(fb) {
			return
		}

		ev := inf.Evidence[r.Target]
		ev.CF = Combine(ev.CF, r.CertaintyFactor)
		ev.Fired++
		inf.Evidence[r.Target] = ev

		activated := ActivatedRule{
			RuleID:              r.ID,
			Target:              r.Target,
			CFApplied:           r.CertaintyFactor,
			Conclusion:          r.Conclusion,
			RenderedExplanation: r.RenderExplanation(fb),
		}
		if r.Weakness() {
			activated.Recommendation = r.RenderRecommendation(fb)
		}
		inf.Activated = append(inf.Activated, activated)
	})

	return inf
}
