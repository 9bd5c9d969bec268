package knowledge

import (
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/cta-expert/internal/facts"
)

// Target is the conclusion a rule's certainty factor contributes to
type Target string

const (
	TargetVisibility   Target = "visibility"
	TargetClickability Target = "clickability"
	TargetOverall      Target = "overall"
)

// Targets lists every target in reporting order
var Targets = []Target{TargetVisibility, TargetClickability, TargetOverall}

func (t Target) valid() bool {
	switch t {
	case TargetVisibility, TargetClickability, TargetOverall:
		return true
	}
	return false
}

// Operator compares a clause's left side with its threshold
type Operator string

const (
	OpLT      Operator = "lt"
	OpLTE     Operator = "lte"
	OpGT      Operator = "gt"
	OpGTE     Operator = "gte"
	OpEQ      Operator = "eq"
	OpNE      Operator = "ne"
	OpBetween Operator = "between"
)

func (op Operator) valid() bool {
	switch op {
	case OpLT, OpLTE, OpGT, OpGTE, OpEQ, OpNE, OpBetween:
		return true
	}
	return false
}

// Clause is a single comparison over raw facts. The left side is Fact,
// multiplied by Times when set. The right side is Value, or Ref scaled
// by Scale when Ref is set. Between compares against [Value, Max].
type Clause struct {
	Fact  string   `json:"fact"`
	Times string   `json:"times,omitempty"`
	Op    Operator `json:"op"`
	Value float64  `json:"value"`
	Max   float64  `json:"max,omitempty"`
	Ref   string   `json:"ref,omitempty"`
	Scale float64  `json:"scale,omitempty"`
}

// Holds evaluates the clause against fb
func (c Clause) Holds(fb facts.Base) bool {
	left := fb.Get(facts.ID(c.Fact))
	if c.Times != "" {
		left *= fb.Get(facts.ID(c.Times))
	}

	right := c.Value
	if c.Ref != "" {
		right = fb.Get(facts.ID(c.Ref)) * c.Scale
	}

	switch c.Op {
	case OpLT:
		return left < right
	case OpLTE:
		return left <= right
	case OpGT:
		return left > right
	case OpGTE:
		return left >= right
	case OpEQ:
		return left == right
	case OpNE:
		return left != right
	case OpBetween:
		return left >= right && left <= c.Max
	}
	return false
}

// Condition holds when every All clause holds and, if Any is non-empty,
// at least one Any clause holds
type Condition struct {
	All []Clause `json:"all,omitempty"`
	Any []Clause `json:"any,omitempty"`
}

// Holds evaluates the condition against fb
func (c Condition) Holds(fb facts.Base) bool {
	for _, clause := range c.All {
		if !clause.Holds(fb) {
			return false
		}
	}
	if len(c.Any) == 0 {
		return true
	}
	for _, clause := range c.Any {
		if clause.Holds(fb) {
			return true
		}
	}
	return false
}

func (c Condition) clone() Condition {
	return Condition{
		All: append([]Clause(nil), c.All...),
		Any: append([]Clause(nil), c.Any...),
	}
}

// Rule is one production rule of the catalog
type Rule struct {
	ID              string    `json:"id"`
	Priority        int       `json:"priority"`
	CertaintyFactor float64   `json:"certainty_factor"`
	Target          Target    `json:"target"`
	Category        string    `json:"category"`
	Conclusion      string    `json:"conclusion"`
	When            Condition `json:"when"`
	Explanation     string    `json:"explanation"`
	Recommendation  string    `json:"recommendation,omitempty"`
}

func (r Rule) clone() Rule {
	r.When = r.When.clone()
	return r
}

// Holds reports whether the rule's condition is satisfied by fb
func (r Rule) Holds(fb facts.Base) bool {
	return r.When.Holds(fb)
}

// Weakness reports whether the rule represents a detected weakness
func (r Rule) Weakness() bool {
	return r.CertaintyFactor < 0
}

// RenderExplanation fills the explanation template with values from fb
func (r Rule) RenderExplanation(fb facts.Base) string {
	return render(r.Explanation, fb)
}

// RenderRecommendation fills the recommendation template with values from fb
func (r Rule) RenderRecommendation(fb facts.Base) string {
	return render(r.Recommendation, fb)
}

var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

func render(template string, fb facts.Base) string {
	if !strings.Contains(template, "{") {
		return template
	}
	return placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		id := facts.ID(m[1 : len(m)-1])
		v, ok := fb.Value(id)
		if !ok {
			return m
		}
		return facts.Format(v)
	})
}

// placeholders returns the fact ids referenced by template
func placeholders(template string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}
