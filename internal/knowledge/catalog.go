package knowledge

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/ZanzyTHEbar/cta-expert/internal/facts"
)

//go:embed catalog.yaml
var defaultDefinition []byte

// CatalogError reports a malformed rule definition. It is raised at load
// time only, never while evaluating a request.
type CatalogError struct {
	RuleID string
	Reason string
	Cause  error
}

func (e *CatalogError) Error() string {
	if e.RuleID == "" {
		return fmt.Sprintf("rule catalog: %s", e.Reason)
	}
	return fmt.Sprintf("rule catalog: rule %s: %s", e.RuleID, e.Reason)
}

func (e *CatalogError) Unwrap() error {
	return e.Cause
}

// Catalog is the immutable, ordered collection of rules
type Catalog struct {
	version string
	rules   []Rule
	index   map[string]int
}

// Version returns the catalog definition version
func (c *Catalog) Version() string {
	return c.version
}

// Len returns the number of rules
func (c *Catalog) Len() int {
	return len(c.rules)
}

// Rules returns the rules in declaration order. The returned slice is a
// copy; modifying it does not affect the catalog.
func (c *Catalog) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	for i, r := range c.rules {
		out[i] = r.clone()
	}
	return out
}

// Rule looks up a rule by id
func (c *Catalog) Rule(id string) (Rule, bool) {
	i, ok := c.index[id]
	if !ok {
		return Rule{}, false
	}
	return c.rules[i].clone(), true
}

// Each visits the rules in declaration order without copying them. fn
// must not modify the rule's condition slices.
func (c *Catalog) Each(fn func(Rule)) {
	for _, r := range c.rules {
		fn(r)
	}
}

type definition struct {
	Version string     `yaml:"version"`
	Rules   []ruleSpec `yaml:"rules"`
}

type ruleSpec struct {
	ID              string        `yaml:"id"`
	Priority        int           `yaml:"priority"`
	CertaintyFactor *float64      `yaml:"certainty_factor"`
	Target          Target        `yaml:"target"`
	Category        string        `yaml:"category"`
	Conclusion      string        `yaml:"conclusion"`
	When            conditionSpec `yaml:"when"`
	Explanation     string        `yaml:"explanation"`
	Recommendation  string        `yaml:"recommendation"`
}

type conditionSpec struct {
	All []clauseSpec `yaml:"all"`
	Any []clauseSpec `yaml:"any"`
}

type clauseSpec struct {
	Fact  string   `yaml:"fact"`
	Times string   `yaml:"times"`
	Op    Operator `yaml:"op"`
	Value *float64 `yaml:"value"`
	Max   *float64 `yaml:"max"`
	Ref   string   `yaml:"ref"`
	Scale *float64 `yaml:"scale"`
}

// Load parses and validates a catalog definition
func Load(data []byte) (*Catalog, error) {
	var def definition

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &CatalogError{Reason: "definition is empty"}
		}
		return nil, &CatalogError{Reason: "failed to parse definition", Cause: err}
	}

	if def.Version == "" {
		return nil, &CatalogError{Reason: "version is required"}
	}
	if len(def.Rules) == 0 {
		return nil, &CatalogError{Reason: "no rules defined"}
	}

	cat := &Catalog{
		version: def.Version,
		rules:   make([]Rule, 0, len(def.Rules)),
		index:   make(map[string]int, len(def.Rules)),
	}

	for i, spec := range def.Rules {
		rule, err := compileRule(spec)
		if err != nil {
			if spec.ID == "" {
				err.RuleID = fmt.Sprintf("#%d", i+1)
			}
			return nil, err
		}
		if _, dup := cat.index[rule.ID]; dup {
			return nil, &CatalogError{RuleID: rule.ID, Reason: "duplicate rule id"}
		}
		cat.index[rule.ID] = len(cat.rules)
		cat.rules = append(cat.rules, rule)
	}

	return cat, nil
}

func compileRule(spec ruleSpec) (Rule, *CatalogError) {
	fail := func(format string, args ...any) (Rule, *CatalogError) {
		return Rule{}, &CatalogError{RuleID: spec.ID, Reason: fmt.Sprintf(format, args...)}
	}

	if spec.ID == "" {
		return fail("id is required")
	}
	if spec.CertaintyFactor == nil {
		return fail("certainty_factor is required")
	}
	cf := *spec.CertaintyFactor
	if cf < -1 || cf > 1 {
		return fail("certainty_factor %v outside [-1, 1]", cf)
	}
	if !spec.Target.valid() {
		return fail("unknown target %q", spec.Target)
	}
	if spec.Conclusion == "" {
		return fail("conclusion is required")
	}
	if spec.Explanation == "" {
		return fail("explanation is required")
	}
	if cf < 0 && spec.Recommendation == "" {
		return fail("weakness rules need a recommendation")
	}
	if len(spec.When.All) == 0 && len(spec.When.Any) == 0 {
		return fail("condition has no clauses")
	}

	all, err := compileClauses(spec.When.All)
	if err != nil {
		return fail("%v", err)
	}
	anyOf, err := compileClauses(spec.When.Any)
	if err != nil {
		return fail("%v", err)
	}

	for _, tmpl := range []string{spec.Explanation, spec.Recommendation} {
		for _, name := range placeholders(tmpl) {
			if !facts.IsKnown(name) {
				return fail("template references unknown fact %q", name)
			}
		}
	}

	return Rule{
		ID:              spec.ID,
		Priority:        spec.Priority,
		CertaintyFactor: cf,
		Target:          spec.Target,
		Category:        spec.Category,
		Conclusion:      spec.Conclusion,
		When:            Condition{All: all, Any: anyOf},
		Explanation:     spec.Explanation,
		Recommendation:  spec.Recommendation,
	}, nil
}

func compileClauses(specs []clauseSpec) ([]Clause, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	out := make([]Clause, 0, len(specs))
	for _, s := range specs {
		if !facts.IsKnown(s.Fact) {
			return nil, fmt.Errorf("clause references unknown fact %q", s.Fact)
		}
		if s.Times != "" && !facts.IsKnown(s.Times) {
			return nil, fmt.Errorf("clause references unknown fact %q", s.Times)
		}
		if !s.Op.valid() {
			return nil, fmt.Errorf("unknown operator %q", s.Op)
		}

		c := Clause{Fact: s.Fact, Times: s.Times, Op: s.Op}

		switch {
		case s.Ref != "":
			if !facts.IsKnown(s.Ref) {
				return nil, fmt.Errorf("clause references unknown fact %q", s.Ref)
			}
			if s.Value != nil {
				return nil, fmt.Errorf("clause on %s sets both value and ref", s.Fact)
			}
			if s.Op == OpBetween {
				return nil, fmt.Errorf("between cannot compare against a ref")
			}
			c.Ref = s.Ref
			c.Scale = 1
			if s.Scale != nil {
				c.Scale = *s.Scale
			}
		case s.Value != nil:
			if s.Scale != nil {
				return nil, fmt.Errorf("clause on %s sets scale without ref", s.Fact)
			}
			c.Value = *s.Value
		default:
			return nil, fmt.Errorf("clause on %s needs a value or ref", s.Fact)
		}

		if s.Op == OpBetween {
			if s.Max == nil || *s.Max < c.Value {
				return nil, fmt.Errorf("between on %s needs max >= value", s.Fact)
			}
			c.Max = *s.Max
		} else if s.Max != nil {
			return nil, fmt.Errorf("max is only valid with between")
		}

		out = append(out, c)
	}
	return out, nil
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Load(defaultDefinition)
})

// Default returns the catalog embedded in the binary. It is parsed once;
// later calls return the same catalog.
func Default() (*Catalog, error) {
	return loadDefault()
}
