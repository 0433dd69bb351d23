package condition

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/values"
)

// Rule is a disable condition attached to a field template path together
// with the top-level fields it reads. AnyField marks rules whose evaluator
// cannot report dependencies; they are re-evaluated on every change.
type Rule struct {
	Template  string
	Condition model.Condition
	Deps      []string
	AnyField  bool
}

// Graph indexes the disable conditions of a form by the fields they depend
// on, so a change to one field re-evaluates only the predicates that read it.
type Graph struct {
	evaluator  Evaluator
	rules      []Rule
	dependents map[string][]int
	anyField   []int
}

// NewGraph collects every disable condition declared in schema. Rules that
// fail to parse are reported here rather than on first evaluation. When
// evaluator is nil an ExprEvaluator is used.
func NewGraph(schema *model.Schema, evaluator Evaluator) (*Graph, error) {
	if evaluator == nil {
		evaluator = NewExprEvaluator()
	}
	g := &Graph{evaluator: evaluator, dependents: make(map[string][]int)}

	extractor, _ := evaluator.(DependencyExtractor)
	form := schema.Model()
	err := model.WalkFields(&form, func(path string, field *model.Field) error {
		cond := field.Rules.Disabled
		if cond.IsZero() {
			return nil
		}
		rule := Rule{Template: path, Condition: cond}
		switch {
		case cond.Static:
		case extractor == nil:
			rule.AnyField = true
		default:
			deps, err := extractor.Dependencies(cond.When)
			if err != nil {
				return fmt.Errorf("field %q: %w", path, err)
			}
			rule.Deps = deps
		}
		idx := len(g.rules)
		g.rules = append(g.rules, rule)
		if rule.AnyField {
			g.anyField = append(g.anyField, idx)
		}
		for _, dep := range rule.Deps {
			g.dependents[dep] = append(g.dependents[dep], idx)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("condition graph: %w", err)
	}
	return g, nil
}

// Rules returns the collected rules in declaration order.
func (g *Graph) Rules() []Rule {
	if g == nil {
		return nil
	}
	return append([]Rule(nil), g.rules...)
}

// Empty reports whether the form declares no disable conditions.
func (g *Graph) Empty() bool {
	return g == nil || len(g.rules) == 0
}

// Dependents returns the templates whose condition reads the field at path.
func (g *Graph) Dependents(path string) []string {
	if g == nil {
		return nil
	}
	root := values.Root(path)
	indexes := g.dependents[root]
	out := make([]string, 0, len(indexes)+len(g.anyField))
	for _, idx := range indexes {
		out = append(out, g.rules[idx].Template)
	}
	for _, idx := range g.anyField {
		out = append(out, g.rules[idx].Template)
	}
	sort.Strings(out)
	return out
}

// Disabled reports whether the field at template, or any group containing
// it, is disabled for the values in ctx.
func (g *Graph) Disabled(template string, ctx Context) (bool, error) {
	if g == nil {
		return false, nil
	}
	for _, rule := range g.rules {
		if !values.HasPrefix(template, rule.Template) {
			continue
		}
		if rule.Condition.Static {
			return true, nil
		}
		held, err := g.evaluator.Eval(rule.Template, rule.Condition.When, ctx)
		if err != nil {
			return false, err
		}
		if held {
			return true, nil
		}
	}
	return false, nil
}

// String renders the graph as `template <- deps` lines, for diagnostics.
func (g *Graph) String() string {
	if g == nil {
		return ""
	}
	var b strings.Builder
	for _, rule := range g.rules {
		b.WriteString(rule.Template)
		if rule.Condition.Static {
			b.WriteString(" <- (always)\n")
			continue
		}
		if rule.AnyField {
			b.WriteString(" <- (any field)\n")
			continue
		}
		b.WriteString(" <- ")
		b.WriteString(strings.Join(rule.Deps, ", "))
		b.WriteString("\n")
	}
	return b.String()
}
