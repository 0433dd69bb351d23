package condition

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"
)

// ExtrasKey is the identifier under which Context.Extras is exposed.
const ExtrasKey = "extras"

// ErrNotBoolean is returned when a rule evaluates to something other than a
// boolean.
var ErrNotBoolean = errors.New("condition: rule did not produce a boolean")

// ExprEvaluator evaluates rules written in the expr language, for example
// `channel == ""` or `age >= 18 && extras.beta`. Unknown identifiers resolve
// to nil. Compiled programs are cached per rule.
type ExprEvaluator struct {
	mu       sync.RWMutex
	programs map[string]*vm.Program
}

// NewExprEvaluator returns an evaluator with an empty compile cache.
func NewExprEvaluator() *ExprEvaluator {
	return &ExprEvaluator{programs: make(map[string]*vm.Program)}
}

// Compile parses and caches rule, returning any syntax error.
func (e *ExprEvaluator) Compile(rule string) (*vm.Program, error) {
	rule = strings.TrimSpace(rule)

	e.mu.RLock()
	if program, ok := e.programs[rule]; ok {
		e.mu.RUnlock()
		return program, nil
	}
	e.mu.RUnlock()

	program, err := expr.Compile(rule, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("condition: compile %q: %w", rule, err)
	}

	e.mu.Lock()
	if existing, ok := e.programs[rule]; ok {
		e.mu.Unlock()
		return existing, nil
	}
	e.programs[rule] = program
	e.mu.Unlock()
	return program, nil
}

// Eval runs rule against ctx. An empty rule never holds.
func (e *ExprEvaluator) Eval(fieldPath, rule string, ctx Context) (bool, error) {
	if strings.TrimSpace(rule) == "" {
		return false, nil
	}
	program, err := e.Compile(rule)
	if err != nil {
		return false, err
	}

	env := make(map[string]any, len(ctx.Values)+1)
	for k, v := range ctx.Values {
		env[k] = v
	}
	extras := ctx.Extras
	if extras == nil {
		extras = map[string]any{}
	}
	env[ExtrasKey] = extras

	out, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("condition: eval %q for %s: %w", rule, fieldPath, err)
	}
	switch v := out.(type) {
	case bool:
		return v, nil
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q for %s returned %T", ErrNotBoolean, rule, fieldPath, out)
	}
}

// Dependencies lists the top-level form fields rule reads, sorted. The
// extras namespace is not a form field and is left out.
func (e *ExprEvaluator) Dependencies(rule string) ([]string, error) {
	tree, err := parser.Parse(strings.TrimSpace(rule))
	if err != nil {
		return nil, fmt.Errorf("condition: parse %q: %w", rule, err)
	}
	collector := &identifierCollector{uses: map[string]int{}, calls: map[string]int{}}
	ast.Walk(&tree.Node, collector)

	out := make([]string, 0, len(collector.uses))
	for name, uses := range collector.uses {
		if uses > collector.calls[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

// identifierCollector counts every identifier and, separately, the ones used
// as a callee. A name is a field read when it appears at least once outside
// a callee position.
type identifierCollector struct {
	uses  map[string]int
	calls map[string]int
}

func (c *identifierCollector) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.CallNode:
		if ident, ok := n.Callee.(*ast.IdentifierNode); ok {
			c.calls[ident.Value]++
		}
	case *ast.IdentifierNode:
		if n.Value == ExtrasKey || n.Value == "" {
			return
		}
		c.uses[n.Value]++
	}
}
