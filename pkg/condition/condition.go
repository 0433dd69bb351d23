package condition

// Evaluator decides whether a rule holds for a field given the current form
// values. fieldPath identifies the field owning the rule.
type Evaluator interface {
	Eval(fieldPath, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values holds the current form
// values; Extras carries caller context such as roles or feature flags and
// is exposed to rules as `extras`.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldPath, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldPath, rule string, ctx Context) (bool, error) {
	return fn(fieldPath, rule, ctx)
}

// DependencyExtractor is implemented by evaluators that can report the form
// fields a rule reads.
type DependencyExtractor interface {
	Dependencies(rule string) ([]string, error)
}
