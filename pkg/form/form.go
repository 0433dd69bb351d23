package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/goliatone/go-formstate/pkg/condition"
	"github.com/goliatone/go-formstate/pkg/defaults"
	"github.com/goliatone/go-formstate/pkg/fieldarray"
	"github.com/goliatone/go-formstate/pkg/logging"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/values"
)

var (
	// ErrUnknownField is returned when a path does not resolve to a field.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrNotLeaf is returned when a value operation addresses a group.
	ErrNotLeaf = errors.New("form: path does not address a value field")
	// ErrNotList is returned when a list operation addresses anything but a
	// dynamic list.
	ErrNotList = errors.New("form: path does not address a dynamic list")
	// ErrFieldDisabled is returned when user input targets a disabled field.
	ErrFieldDisabled = errors.New("form: field is disabled")
	// ErrSubmitInProgress is returned when Submit is called re-entrantly.
	ErrSubmitInProgress = errors.New("form: submission already in progress")
	// ErrIndexOutOfRange is returned for list positions that do not exist.
	ErrIndexOutOfRange = fieldarray.ErrIndexOutOfRange
)

// Status is the lifecycle state of a form.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusValidating Status = "validating"
	StatusSubmitted  Status = "submitted"
	StatusFailed     Status = "failed"
)

// Form holds the live state of one form instance: values, defaults, errors,
// interaction flags, disabled fields and list keys. All methods are safe for
// concurrent use. Custom validators and disable evaluators run while the form
// is locked and must not call back into it; submit handlers and subscribers
// run unlocked.
type Form struct {
	mu sync.Mutex

	schema  *model.Schema
	graph   *condition.Graph
	checker *validation.PayloadChecker
	logger  *slog.Logger
	opts    options

	defaults map[string]any
	values   map[string]any
	errors   validation.Errors
	dirty    map[string]bool
	touched  map[string]bool
	disabled map[string]bool
	keys     *fieldarray.Keys

	status      Status
	submitCount int
	submitting  bool
	successful  bool

	subscribers map[int]func(Event)
	nextSub     int
}

// New creates a form for schema. Defaults are the model's declared defaults,
// overlaid with WithDefaultValues and then with the values fetched from the
// defaults source, if any.
func New(ctx context.Context, schema *model.Schema, opts ...Option) (*Form, error) {
	if schema == nil {
		return nil, errors.New("form: schema is required")
	}
	cfg := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	graph, err := condition.NewGraph(schema, cfg.evaluator)
	if err != nil {
		return nil, fmt.Errorf("form: %w", err)
	}

	f := &Form{
		schema:      schema,
		graph:       graph,
		logger:      logging.OrNop(cfg.logger).With("form", schema.Model().ID),
		opts:        cfg,
		errors:      make(validation.Errors),
		dirty:       make(map[string]bool),
		touched:     make(map[string]bool),
		disabled:    make(map[string]bool),
		keys:        fieldarray.New(fieldarray.WithKeyFunc(cfg.keyFunc)),
		status:      StatusIdle,
		subscribers: make(map[int]func(Event)),
	}

	if cfg.payloadSchema {
		checker, err := validation.NewPayloadChecker(schema)
		if err != nil {
			return nil, fmt.Errorf("form: %w", err)
		}
		f.checker = checker
	}

	initial, err := f.initialValues(ctx)
	if err != nil {
		return nil, err
	}
	f.defaults = initial
	f.values = values.Clone(initial)
	f.syncKeys()
	f.refreshDisabled(nil)
	return f, nil
}

// FromModel builds form and creates a Form for it.
func FromModel(ctx context.Context, form model.FormModel, opts ...Option) (*Form, error) {
	schema, err := model.Build(form)
	if err != nil {
		return nil, err
	}
	return New(ctx, schema, opts...)
}

func (f *Form) initialValues(ctx context.Context) (map[string]any, error) {
	base := defaults.Static(f.schema, f.opts.now())
	if f.opts.values != nil {
		merged, err := defaults.Merge(base, f.opts.values)
		if err != nil {
			return nil, fmt.Errorf("form: %w", err)
		}
		base = merged
	}

	if f.opts.source != nil {
		remote, err := f.opts.source.FetchDefaults(ctx)
		if err != nil {
			f.logger.Warn("defaults source failed, using static defaults", "error", err)
		} else {
			merged, err := defaults.Merge(base, remote)
			if err != nil {
				f.logger.Warn("defaults merge failed, using static defaults", "error", err)
			} else {
				f.logger.Debug("defaults fetched", "fields", len(remote))
				base = merged
			}
		}
	}

	normalizeLeaves(f.schema, base, "")
	return base, nil
}

// Schema returns the schema the form was created from.
func (f *Form) Schema() *model.Schema {
	return f.schema
}

// Graph returns the disable-condition graph of the form.
func (f *Form) Graph() *condition.Graph {
	return f.graph
}

// normalizeLeaves coerces every leaf under prefix in place. Values that fail
// coercion are kept as they are and surface on validation.
func normalizeLeaves(schema *model.Schema, root map[string]any, prefix string) {
	for _, leaf := range schema.Leaves(root) {
		if !values.HasPrefix(leaf.Path, prefix) {
			continue
		}
		raw, ok := values.Get(root, leaf.Path)
		if !ok {
			raw = nil
		}
		if value, ferr := validation.Coerce(leaf.Path, leaf.Field, raw); ferr == nil {
			_ = values.Set(root, leaf.Path, value)
		}
	}
}

func (f *Form) syncKeys() {
	for _, list := range f.schema.Lists(f.values) {
		items, _ := values.List(f.values, list.Path)
		f.keys.Sync(list.Path, len(items))
	}
}

// leaf resolves a concrete leaf path that exists in the current values.
func (f *Form) leaf(path string) (model.Leaf, error) {
	path = values.Normalize(path)
	field, _, ok := f.schema.Lookup(path)
	if !ok {
		return model.Leaf{}, fmt.Errorf("%w: %q", ErrUnknownField, path)
	}
	if field.IsGroup() {
		return model.Leaf{}, fmt.Errorf("%w: %q", ErrNotLeaf, path)
	}
	for _, leaf := range f.schema.Leaves(f.values) {
		if leaf.Path == path {
			return leaf, nil
		}
	}
	return model.Leaf{}, fmt.Errorf("%w: %q", ErrIndexOutOfRange, path)
}

// leavesUnder returns the current leaves at or below prefix.
func (f *Form) leavesUnder(prefix string) []model.Leaf {
	all := f.schema.Leaves(f.values)
	if prefix == "" {
		return all
	}
	out := make([]model.Leaf, 0, len(all))
	for _, leaf := range all {
		if values.HasPrefix(leaf.Path, prefix) {
			out = append(out, leaf)
		}
	}
	return out
}

func (f *Form) conditionContext() condition.Context {
	return condition.Context{Values: f.values, Extras: f.opts.extras}
}

// validateLeaf evaluates one enabled leaf, stores the coerced value and
// records or clears its error. It reports whether the leaf is valid.
func (f *Form) validateLeaf(leaf model.Leaf) bool {
	if f.disabled[leaf.Path] {
		delete(f.errors, leaf.Path)
		return true
	}
	raw, _ := values.Get(f.values, leaf.Path)
	value, ferr := validation.Evaluate(leaf.Path, leaf.Field, raw, f.values)
	if ferr == nil {
		_ = values.Set(f.values, leaf.Path, value)
		delete(f.errors, leaf.Path)
		return true
	}
	f.errors[leaf.Path] = ferr
	return false
}

// refreshDisabled recomputes the disabled flag of every leaf governed by one
// of templates, or of every leaf when templates is nil. Leaves that become
// disabled lose their error; leaves re-enabled after a submission are
// validated again. It returns the leaves whose flag changed.
func (f *Form) refreshDisabled(templates []string) []string {
	if templates != nil && len(templates) == 0 {
		return nil
	}
	ctx := f.conditionContext()
	var changed []string
	for _, leaf := range f.schema.Leaves(f.values) {
		if templates != nil && !governedBy(leaf.Template, templates) {
			continue
		}
		disabled, err := f.graph.Disabled(leaf.Template, ctx)
		if err != nil {
			f.logger.Warn("disable condition failed, keeping field enabled", "field", leaf.Path, "error", err)
			disabled = false
		}
		if disabled == f.disabled[leaf.Path] {
			continue
		}
		changed = append(changed, leaf.Path)
		if disabled {
			f.disabled[leaf.Path] = true
			delete(f.errors, leaf.Path)
			continue
		}
		delete(f.disabled, leaf.Path)
		if f.submitCount > 0 {
			f.validateLeaf(leaf)
		}
	}
	return changed
}

func governedBy(template string, rules []string) bool {
	for _, rule := range rules {
		if values.HasPrefix(template, rule) {
			return true
		}
	}
	return false
}

// refreshDependents re-evaluates the conditions reading the field at path.
func (f *Form) refreshDependents(path string) []string {
	return f.refreshDisabled(f.graph.Dependents(path))
}

// markDirty compares the leaf at path with its default.
func (f *Form) markDirty(path string) {
	current, _ := values.Get(f.values, path)
	initial, ok := values.Get(f.defaults, path)
	if ok && values.Equal(current, initial) {
		delete(f.dirty, path)
		return
	}
	f.dirty[path] = true
}

// pruneStale drops flags and errors of leaves that no longer exist.
func (f *Form) pruneStale() {
	live := make(map[string]struct{})
	for _, leaf := range f.schema.Leaves(f.values) {
		live[leaf.Path] = struct{}{}
	}
	for _, m := range []map[string]bool{f.dirty, f.touched, f.disabled} {
		for path := range m {
			if _, ok := live[path]; !ok {
				delete(m, path)
			}
		}
	}
	for path := range f.errors {
		if _, ok := live[path]; !ok {
			delete(f.errors, path)
		}
	}
}

func (f *Form) validateOnChange(path string) bool {
	if f.submitCount > 0 {
		return f.opts.reValidate == ModeOnChange || f.opts.reValidate == ModeOnTouched || f.opts.reValidate == ModeAll
	}
	switch f.opts.mode {
	case ModeOnChange, ModeAll:
		return true
	case ModeOnTouched:
		return f.touched[path]
	}
	return false
}

func (f *Form) validateOnBlur() bool {
	if f.submitCount > 0 {
		return f.opts.reValidate == ModeOnBlur || f.opts.reValidate == ModeAll
	}
	switch f.opts.mode {
	case ModeOnBlur, ModeOnTouched, ModeAll:
		return true
	}
	return false
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for key, set := range m {
		if set {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}
