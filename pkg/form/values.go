package form

import (
	"fmt"

	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/values"
)

// SetOptions controls the side effects of SetValue.
type SetOptions struct {
	ShouldValidate bool
	ShouldDirty    bool
	ShouldTouch    bool
}

// OnChange records user input for the leaf at path. The raw value is coerced
// and stored, the dirty flag is recomputed and the field is validated when
// the active mode asks for it. Disable conditions reading the field are
// re-evaluated.
func (f *Form) OnChange(path string, raw any) error {
	f.mu.Lock()
	var p pending
	defer f.unlockAndNotify(&p)

	leaf, err := f.leaf(path)
	if err != nil {
		return err
	}
	if f.disabled[leaf.Path] {
		return fmt.Errorf("%w: %q", ErrFieldDisabled, leaf.Path)
	}

	value, _ := validation.Coerce(leaf.Path, leaf.Field, raw)
	if err := values.Set(f.values, leaf.Path, value); err != nil {
		return fmt.Errorf("form: set %q: %w", leaf.Path, err)
	}
	f.markDirty(leaf.Path)
	if f.validateOnChange(leaf.Path) {
		f.validateLeaf(leaf)
	}
	p.add(EventChange, leaf.Path)
	p.disabled(f.refreshDependents(leaf.Path))
	return nil
}

// OnBlur marks the leaf at path as touched and validates it when the active
// mode asks for it.
func (f *Form) OnBlur(path string) error {
	f.mu.Lock()
	var p pending
	defer f.unlockAndNotify(&p)

	leaf, err := f.leaf(path)
	if err != nil {
		return err
	}
	f.touched[leaf.Path] = true
	if f.validateOnBlur() {
		f.validateLeaf(leaf)
	}
	p.add(EventBlur, leaf.Path)
	return nil
}

// SetValue writes value at path programmatically. path may address a leaf or
// a group; groups are replaced as a whole and their leaves coerced. Dirty,
// touched and validation side effects happen only when opts asks for them.
func (f *Form) SetValue(path string, value any, opts SetOptions) error {
	f.mu.Lock()
	var p pending
	defer f.unlockAndNotify(&p)

	path = values.Normalize(path)
	field, _, ok := f.schema.Lookup(path)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, path)
	}

	if field.IsGroup() {
		if err := f.setGroup(path, value); err != nil {
			return err
		}
	} else {
		leaf, err := f.leaf(path)
		if err != nil {
			return err
		}
		coerced, _ := validation.Coerce(leaf.Path, leaf.Field, value)
		if err := values.Set(f.values, leaf.Path, coerced); err != nil {
			return fmt.Errorf("form: set %q: %w", leaf.Path, err)
		}
	}

	p.disabled(f.refreshDependents(path))
	for _, leaf := range f.leavesUnder(path) {
		if opts.ShouldDirty {
			f.markDirty(leaf.Path)
		}
		if opts.ShouldTouch {
			f.touched[leaf.Path] = true
		}
		if opts.ShouldValidate {
			f.validateLeaf(leaf)
		}
	}
	p.add(EventChange, path)
	return nil
}

func (f *Form) setGroup(path string, value any) error {
	switch value.(type) {
	case map[string]any, []any, nil:
	default:
		return fmt.Errorf("form: set %q: group expects a map or list, got %T", path, value)
	}
	if err := values.Set(f.values, path, values.DeepCopy(value)); err != nil {
		return fmt.Errorf("form: set %q: %w", path, err)
	}
	normalizeLeaves(f.schema, f.values, path)
	f.syncKeys()
	f.pruneStale()
	f.refreshDisabled(nil)
	return nil
}

// Trigger validates the leaves at or below each path, or every leaf when no
// path is given, and reports whether all of them passed.
func (f *Form) Trigger(paths ...string) (bool, error) {
	f.mu.Lock()
	var p pending
	defer f.unlockAndNotify(&p)

	if len(paths) == 0 {
		paths = []string{""}
	}
	valid := true
	for _, path := range paths {
		path = values.Normalize(path)
		if path != "" {
			if _, _, ok := f.schema.Lookup(path); !ok {
				return false, fmt.Errorf("%w: %q", ErrUnknownField, path)
			}
		}
		for _, leaf := range f.leavesUnder(path) {
			if !f.validateLeaf(leaf) {
				valid = false
			}
		}
		p.add(EventValidate, path)
	}
	return valid, nil
}

// GetValue returns a copy of the value stored at path.
func (f *Form) GetValue(path string) (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := values.Get(f.values, path)
	return values.DeepCopy(value), ok
}

// GetValues returns a copy of the whole value tree.
func (f *Form) GetValues() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return values.Clone(f.values)
}

// Watch returns copies of the values at paths keyed by the requested path.
// Without paths it returns the whole value tree.
func (f *Form) Watch(paths ...string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(paths) == 0 {
		return values.Clone(f.values)
	}
	out := make(map[string]any, len(paths))
	for _, path := range paths {
		value, _ := values.Get(f.values, path)
		out[path] = values.DeepCopy(value)
	}
	return out
}

// Defaults returns a copy of the default value tree.
func (f *Form) Defaults() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return values.Clone(f.defaults)
}
