package form

import (
	"fmt"

	"github.com/goliatone/go-formstate/pkg/defaults"
	"github.com/goliatone/go-formstate/pkg/fieldarray"
	"github.com/goliatone/go-formstate/pkg/values"
)

// Fields returns the items of the dynamic list at path with their stable
// keys, for rendering.
func (f *Form) Fields(path string) ([]fieldarray.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path, list, err := f.list(path)
	if err != nil {
		return nil, err
	}
	items := f.keys.Items(path, list)
	for idx := range items {
		items[idx].Value = values.DeepCopy(items[idx].Value)
	}
	return items, nil
}

// Append adds item at the end of the list at path. A nil item takes the
// item default declared by the model. Every item of the list is validated
// afterwards, whatever the mode.
func (f *Form) Append(path string, item any) error {
	return f.mutateList(path, func(path string, list []any) ([]any, int, error) {
		f.keys.Append(path)
		return append(list, f.newItem(path, item)), len(list), nil
	})
}

// Prepend adds item at the start of the list at path.
func (f *Form) Prepend(path string, item any) error {
	return f.mutateList(path, func(path string, list []any) ([]any, int, error) {
		f.keys.Prepend(path)
		f.shiftFlags(path, 0, 1)
		return fieldarray.InsertAt(list, 0, f.newItem(path, item)), 0, nil
	})
}

// Insert adds item at idx of the list at path; idx may equal the length.
func (f *Form) Insert(path string, idx int, item any) error {
	return f.mutateList(path, func(path string, list []any) ([]any, int, error) {
		if _, err := f.keys.Insert(path, idx); err != nil {
			return nil, 0, err
		}
		f.shiftFlags(path, idx, 1)
		return fieldarray.InsertAt(list, idx, f.newItem(path, item)), idx, nil
	})
}

// Remove deletes the item at idx. The remaining items keep their keys,
// values and flags.
func (f *Form) Remove(path string, idx int) error {
	return f.mutateList(path, func(path string, list []any) ([]any, int, error) {
		if err := f.keys.Remove(path, idx); err != nil {
			return nil, 0, err
		}
		f.dropFlags(path, idx)
		f.shiftFlags(path, idx+1, -1)
		return fieldarray.RemoveAt(list, idx), -1, nil
	})
}

// Swap exchanges the items at a and b.
func (f *Form) Swap(path string, a, b int) error {
	return f.mutateList(path, func(path string, list []any) ([]any, int, error) {
		if err := f.keys.Swap(path, a, b); err != nil {
			return nil, 0, err
		}
		f.swapFlags(path, a, b)
		return fieldarray.SwapAt(list, a, b), -1, nil
	})
}

// Move relocates the item at from to position to.
func (f *Form) Move(path string, from, to int) error {
	return f.mutateList(path, func(path string, list []any) ([]any, int, error) {
		if err := f.keys.Move(path, from, to); err != nil {
			return nil, 0, err
		}
		for _, step := range fieldarray.MoveSteps(from, to) {
			f.swapFlags(path, step[0], step[1])
		}
		return fieldarray.MoveAt(list, from, to), -1, nil
	})
}

type listMutation func(path string, list []any) (next []any, added int, err error)

// mutateList applies fn to the list at path, then refreshes the flags of
// the list's leaves. added is the position of a new item, or -1. Adding an
// item re-validates every item of the list; other mutations validate only
// when the active mode validates on change.
func (f *Form) mutateList(path string, fn listMutation) error {
	f.mu.Lock()
	var p pending
	defer f.unlockAndNotify(&p)

	path, list, err := f.list(path)
	if err != nil {
		return err
	}
	f.keys.Sync(path, len(list))

	next, added, err := fn(path, list)
	if err != nil {
		return err
	}
	if err := values.Set(f.values, path, next); err != nil {
		return fmt.Errorf("form: set %q: %w", path, err)
	}
	if added >= 0 {
		normalizeLeaves(f.schema, f.values, values.Index(path, added))
	}
	f.pruneStale()

	templates := append([]string{values.Template(path)}, f.graph.Dependents(path)...)
	p.disabled(f.refreshDisabled(templates))
	for _, leaf := range f.leavesUnder(path) {
		f.markDirty(leaf.Path)
		if added >= 0 || f.validateOnChange(leaf.Path) {
			f.validateLeaf(leaf)
		}
	}
	p.add(EventArray, path)
	f.logger.Debug("list changed", "list", path, "length", len(next))
	return nil
}

// list resolves path to a dynamic list and returns its current items.
func (f *Form) list(path string) (string, []any, error) {
	path = values.Normalize(path)
	field, _, ok := f.schema.Lookup(path)
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownField, path)
	}
	if !field.IsList() {
		return "", nil, fmt.Errorf("%w: %q", ErrNotList, path)
	}
	list, err := values.List(f.values, path)
	if err != nil {
		return "", nil, fmt.Errorf("form: %w", err)
	}
	return path, list, nil
}

func (f *Form) newItem(path string, item any) any {
	if item != nil {
		return values.DeepCopy(item)
	}
	value, _ := defaults.Item(f.schema, path, f.opts.now())
	return value
}

func (f *Form) shiftFlags(path string, from, delta int) {
	values.ShiftIndexed(f.touched, path, from, delta)
	values.ShiftIndexed(f.disabled, path, from, delta)
	values.ShiftIndexed(f.errors, path, from, delta)
	f.rekeyErrors(path)
}

func (f *Form) dropFlags(path string, idx int) {
	values.DropIndexed(f.touched, path, idx)
	values.DropIndexed(f.disabled, path, idx)
	values.DropIndexed(f.errors, path, idx)
}

func (f *Form) swapFlags(path string, a, b int) {
	values.SwapIndexed(f.touched, path, a, b)
	values.SwapIndexed(f.disabled, path, a, b)
	values.SwapIndexed(f.errors, path, a, b)
	f.rekeyErrors(path)
}

// rekeyErrors keeps each moved error's Path in step with its map key.
func (f *Form) rekeyErrors(path string) {
	for key, ferr := range f.errors {
		if values.HasPrefix(key, path) && ferr.Path != key {
			moved := *ferr
			moved.Path = key
			f.errors[key] = &moved
		}
	}
}
