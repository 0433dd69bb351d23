package form

import (
	"fmt"

	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/values"
)

// FieldState describes one field. For groups the flags aggregate the leaves
// below the path: Disabled when all of them are, the others when any is.
type FieldState struct {
	Path     string `json:"path"`
	Value    any    `json:"value"`
	Error    string `json:"error,omitempty"`
	Invalid  bool   `json:"invalid"`
	Disabled bool   `json:"disabled"`
	Dirty    bool   `json:"dirty"`
	Touched  bool   `json:"touched"`
}

// FormState is a snapshot of the form-wide flags.
type FormState struct {
	Status             Status            `json:"status"`
	IsDirty            bool              `json:"isDirty"`
	IsValid            bool              `json:"isValid"`
	IsSubmitting       bool              `json:"isSubmitting"`
	IsSubmitted        bool              `json:"isSubmitted"`
	IsSubmitSuccessful bool              `json:"isSubmitSuccessful"`
	SubmitCount        int               `json:"submitCount"`
	Errors             validation.Errors `json:"errors,omitempty"`
	DirtyFields        []string          `json:"dirtyFields,omitempty"`
	TouchedFields      []string          `json:"touchedFields,omitempty"`
	DisabledFields     []string          `json:"disabledFields,omitempty"`
}

// FieldState returns the state of the field at path.
func (f *Form) FieldState(path string) (FieldState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path = values.Normalize(path)
	if _, _, ok := f.schema.Lookup(path); !ok {
		return FieldState{}, fmt.Errorf("%w: %q", ErrUnknownField, path)
	}
	value, _ := values.Get(f.values, path)
	state := FieldState{Path: path, Value: values.DeepCopy(value)}

	if ferr, ok := f.errors[path]; ok {
		state.Error = ferr.Message
	}
	leaves := f.leavesUnder(path)
	state.Disabled = len(leaves) > 0
	for _, leaf := range leaves {
		if _, ok := f.errors[leaf.Path]; ok {
			state.Invalid = true
		}
		state.Dirty = state.Dirty || f.dirty[leaf.Path]
		state.Touched = state.Touched || f.touched[leaf.Path]
		state.Disabled = state.Disabled && f.disabled[leaf.Path]
	}
	return state, nil
}

// FormState returns a snapshot of the form-wide flags. IsValid reflects a
// silent validation of every enabled field and does not change the reported
// errors.
func (f *Form) FormState() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}

func (f *Form) snapshot() FormState {
	return FormState{
		Status:             f.status,
		IsDirty:            !values.Equal(f.values, f.defaults),
		IsValid:            f.silentlyValid(),
		IsSubmitting:       f.submitting,
		IsSubmitted:        f.submitCount > 0,
		IsSubmitSuccessful: f.successful,
		SubmitCount:        f.submitCount,
		Errors:             f.errors.Clone(),
		DirtyFields:        sortedKeys(f.dirty),
		TouchedFields:      sortedKeys(f.touched),
		DisabledFields:     sortedKeys(f.disabled),
	}
}

func (f *Form) silentlyValid() bool {
	for _, leaf := range f.schema.Leaves(f.values) {
		if f.disabled[leaf.Path] {
			continue
		}
		raw, _ := values.Get(f.values, leaf.Path)
		if _, ferr := validation.Evaluate(leaf.Path, leaf.Field, raw, f.values); ferr != nil {
			return false
		}
	}
	return true
}

// Errors returns a copy of the current field errors.
func (f *Form) Errors() validation.Errors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors.Clone()
}

// Status returns the lifecycle status.
func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Disabled reports whether the leaf at path is currently disabled.
func (f *Form) Disabled(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.disabled[values.Normalize(path)]
}
