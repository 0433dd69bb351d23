package validation

import (
	"errors"
	"sort"

	"github.com/hashicorp/go-multierror"
)

// Kind classifies a field failure.
type Kind string

const (
	KindRequired Kind = "required"
	KindPattern  Kind = "pattern"
	KindCustom   Kind = "validate"
	KindCoercion Kind = "coercion"
	KindRange    Kind = "range"
	KindLength   Kind = "length"
)

var (
	ErrRequiredFieldMissing   = errors.New("validation: required field missing")
	ErrPatternMismatch        = errors.New("validation: pattern mismatch")
	ErrCustomValidationFailed = errors.New("validation: custom validation failed")
	ErrCoercionFailed         = errors.New("validation: coercion failed")
	ErrOutOfRange             = errors.New("validation: value out of range")
	ErrLength                 = errors.New("validation: length out of bounds")
)

var kindSentinels = map[Kind]error{
	KindRequired: ErrRequiredFieldMissing,
	KindPattern:  ErrPatternMismatch,
	KindCustom:   ErrCustomValidationFailed,
	KindCoercion: ErrCoercionFailed,
	KindRange:    ErrOutOfRange,
	KindLength:   ErrLength,
}

// FieldError is the single active error of a leaf.
type FieldError struct {
	Path    string `json:"path"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	// Validator names the custom validator that failed, for KindCustom.
	Validator string `json:"validator,omitempty"`
	// Raw holds the input that could not be coerced, for KindCoercion.
	Raw any `json:"raw,omitempty"`
}

func (e *FieldError) Error() string {
	if e == nil {
		return ""
	}
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// Unwrap exposes the sentinel for the error kind so callers can use errors.Is.
func (e *FieldError) Unwrap() error {
	if e == nil {
		return nil
	}
	return kindSentinels[e.Kind]
}

// Errors maps leaf paths to their active error.
type Errors map[string]*FieldError

// Paths returns the failing paths in lexical order.
func (e Errors) Paths() []string {
	paths := make([]string, 0, len(e))
	for path := range e {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Messages flattens the errors into path -> message.
func (e Errors) Messages() map[string]string {
	out := make(map[string]string, len(e))
	for path, fe := range e {
		if fe != nil {
			out[path] = fe.Message
		}
	}
	return out
}

// Message returns the message recorded for path, or "".
func (e Errors) Message(path string) string {
	if fe, ok := e[path]; ok && fe != nil {
		return fe.Message
	}
	return ""
}

// Clone returns a shallow copy of the map; FieldError values are shared.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Err aggregates the errors, ordered by path, or returns nil when empty.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	var result *multierror.Error
	for _, path := range e.Paths() {
		if fe := e[path]; fe != nil {
			result = multierror.Append(result, fe)
		}
	}
	return result.ErrorOrNil()
}
