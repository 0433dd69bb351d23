package definition

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/values"
)

// Built-in validator names exposed by the registry.
const (
	ValidatorNotEqual     = "notEqual"
	ValidatorNotSuffix    = "notSuffix"
	ValidatorMatchesField = "matchesField"
)

// ErrUnknownValidator is returned when a definition names a validator the
// registry cannot resolve.
var ErrUnknownValidator = errors.New("definition: unknown validator")

// Factory builds a validator implementation from its declared params.
type Factory func(params map[string]string) (model.ValidateFunc, error)

// Registry resolves validators declared by name in form definitions. It is
// safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry constructs a registry with the built-in validators registered.
func NewRegistry() *Registry {
	reg := &Registry{factories: make(map[string]Factory)}
	reg.registerBuiltins()
	return reg
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, factory Factory) {
	if r == nil || factory == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[trimmed] = factory
}

// RegisterFunc registers a validator that takes no params.
func (r *Registry) RegisterFunc(name string, fn model.ValidateFunc) {
	if fn == nil {
		return
	}
	r.Register(name, func(map[string]string) (model.ValidateFunc, error) {
		return fn, nil
	})
}

// Resolve builds the validator registered under name.
func (r *Registry) Resolve(name string, params map[string]string) (model.ValidateFunc, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownValidator, name)
	}
	r.mu.RLock()
	factory, ok := r.factories[strings.TrimSpace(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownValidator, name)
	}
	fn, err := factory(params)
	if err != nil {
		return nil, fmt.Errorf("definition: validator %q: %w", name, err)
	}
	return fn, nil
}

// Names lists the registered validator names.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Decorate implements model.Decorator: every validator declared without an
// implementation is resolved by name. Validators that already carry a Func
// are left alone.
func (r *Registry) Decorate(form *model.FormModel) error {
	if form == nil {
		return nil
	}
	return model.WalkFields(form, func(path string, field *model.Field) error {
		for idx := range field.Rules.Validators {
			v := &field.Rules.Validators[idx]
			if v.Func != nil {
				continue
			}
			fn, err := r.Resolve(v.Name, v.Params)
			if err != nil {
				return fmt.Errorf("field %q: %w", path, err)
			}
			v.Func = fn
		}
		return nil
	})
}

func (r *Registry) registerBuiltins() {
	r.Register(ValidatorNotEqual, notEqual)
	r.Register(ValidatorNotSuffix, notSuffix)
	r.Register(ValidatorMatchesField, matchesField)
}

func notEqual(params map[string]string) (model.ValidateFunc, error) {
	forbidden, ok := params["value"]
	if !ok {
		return nil, errors.New(`param "value" is required`)
	}
	message := messageOr(params, "Value is not allowed")
	return func(value any, _ map[string]any) error {
		if text, _ := value.(string); text == forbidden {
			return errors.New(message)
		}
		return nil
	}, nil
}

func notSuffix(params map[string]string) (model.ValidateFunc, error) {
	suffix := params["suffix"]
	if suffix == "" {
		return nil, errors.New(`param "suffix" is required`)
	}
	message := messageOr(params, "Value is not supported")
	return func(value any, _ map[string]any) error {
		if text, _ := value.(string); strings.HasSuffix(text, suffix) {
			return errors.New(message)
		}
		return nil
	}, nil
}

func matchesField(params map[string]string) (model.ValidateFunc, error) {
	other := params["field"]
	if other == "" {
		return nil, errors.New(`param "field" is required`)
	}
	message := messageOr(params, "Values do not match")
	return func(value any, form map[string]any) error {
		expected, _ := values.Get(form, other)
		if !values.Equal(value, expected) {
			return errors.New(message)
		}
		return nil
	}, nil
}

func messageOr(params map[string]string, fallback string) string {
	if msg := strings.TrimSpace(params["message"]); msg != "" {
		return msg
	}
	return fallback
}
