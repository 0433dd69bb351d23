package defaults

import (
	"context"
	"fmt"

	"dario.cat/mergo"

	"github.com/goliatone/go-formstate/pkg/values"
)

// Source supplies a partial default value tree, fetched once when a form is
// created.
type Source interface {
	FetchDefaults(ctx context.Context) (map[string]any, error)
}

// SourceFunc adapts a function into a Source.
type SourceFunc func(ctx context.Context) (map[string]any, error)

// FetchDefaults calls the underlying function.
func (fn SourceFunc) FetchDefaults(ctx context.Context) (map[string]any, error) {
	return fn(ctx)
}

// Values is a Source returning a fixed tree.
type Values map[string]any

// FetchDefaults returns a copy of the tree.
func (v Values) FetchDefaults(context.Context) (map[string]any, error) {
	return values.Clone(v), nil
}

// Merge overlays remote onto base and returns the result; neither input is
// modified. Remote values win and nested groups merge key by key. Keys absent
// from remote keep their base value.
func Merge(base, remote map[string]any) (map[string]any, error) {
	out := values.Clone(base)
	if len(remote) == 0 {
		return out, nil
	}
	overlay := values.Clone(remote)

	// Lists come from remote as a whole, never merged by position.
	replaceLists(out, overlay)

	if err := mergo.Merge(&out, overlay, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("defaults: merge remote values: %w", err)
	}
	return out, nil
}

func replaceLists(dst, src map[string]any) {
	for key, value := range src {
		switch typed := value.(type) {
		case []any:
			dst[key] = values.DeepCopy(typed)
		case map[string]any:
			child, ok := dst[key].(map[string]any)
			if ok {
				replaceLists(child, typed)
			}
		}
	}
}
