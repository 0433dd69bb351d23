package defaults

import (
	"time"

	"github.com/goliatone/go-formstate/pkg/coerce"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/values"
)

// Static builds the default value tree declared by schema. Leaves take their
// declared Default (coerced to the field's type when possible), today's date
// for DefaultNow, "" for text and nil otherwise. Tuples get one entry per
// position and lists get MinItems items unless a list default is declared.
func Static(schema *model.Schema, now time.Time) map[string]any {
	out := make(map[string]any)
	for _, field := range schema.Model().Fields {
		out[field.Name] = fieldDefault(field, now)
	}
	return out
}

// Item builds the default value of one element of the list at path.
func Item(schema *model.Schema, path string, now time.Time) (any, bool) {
	list, _, ok := schema.Lookup(path)
	if !ok || !list.IsList() {
		return nil, false
	}
	return fieldDefault(*list.Items, now), true
}

func fieldDefault(field model.Field, now time.Time) any {
	switch {
	case field.Type == model.FieldTypeObject:
		group := make(map[string]any, len(field.Nested))
		declared, _ := field.Default.(map[string]any)
		for _, child := range field.Nested {
			if v, ok := declared[child.Name]; ok {
				group[child.Name] = leafDefault(child, v, now)
				continue
			}
			group[child.Name] = fieldDefault(child, now)
		}
		return group
	case field.IsTuple():
		tuple := make([]any, len(field.Nested))
		declared := asList(field.Default)
		for idx, child := range field.Nested {
			if idx < len(declared) {
				tuple[idx] = leafDefault(child, declared[idx], now)
				continue
			}
			tuple[idx] = fieldDefault(child, now)
		}
		return tuple
	case field.IsList():
		if declared := asList(field.Default); declared != nil {
			list := make([]any, len(declared))
			for idx, item := range declared {
				list[idx] = leafDefault(*field.Items, item, now)
			}
			return list
		}
		list := make([]any, field.MinItems)
		for idx := range list {
			list[idx] = fieldDefault(*field.Items, now)
		}
		return list
	}
	return leafDefault(field, field.Default, now)
}

// leafDefault normalises a declared default for field. Group fields merge the
// declared value over their own defaults.
func leafDefault(field model.Field, declared any, now time.Time) any {
	if field.IsGroup() {
		if declared == nil {
			return fieldDefault(field, now)
		}
		withDefault := field
		withDefault.Default = declared
		return fieldDefault(withDefault, now)
	}
	if declared == nil {
		if field.DefaultNow {
			return coerce.Today(now)
		}
		if field.Coercion() == model.CoerceNone && field.Type == model.FieldTypeString {
			return ""
		}
		return nil
	}
	if coerced, err := coerce.Apply(field.Coercion(), declared); err == nil {
		return coerced
	}
	return values.DeepCopy(declared)
}

func asList(v any) []any {
	switch typed := v.(type) {
	case []any:
		return typed
	case []string:
		out := make([]any, len(typed))
		for i, s := range typed {
			out[i] = s
		}
		return out
	case []map[string]any:
		out := make([]any, len(typed))
		for i, m := range typed {
			out[i] = m
		}
		return out
	}
	return nil
}
