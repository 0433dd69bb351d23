package values

import (
	"errors"
	"fmt"
	"reflect"
	"time"
)

var (
	// ErrEmptyPath is returned when a write targets an empty path.
	ErrEmptyPath = errors.New("values: path is empty")
	// ErrNotList is returned by list operations on a non-list node.
	ErrNotList = errors.New("values: node is not a list")
)

// Get resolves a dotted path inside root.
func Get(root map[string]any, path string) (any, bool) {
	segments := ParsePath(path)
	if root == nil || len(segments) == 0 {
		return nil, false
	}
	current := any(root)
	for _, segment := range segments {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, ok := AsIndex(segment)
			if !ok || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// Set writes value at path, creating intermediate maps and lists as needed.
// Numeric segments index into lists unless the parent is already a map.
func Set(root map[string]any, path string, value any) error {
	if root == nil {
		return errors.New("values: root map is nil")
	}
	segments := ParsePath(path)
	if len(segments) == 0 {
		return ErrEmptyPath
	}
	_, err := setIn(root, segments, value, path)
	return err
}

func setIn(node any, segments []string, value any, path string) (any, error) {
	if len(segments) == 0 {
		return value, nil
	}
	segment := segments[0]

	if m, ok := node.(map[string]any); ok {
		child, err := setIn(m[segment], segments[1:], value, path)
		if err != nil {
			return nil, err
		}
		m[segment] = child
		return m, nil
	}

	if idx, ok := AsIndex(segment); ok {
		list, isList := node.([]any)
		if node != nil && !isList {
			return nil, fmt.Errorf("values: unexpected %T at segment %q of %q", node, segment, path)
		}
		if len(list) <= idx {
			list = append(list, make([]any, idx+1-len(list))...)
		}
		child, err := setIn(list[idx], segments[1:], value, path)
		if err != nil {
			return nil, err
		}
		list[idx] = child
		return list, nil
	}

	if node != nil {
		return nil, fmt.Errorf("values: unexpected %T at segment %q of %q", node, segment, path)
	}
	m := make(map[string]any)
	child, err := setIn(nil, segments[1:], value, path)
	if err != nil {
		return nil, err
	}
	m[segment] = child
	return m, nil
}

// List returns the list stored at path.
func List(root map[string]any, path string) ([]any, error) {
	raw, ok := Get(root, path)
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s holds %T", ErrNotList, path, raw)
	}
	return list, nil
}

// Clone deep-copies a value tree.
func Clone(src map[string]any) map[string]any {
	if src == nil {
		return make(map[string]any)
	}
	out, _ := DeepCopy(src).(map[string]any)
	return out
}

// DeepCopy copies maps and lists recursively; leaves are returned as-is.
func DeepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = DeepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = DeepCopy(v)
		}
		return clone
	default:
		return typed
	}
}

// Equal compares two values, treating time instants as equal regardless of
// location or monotonic readings.
func Equal(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	switch typed := a.(type) {
	case map[string]any:
		other, ok := b.(map[string]any)
		if !ok || len(typed) != len(other) {
			return false
		}
		for k, v := range typed {
			ov, ok := other[k]
			if !ok || !Equal(v, ov) {
				return false
			}
		}
		return true
	case []any:
		other, ok := b.([]any)
		if !ok || len(typed) != len(other) {
			return false
		}
		for i := range typed {
			if !Equal(typed[i], other[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// IsEmpty reports whether v counts as an empty input: nil, "", or an empty
// list.
func IsEmpty(v any) bool {
	switch typed := v.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	case []any:
		return len(typed) == 0
	case []string:
		return len(typed) == 0
	case time.Time:
		return typed.IsZero()
	}
	return false
}
