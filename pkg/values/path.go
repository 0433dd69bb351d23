package values

import (
	"strconv"
	"strings"
)

// ItemsSegment replaces list indices in template paths, matching the
// ".items." notation used for array item schemas.
const ItemsSegment = "items"

// ParsePath splits a field path into segments. Dotted (`phNumbers.1.number`),
// bracketed (`phNumbers[1].number`) and JSON pointer (`/phNumbers/1/number`)
// forms are accepted.
func ParsePath(path string) []string {
	clean := strings.TrimSpace(path)
	if clean == "" {
		return nil
	}
	clean = strings.TrimPrefix(clean, "#")

	replacer := strings.NewReplacer("[", ".", "]", "")
	clean = replacer.Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

// Normalize returns the canonical dotted form of path.
func Normalize(path string) string {
	return strings.Join(ParsePath(path), ".")
}

// Join concatenates two path fragments with a dot, ignoring empty parts.
func Join(parent, child string) string {
	parent = strings.TrimSpace(parent)
	child = strings.TrimSpace(child)
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}

// Index joins a list path and an item position.
func Index(listPath string, idx int) string {
	return Join(listPath, strconv.Itoa(idx))
}

// Root returns the first segment of path.
func Root(path string) string {
	segments := ParsePath(path)
	if len(segments) == 0 {
		return ""
	}
	return segments[0]
}

// Template rewrites numeric segments to ItemsSegment so a concrete leaf path
// can be matched against its schema definition.
func Template(path string) string {
	segments := ParsePath(path)
	for i, segment := range segments {
		if _, ok := AsIndex(segment); ok {
			segments[i] = ItemsSegment
		}
	}
	return strings.Join(segments, ".")
}

// AsIndex reports whether segment is a non-negative list index.
func AsIndex(segment string) (int, bool) {
	if segment == "" {
		return 0, false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(segment)
	if err != nil {
		return 0, false
	}
	return idx, true
}

// HasPrefix reports whether path equals prefix or lies below it.
func HasPrefix(path, prefix string) bool {
	if prefix == "" {
		return true
	}
	return path == prefix || strings.HasPrefix(path, prefix+".")
}

// ShiftIndexed re-keys entries of m that live under listPath. Entries for
// positions >= from move by delta; entries that would land below zero are
// dropped. Callers clear a removed position with DropIndexed first.
func ShiftIndexed[T any](m map[string]T, listPath string, from, delta int) {
	if len(m) == 0 || delta == 0 {
		return
	}
	type move struct {
		key   string
		value T
	}
	var moves []move
	for key, value := range m {
		idx, rest, ok := splitIndexed(key, listPath)
		if !ok || idx < from {
			continue
		}
		delete(m, key)
		next := idx + delta
		if next < 0 {
			continue
		}
		moves = append(moves, move{key: Join(Index(listPath, next), rest), value: value})
	}
	for _, mv := range moves {
		m[mv.key] = mv.value
	}
}

// DropIndexed removes entries of m that live under listPath.idx.
func DropIndexed[T any](m map[string]T, listPath string, idx int) {
	prefix := Index(listPath, idx)
	for key := range m {
		if HasPrefix(key, prefix) {
			delete(m, key)
		}
	}
}

// SwapIndexed exchanges entries of m living under listPath.a and listPath.b.
func SwapIndexed[T any](m map[string]T, listPath string, a, b int) {
	if len(m) == 0 || a == b {
		return
	}
	type entry struct {
		rest  string
		value T
	}
	var fromA, fromB []entry
	for key, value := range m {
		idx, rest, ok := splitIndexed(key, listPath)
		if !ok {
			continue
		}
		switch idx {
		case a:
			fromA = append(fromA, entry{rest, value})
			delete(m, key)
		case b:
			fromB = append(fromB, entry{rest, value})
			delete(m, key)
		}
	}
	for _, e := range fromA {
		m[Join(Index(listPath, b), e.rest)] = e.value
	}
	for _, e := range fromB {
		m[Join(Index(listPath, a), e.rest)] = e.value
	}
}

func splitIndexed(key, listPath string) (int, string, bool) {
	if !strings.HasPrefix(key, listPath+".") {
		return 0, "", false
	}
	tail := strings.TrimPrefix(key, listPath+".")
	head, rest, _ := strings.Cut(tail, ".")
	idx, ok := AsIndex(head)
	if !ok {
		return 0, "", false
	}
	return idx, rest, true
}
