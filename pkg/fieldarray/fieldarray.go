package fieldarray

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-formstate/pkg/values"
)

// ErrIndexOutOfRange is returned when a list operation addresses a position
// that does not exist.
var ErrIndexOutOfRange = errors.New("fieldarray: index out of range")

// Item is one element of a dynamic list as exposed to a rendering layer. Key
// identifies the element across reorders; Index is its current position.
type Item struct {
	Key   string `json:"key"`
	Index int    `json:"index"`
	Value any    `json:"value"`
}

// Option customises a Keys tracker.
type Option func(*Keys)

// WithKeyFunc replaces the key generator. Generated keys must never repeat.
func WithKeyFunc(fn func() string) Option {
	return func(k *Keys) {
		if fn != nil {
			k.newKey = fn
		}
	}
}

// Keys tracks the synthetic keys of every dynamic list in a form, addressed
// by the list's concrete path. It is not safe for concurrent use.
type Keys struct {
	lists  map[string][]string
	newKey func() string
}

// New returns an empty tracker generating UUIDv4 keys.
func New(opts ...Option) *Keys {
	k := &Keys{
		lists:  make(map[string][]string),
		newKey: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(k)
		}
	}
	return k
}

// Sync makes the keys of path match length, keeping existing keys, minting
// keys for new trailing positions and dropping surplus ones.
func (k *Keys) Sync(path string, length int) []string {
	keys := k.lists[path]
	switch {
	case len(keys) > length:
		for idx := length; idx < len(keys); idx++ {
			k.forgetNested(path, idx)
		}
		keys = keys[:length]
	case len(keys) < length:
		for len(keys) < length {
			keys = append(keys, k.newKey())
		}
	}
	k.lists[path] = keys
	return append([]string(nil), keys...)
}

// Keys returns a copy of the keys tracked for path.
func (k *Keys) Keys(path string) []string {
	return append([]string(nil), k.lists[path]...)
}

// Append adds a key at the end of path and returns it.
func (k *Keys) Append(path string) string {
	key := k.newKey()
	k.lists[path] = append(k.lists[path], key)
	return key
}

// Prepend adds a key at the start of path and returns it.
func (k *Keys) Prepend(path string) string {
	key, _ := k.Insert(path, 0)
	return key
}

// Insert adds a key at idx, shifting later keys (and nested lists) up.
func (k *Keys) Insert(path string, idx int) (string, error) {
	keys := k.lists[path]
	if idx < 0 || idx > len(keys) {
		return "", fmt.Errorf("%w: insert at %d into %s (len %d)", ErrIndexOutOfRange, idx, path, len(keys))
	}
	values.ShiftIndexed(k.lists, path, idx, 1)
	key := k.newKey()
	k.lists[path] = InsertAt(keys, idx, key)
	return key, nil
}

// Remove drops the key at idx. Keys of the remaining positions are unchanged.
func (k *Keys) Remove(path string, idx int) error {
	keys := k.lists[path]
	if idx < 0 || idx >= len(keys) {
		return fmt.Errorf("%w: remove %d from %s (len %d)", ErrIndexOutOfRange, idx, path, len(keys))
	}
	k.forgetNested(path, idx)
	values.ShiftIndexed(k.lists, path, idx+1, -1)
	k.lists[path] = RemoveAt(keys, idx)
	return nil
}

// Swap exchanges the keys at a and b.
func (k *Keys) Swap(path string, a, b int) error {
	keys := k.lists[path]
	if !inRange(a, len(keys)) || !inRange(b, len(keys)) {
		return fmt.Errorf("%w: swap %d and %d in %s (len %d)", ErrIndexOutOfRange, a, b, path, len(keys))
	}
	values.SwapIndexed(k.lists, path, a, b)
	k.lists[path] = SwapAt(keys, a, b)
	return nil
}

// Move relocates the key at from to position to.
func (k *Keys) Move(path string, from, to int) error {
	keys := k.lists[path]
	if !inRange(from, len(keys)) || !inRange(to, len(keys)) {
		return fmt.Errorf("%w: move %d to %d in %s (len %d)", ErrIndexOutOfRange, from, to, path, len(keys))
	}
	for _, step := range MoveSteps(from, to) {
		values.SwapIndexed(k.lists, path, step[0], step[1])
	}
	k.lists[path] = MoveAt(keys, from, to)
	return nil
}

// Items pairs the tracked keys of path with list.
func (k *Keys) Items(path string, list []any) []Item {
	keys := k.Sync(path, len(list))
	out := make([]Item, len(list))
	for idx, value := range list {
		out[idx] = Item{Key: keys[idx], Index: idx, Value: value}
	}
	return out
}

func (k *Keys) forgetNested(path string, idx int) {
	values.DropIndexed(k.lists, path, idx)
}

func inRange(idx, length int) bool {
	return idx >= 0 && idx < length
}
