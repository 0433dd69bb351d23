package fieldarray_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/fieldarray"
)

func sequentialKeys() fieldarray.Option {
	next := 0
	return fieldarray.WithKeyFunc(func() string {
		next++
		return "k" + strconv.Itoa(next)
	})
}

func TestKeys_StableAcrossRemove(t *testing.T) {
	t.Parallel()

	keys := fieldarray.New(sequentialKeys())
	keys.Sync("phNumbers", 3)
	if err := keys.Remove("phNumbers", 1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if diff := cmp.Diff([]string{"k1", "k3"}, keys.Keys("phNumbers")); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	added := keys.Append("phNumbers")
	if added != "k4" {
		t.Fatalf("expected a fresh key, got %q", added)
	}
	if diff := cmp.Diff([]string{"k1", "k3", "k4"}, keys.Keys("phNumbers")); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestKeys_InsertSwapMove(t *testing.T) {
	t.Parallel()

	keys := fieldarray.New(sequentialKeys())
	keys.Sync("list", 2) // k1 k2
	if key := keys.Prepend("list"); key != "k3" {
		t.Fatalf("prepend key = %q", key)
	}
	if _, err := keys.Insert("list", 2); err != nil { // k3 k1 k4 k2
		t.Fatalf("insert: %v", err)
	}
	if err := keys.Swap("list", 0, 3); err != nil { // k2 k1 k4 k3
		t.Fatalf("swap: %v", err)
	}
	if err := keys.Move("list", 0, 2); err != nil { // k1 k4 k2 k3
		t.Fatalf("move: %v", err)
	}
	if diff := cmp.Diff([]string{"k1", "k4", "k2", "k3"}, keys.Keys("list")); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestKeys_OutOfRange(t *testing.T) {
	t.Parallel()

	keys := fieldarray.New()
	keys.Sync("list", 1)
	checks := map[string]error{
		"remove": keys.Remove("list", 1),
		"swap":   keys.Swap("list", 0, 2),
		"move":   keys.Move("list", -1, 0),
	}
	_, checks["insert"] = keys.Insert("list", 3)
	for name, err := range checks {
		if !errors.Is(err, fieldarray.ErrIndexOutOfRange) {
			t.Errorf("%s: expected ErrIndexOutOfRange, got %v", name, err)
		}
	}
	if len(keys.Keys("list")) != 1 {
		t.Fatalf("failed operations must not change keys")
	}
}

func TestKeys_NestedListsFollowParent(t *testing.T) {
	t.Parallel()

	keys := fieldarray.New(sequentialKeys())
	keys.Sync("groups", 3)         // k1 k2 k3
	keys.Sync("groups.1.items", 1) // k4
	keys.Sync("groups.2.items", 1) // k5

	if err := keys.Remove("groups", 1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if diff := cmp.Diff([]string{"k5"}, keys.Keys("groups.1.items")); diff != "" {
		t.Fatalf("nested keys should shift down (-want +got):\n%s", diff)
	}
	if got := keys.Keys("groups.2.items"); len(got) != 0 {
		t.Fatalf("stale nested keys left behind: %v", got)
	}
}

func TestKeys_ItemsAndDefaultGenerator(t *testing.T) {
	t.Parallel()

	keys := fieldarray.New()
	items := keys.Items("phNumbers", []any{map[string]any{"number": "1"}, map[string]any{"number": "2"}})
	if len(items) != 2 || items[0].Key == "" || items[0].Key == items[1].Key {
		t.Fatalf("expected two distinct keys, got %#v", items)
	}
	if items[1].Index != 1 {
		t.Fatalf("unexpected index %d", items[1].Index)
	}
	again := keys.Items("phNumbers", []any{nil, nil})
	if again[0].Key != items[0].Key || again[1].Key != items[1].Key {
		t.Fatalf("keys must be stable across reads")
	}
}

func TestSliceHelpers(t *testing.T) {
	t.Parallel()

	list := []int{0, 1, 2, 3}
	if diff := cmp.Diff([]int{0, 9, 1, 2, 3}, fieldarray.InsertAt(list, 1, 9)); diff != "" {
		t.Errorf("InsertAt mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 2, 3}, fieldarray.RemoveAt(list, 1)); diff != "" {
		t.Errorf("RemoveAt mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]int{3, 1, 2, 0}, fieldarray.SwapAt(list, 0, 3)); diff != "" {
		t.Errorf("SwapAt mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2, 0, 3}, fieldarray.MoveAt(list, 0, 2)); diff != "" {
		t.Errorf("MoveAt mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 3, 1, 2}, fieldarray.MoveAt(list, 3, 1)); diff != "" {
		t.Errorf("MoveAt backwards mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3}, list); diff != "" {
		t.Errorf("helpers must not mutate their input:\n%s", diff)
	}
}
