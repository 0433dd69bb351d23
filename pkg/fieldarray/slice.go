package fieldarray

// InsertAt returns a new slice with item placed at idx.
func InsertAt[T any](list []T, idx int, item T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, list[:idx]...)
	out = append(out, item)
	return append(out, list[idx:]...)
}

// RemoveAt returns a new slice without the element at idx.
func RemoveAt[T any](list []T, idx int) []T {
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:idx]...)
	return append(out, list[idx+1:]...)
}

// SwapAt returns a copy of list with positions a and b exchanged.
func SwapAt[T any](list []T, a, b int) []T {
	out := append([]T(nil), list...)
	out[a], out[b] = out[b], out[a]
	return out
}

// MoveAt returns a copy of list with the element at from relocated to to.
func MoveAt[T any](list []T, from, to int) []T {
	out := append([]T(nil), list...)
	for _, step := range MoveSteps(from, to) {
		out[step[0]], out[step[1]] = out[step[1]], out[step[0]]
	}
	return out
}

// MoveSteps decomposes a move into adjacent swaps, so per-index bookkeeping
// can follow a move with SwapIndexed.
func MoveSteps(from, to int) [][2]int {
	var steps [][2]int
	for idx := from; idx < to; idx++ {
		steps = append(steps, [2]int{idx, idx + 1})
	}
	for idx := from; idx > to; idx-- {
		steps = append(steps, [2]int{idx, idx - 1})
	}
	return steps
}
