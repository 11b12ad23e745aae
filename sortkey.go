package graph

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// compareValue orders two row values of the same dynamic type using
// the natural ordering of that type (spec §3: "numbers by magnitude,
// strings codepoint-wise"). Values of differing concrete type compare
// by their type name, which keeps the ordering total (and therefore
// sort-stable) even on malformed input rather than panicking.
func compareValue(a, b any) int {
	switch av := a.(type) {
	case int64:
		if bv, ok := b.(int64); ok {
			return compareOrdered(av, bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return compareOrdered(av, bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return compareOrdered(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return compareOrdered(boolRank(av), boolRank(bv))
		}
	}
	return compareOrdered(fmt.Sprintf("%T", a), fmt.Sprintf("%T", b))
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func compareOrdered[T constraints.Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// compareTuples lexicographically orders two key tuples of equal
// length, as produced by keyTuple.
func compareTuples(a, b []any) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := compareValue(a[i], b[i]); c != 0 {
			return c
		}
	}
	return compareOrdered(len(a), len(b))
}

// tupleEqual reports whether two key tuples are equal, the boundary
// condition reduce and join use to detect group edges.
func tupleEqual(a, b []any) bool {
	return compareTuples(a, b) == 0
}
