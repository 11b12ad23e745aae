// Copyright (c) 2011 Damian Gryski <damian@gryski.com>
// License: GPLv3 or, at your option, any later version

package graph

import (
	"container/heap"

	"golang.org/x/exp/slices"
)

// ReducerFunc is applied to one group at a time: keyCols names the
// grouping columns, key holds that group's key-tuple values in the
// same order, and group yields the group's rows in a single forward
// pass. It returns zero or more aggregated rows (spec §4.3).
type ReducerFunc func(keyCols []string, key []any, group Stream) ([]Row, error)

// Reduce scans upstream -- which must already be sorted by keyCols --
// cutting it into contiguous groups sharing a keyCols-tuple and
// feeding each group to reducer. An empty keyCols groups the entire
// input into one group (spec §4.3).
func Reduce(upstream Stream, keyCols []string, reducer ReducerFunc) Stream {
	cursor := newGroupCursor(upstream, keyCols, "reduce")
	var pending []Row

	nextGroup := func() ([]Row, bool, error) {
		groupKey, ok, err := cursor.peekGroupKey()
		if err != nil || !ok {
			return nil, ok, err
		}

		group := cursor.streamGroup(groupKey)
		out, err := reducer(keyCols, groupKey, group)
		if err != nil {
			return nil, false, err
		}
		// The reducer may stop consuming early (FirstReducer); make
		// sure the group is fully skipped before moving on.
		if err := drainGroup(group, func(Row) error { return nil }); err != nil {
			return nil, false, err
		}
		return out, true, nil
	}

	next := func() (Row, bool, error) {
		for {
			if len(pending) > 0 {
				r := pending[0]
				pending = pending[1:]
				return r, true, nil
			}
			out, ok, err := nextGroup()
			if err != nil {
				return nil, false, err
			}
			if !ok {
				return nil, false, nil
			}
			pending = out
		}
	}

	return newFuncStream(next, upstream.Close)
}

// keyRow builds a row holding only the grouping-key fields, the
// common starting point for every one-row-per-group reducer below.
func keyRow(keyCols []string, key []any) Row {
	row := make(Row, len(keyCols))
	for i, c := range keyCols {
		row[c] = key[i]
	}
	return row
}

// FirstReducer emits the first row of the group unchanged.
func FirstReducer() ReducerFunc {
	return func(_ []string, _ []any, group Stream) ([]Row, error) {
		row, ok, err := group.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		return []Row{row}, nil
	}
}

// Count emits one row: the group's key columns plus out = |group|.
func Count(out string) ReducerFunc {
	return func(keyCols []string, key []any, group Stream) ([]Row, error) {
		var n int64
		err := drainGroup(group, func(Row) error { n++; return nil })
		if err != nil {
			return nil, err
		}
		row := keyRow(keyCols, key)
		row[out] = n
		return []Row{row}, nil
	}
}

// Sum emits one row: the group's key columns with col replaced by the
// sum of row[col] over the group.
func Sum(col string) ReducerFunc {
	return func(keyCols []string, key []any, group Stream) ([]Row, error) {
		var sum float64
		err := drainGroup(group, func(r Row) error {
			v, err := r.MustGet("Sum", col)
			if err != nil {
				return err
			}
			f, err := toFloat(v)
			if err != nil {
				return fieldErr("Sum", col)
			}
			sum += f
			return nil
		})
		if err != nil {
			return nil, err
		}
		row := keyRow(keyCols, key)
		row[col] = sum
		return []Row{row}, nil
	}
}

// Mean emits one row: the group's key columns plus out = the
// arithmetic mean of row[col] over the group.
func Mean(col, out string) ReducerFunc {
	return func(keyCols []string, key []any, group Stream) ([]Row, error) {
		var sum float64
		var n int64
		err := drainGroup(group, func(r Row) error {
			v, err := r.MustGet("Mean", col)
			if err != nil {
				return err
			}
			f, err := toFloat(v)
			if err != nil {
				return fieldErr("Mean", col)
			}
			sum += f
			n++
			return nil
		})
		if err != nil {
			return nil, err
		}
		row := keyRow(keyCols, key)
		if n > 0 {
			row[out] = sum / float64(n)
		} else {
			row[out] = 0.0
		}
		return []Row{row}, nil
	}
}

// TermFrequency sub-groups the group's rows by row[wordCol] and, for
// each distinct word w, emits {K fields, out: n_w/n_group, wordCol: w}.
// out defaults to "tf".
func TermFrequency(wordCol, out string) ReducerFunc {
	if out == "" {
		out = "tf"
	}
	return func(keyCols []string, key []any, group Stream) ([]Row, error) {
		counts := make(map[string]int64)
		var order []string
		var total int64

		err := drainGroup(group, func(r Row) error {
			v, err := r.MustGet("TermFrequency", wordCol)
			if err != nil {
				return err
			}
			w, ok := v.(string)
			if !ok {
				return fieldErr("TermFrequency", wordCol)
			}
			if _, seen := counts[w]; !seen {
				order = append(order, w)
			}
			counts[w]++
			total++
			return nil
		})
		if err != nil {
			return nil, err
		}

		out_ := make([]Row, 0, len(order))
		for _, w := range order {
			row := keyRow(keyCols, key)
			row[out] = float64(counts[w]) / float64(total)
			row[wordCol] = w
			out_ = append(out_, row)
		}
		return out_, nil
	}
}

// topNItem is one candidate held by TopN's bounded heap. seq records
// arrival order so ties break deterministically in favor of the
// earliest-seen row.
type topNItem struct {
	row Row
	val float64
	seq int
}

// topNHeap is a container/heap min-heap over topNItem, ordered so the
// root is always the item TopN should evict first once the heap is
// full: the smallest value, or -- among equal values -- the most
// recently seen one.
type topNHeap []topNItem

func (h topNHeap) Len() int { return len(h) }
func (h topNHeap) Less(i, j int) bool {
	if h[i].val != h[j].val {
		return h[i].val < h[j].val
	}
	return h[i].seq > h[j].seq
}
func (h topNHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *topNHeap) Push(x any)   { *h = append(*h, x.(topNItem)) }
func (h *topNHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// TopN emits up to n rows of the group with the largest row[col], in
// descending order of col, using only a bounded heap of size n.
func TopN(col string, n int) ReducerFunc {
	return func(_ []string, _ []any, group Stream) ([]Row, error) {
		h := &topNHeap{}
		heap.Init(h)
		seq := 0

		err := drainGroup(group, func(r Row) error {
			v, err := r.MustGet("TopN", col)
			if err != nil {
				return err
			}
			f, err := toFloat(v)
			if err != nil {
				return fieldErr("TopN", col)
			}
			item := topNItem{row: r, val: f, seq: seq}
			seq++
			switch {
			case n <= 0:
				// nothing kept
			case h.Len() < n:
				heap.Push(h, item)
			case f > (*h)[0].val:
				heap.Pop(h)
				heap.Push(h, item)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		items := []topNItem(*h)
		slices.SortFunc(items, func(a, b topNItem) bool {
			if a.val != b.val {
				return a.val > b.val
			}
			return a.seq < b.seq
		})

		out := make([]Row, len(items))
		for i, it := range items {
			out[i] = it.row
		}
		return out, nil
	}
}

// drainGroup pulls every row of a group stream, applying fn.
func drainGroup(group Stream, fn func(Row) error) error {
	for {
		row, ok, err := group.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}
