package graph

// Joiner configures a sort-merge join's behavior on each key-aligned
// group pair (spec §4.5). EmitLeftOnly controls what happens when the
// right group is empty (left rows present alone); EmitRightOnly
// controls the symmetric case. When both groups are non-empty the
// join always emits their Cartesian product, suffixing colliding
// non-key field names with LeftSuffix / RightSuffix.
type Joiner struct {
	EmitLeftOnly  bool
	EmitRightOnly bool
	LeftSuffix    string
	RightSuffix   string
}

const (
	defaultLeftSuffix  = "_1"
	defaultRightSuffix = "_2"
)

// InnerJoiner drops rows from either side that have no match.
func InnerJoiner() Joiner {
	return Joiner{LeftSuffix: defaultLeftSuffix, RightSuffix: defaultRightSuffix}
}

// LeftJoiner keeps every left row, suffixed-joining right matches
// when present.
func LeftJoiner() Joiner {
	j := InnerJoiner()
	j.EmitLeftOnly = true
	return j
}

// RightJoiner keeps every right row, suffixed-joining left matches
// when present.
func RightJoiner() Joiner {
	j := InnerJoiner()
	j.EmitRightOnly = true
	return j
}

// OuterJoiner keeps every row from both sides.
func OuterJoiner() Joiner {
	j := InnerJoiner()
	j.EmitLeftOnly = true
	j.EmitRightOnly = true
	return j
}

// WithSuffixes returns a copy of j using the given suffixes for
// colliding non-key field names (spec §4.5: "Two suffixes are part of
// the joiner's configuration").
func (j Joiner) WithSuffixes(left, right string) Joiner {
	j.LeftSuffix, j.RightSuffix = left, right
	return j
}

// Join consumes left and right, both already sorted by keyCols, and
// returns the sort-merge join result. It co-iterates grouped
// sub-streams on both sides (spec §4.5). For each key it materializes
// the right-hand group and builds that key's whole output -- the
// Cartesian product, or an unmatched group's rows -- in memory before
// emitting any of it, so memory grows with the largest per-key output,
// not just with one right-hand group.
func Join(left, right Stream, joiner Joiner, keyCols []string) Stream {
	lc := newGroupCursor(left, keyCols, "join-left")
	rc := newGroupCursor(right, keyCols, "join-right")
	var pending []Row

	step := func() ([]Row, bool, error) {
		lk, lok, err := lc.peekGroupKey()
		if err != nil {
			return nil, false, err
		}
		rk, rok, err := rc.peekGroupKey()
		if err != nil {
			return nil, false, err
		}

		switch {
		case !lok && !rok:
			return nil, false, nil

		case !lok:
			rows, err := rc.takeGroupRows(rk)
			if err != nil {
				return nil, false, err
			}
			return rightOnly(joiner, rows), true, nil

		case !rok:
			rows, err := lc.takeGroupRows(lk)
			if err != nil {
				return nil, false, err
			}
			return leftOnly(joiner, rows), true, nil

		default:
			switch c := compareTuples(lk, rk); {
			case c < 0:
				rows, err := lc.takeGroupRows(lk)
				if err != nil {
					return nil, false, err
				}
				return leftOnly(joiner, rows), true, nil

			case c > 0:
				rows, err := rc.takeGroupRows(rk)
				if err != nil {
					return nil, false, err
				}
				return rightOnly(joiner, rows), true, nil

			default:
				rightRows, err := rc.takeGroupRows(rk)
				if err != nil {
					return nil, false, err
				}
				var out []Row
				leftStream := lc.streamGroup(lk)
				err = drainGroup(leftStream, func(l Row) error {
					for _, r := range rightRows {
						out = append(out, combineRows(keyCols, lk, l, r, joiner.LeftSuffix, joiner.RightSuffix))
					}
					return nil
				})
				if err != nil {
					return nil, false, err
				}
				return out, true, nil
			}
		}
	}

	next := func() (Row, bool, error) {
		for {
			if len(pending) > 0 {
				r := pending[0]
				pending = pending[1:]
				return r, true, nil
			}
			out, ok, err := step()
			if err != nil {
				return nil, false, err
			}
			if !ok {
				return nil, false, nil
			}
			pending = out
		}
	}

	closeBoth := func() error {
		leftErr := left.Close()
		rightErr := right.Close()
		if leftErr != nil {
			return leftErr
		}
		return rightErr
	}

	return newFuncStream(next, closeBoth)
}

// leftOnly returns rows unchanged when the joiner keeps unmatched left
// rows (right group was empty), else nothing.
func leftOnly(j Joiner, leftRows []Row) []Row {
	if !j.EmitLeftOnly {
		return nil
	}
	return leftRows
}

// rightOnly returns rows unchanged when the joiner keeps unmatched
// right rows (left group was empty), else nothing.
func rightOnly(j Joiner, rightRows []Row) []Row {
	if !j.EmitRightOnly {
		return nil
	}
	return rightRows
}

// combineRows builds one Cartesian-product output row for a left/right
// pair sharing key. Key columns are copied once; any other field
// present on both sides is emitted twice, suffixed; fields unique to
// one side keep their original name (spec §4.5).
func combineRows(keyCols []string, key []any, l, r Row, leftSuffix, rightSuffix string) Row {
	out := make(Row, len(l)+len(r))
	isKey := make(map[string]bool, len(keyCols))
	for i, k := range keyCols {
		out[k] = key[i]
		isKey[k] = true
	}
	for k, v := range l {
		if isKey[k] {
			continue
		}
		if _, collide := r[k]; collide {
			out[k+leftSuffix] = v
		} else {
			out[k] = v
		}
	}
	for k, v := range r {
		if isKey[k] {
			continue
		}
		if _, collide := l[k]; collide {
			out[k+rightSuffix] = v
		} else {
			out[k] = v
		}
	}
	return out
}
