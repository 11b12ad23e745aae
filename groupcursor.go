// Copyright (c) 2011 Damian Gryski <damian@gryski.com>
// License: GPLv3 or, at your option, any later version

package graph

// groupCursor walks a single upstream assumed sorted by keyCols,
// exposing it one contiguous key-tuple group at a time. Reduce and
// Join both cut their inputs into groups this way (spec §3: "group
// boundaries are defined by inequality of the grouping-key tuple
// between consecutive rows").
type groupCursor struct {
	upstream Stream
	keyCols  []string
	op       string

	started  bool
	haveNext bool
	nextRow  Row
	nextKey  []any

	havePrevGroup bool
	prevGroupKey  []any
}

func newGroupCursor(upstream Stream, keyCols []string, op string) *groupCursor {
	return &groupCursor{upstream: upstream, keyCols: keyCols, op: op}
}

func (g *groupCursor) ensureStarted() error {
	if g.started {
		return nil
	}
	g.started = true
	return g.advance()
}

func (g *groupCursor) advance() error {
	row, ok, err := g.upstream.Next()
	if err != nil {
		return err
	}
	if !ok {
		g.haveNext = false
		return nil
	}
	key, err := keyTuple(row, g.keyCols)
	if err != nil {
		return err
	}
	g.nextRow, g.nextKey, g.haveNext = row, key, true
	return nil
}

// peekGroupKey returns the key tuple of the next not-yet-consumed
// group without consuming any row, or ok=false once the upstream is
// exhausted. It errors with ErrOrdering if the candidate key is
// smaller than the previously completed group's key.
func (g *groupCursor) peekGroupKey() ([]any, bool, error) {
	if err := g.ensureStarted(); err != nil {
		return nil, false, err
	}
	if !g.haveNext {
		return nil, false, nil
	}
	if g.havePrevGroup && compareTuples(g.nextKey, g.prevGroupKey) < 0 {
		return nil, false, orderingErr(g.op, g.prevGroupKey, g.nextKey)
	}
	return g.nextKey, true, nil
}

// streamGroup returns a Stream over the rows sharing groupKey,
// pulling from upstream lazily as it is read. groupKey must be the
// value peekGroupKey most recently returned. Once the group is fully
// read (by this stream reaching its end, however that happens) the
// cursor records groupKey as the completed group for the next
// ordering check.
func (g *groupCursor) streamGroup(groupKey []any) Stream {
	done := false
	next := func() (Row, bool, error) {
		if done {
			return nil, false, nil
		}
		if !g.haveNext || !tupleEqual(g.nextKey, groupKey) {
			done = true
			g.prevGroupKey, g.havePrevGroup = groupKey, true
			return nil, false, nil
		}
		row := g.nextRow
		if err := g.advance(); err != nil {
			return nil, false, err
		}
		return row, true, nil
	}
	return newFuncStream(next, func() error { return nil })
}

// takeGroupRows materializes the entire group sharing groupKey.
func (g *groupCursor) takeGroupRows(groupKey []any) ([]Row, error) {
	var out []Row
	s := g.streamGroup(groupKey)
	err := drainGroup(s, func(r Row) error {
		out = append(out, r)
		return nil
	})
	return out, err
}

// skipGroup fully consumes the group sharing groupKey without
// retaining its rows. (Reduce finishes a partly read group by draining
// the stream it gave the reducer, not through skipGroup.)
func (g *groupCursor) skipGroup(groupKey []any) error {
	s := g.streamGroup(groupKey)
	return drainGroup(s, func(Row) error { return nil })
}
