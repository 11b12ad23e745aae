// Copyright (c) 2011 Damian Gryski <damian@gryski.com>
// License: GPLv3 or, at your option, any later version

package graph

// Stream is a finite, single-pass, forward-only sequence of rows
// (spec §3). Next returns the next row, or ok=false once the stream
// is exhausted. Close releases any resource the stream holds (open
// files, spill files, buffered heaps) and must be safe to call more
// than once and at any point in iteration, including before the
// stream is exhausted (cancellation, spec §5).
type Stream interface {
	Next() (Row, bool, error)
	Close() error
}

// drain pulls every row out of s, calling fn for each, and always
// closes s before returning -- including on error or on fn's error.
func drain(s Stream, fn func(Row) error) error {
	defer s.Close()
	for {
		row, ok, err := s.Next()
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

// collect drains s into a slice. Intended for tests, not for
// production pipelines (it defeats O(1) memory).
func collect(s Stream) ([]Row, error) {
	var out []Row
	err := drain(s, func(r Row) error {
		out = append(out, r)
		return nil
	})
	return out, err
}

// sliceStream adapts a materialized []Row into a Stream. Used by
// Sort's in-memory fast path and by tests.
type sliceStream struct {
	rows []Row
	pos  int
}

func newSliceStream(rows []Row) *sliceStream {
	return &sliceStream{rows: rows}
}

func (s *sliceStream) Next() (Row, bool, error) {
	if s.pos >= len(s.rows) {
		return nil, false, nil
	}
	r := s.rows[s.pos]
	s.pos++
	return r, true, nil
}

func (s *sliceStream) Close() error { return nil }

// funcStream adapts a pull closure and a close closure into a Stream.
// Most operators (Map, Filter, the join and reduce drivers) are
// expressed as a funcStream over their upstream.
type funcStream struct {
	next  func() (Row, bool, error)
	close func() error
}

func newFuncStream(next func() (Row, bool, error), close func() error) *funcStream {
	return &funcStream{next: next, close: close}
}

func (s *funcStream) Next() (Row, bool, error) { return s.next() }

func (s *funcStream) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// emptyStream is the zero-row stream. Join does not use it for an
// empty side; it represents an unmatched group by its other side's
// rows alone.
type emptyStream struct{}

func (emptyStream) Next() (Row, bool, error) { return nil, false, nil }
func (emptyStream) Close() error             { return nil }
