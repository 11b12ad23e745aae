package recipes

import graph "github.com/diS3e/computation-graph"

// memStream adapts a []graph.Row into a graph.Stream for tests that
// bind an InMemorySource input without going through a file.
type memStream struct {
	rows []graph.Row
	pos  int
}

func rowsStream(rows []graph.Row) graph.Stream { return &memStream{rows: rows} }

func (s *memStream) Next() (graph.Row, bool, error) {
	if s.pos >= len(s.rows) {
		return nil, false, nil
	}
	r := s.rows[s.pos]
	s.pos++
	return r, true, nil
}

func (s *memStream) Close() error { return nil }

func drainAll(stream graph.Stream) ([]graph.Row, error) {
	defer stream.Close()
	var out []graph.Row
	for {
		row, ok, err := stream.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, row)
	}
}
