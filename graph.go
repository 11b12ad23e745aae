// Copyright (c) 2011 Damian Gryski <damian@gryski.com>
// License: GPLv3 or, at your option, any later version

package graph

// stage is one step of a Graph's stage list: given the Run-time
// Inputs bindings and the stream produced so far, it returns the next
// stream in the chain.
type stage struct {
	apply func(Inputs, Stream) (Stream, error)
}

// Graph is an immutable value carrying a source factory and an
// ordered, append-only list of stage factories (Design Notes,
// "Builder immutability"). Each chaining method returns a new Graph;
// the receiver is unchanged and remains independently runnable.
type Graph struct {
	source func(Inputs) (Stream, error)
	stages []stage
}

// FromIter builds a Graph rooted at an InMemorySource bound to name.
func FromIter(name string) Graph {
	return Graph{source: InMemorySource(name)}
}

// FromFile builds a Graph rooted at a FileSource reading path.
func FromFile(path string, parse LineParser) Graph {
	return Graph{source: FileSource(path, parse)}
}

// FromMultiFile builds a Graph rooted at a MultiFileSource fanning in
// paths concurrently (spec §5's CLI-level "-workers N" input fan-in).
func FromMultiFile(paths []string, parse LineParser, workers int) Graph {
	return Graph{source: MultiFileSource(paths, parse, workers)}
}

// appended returns a new Graph with s appended to the stage list. The
// three-index slice expression forces a fresh backing array on the
// next append, so two Graphs built by chaining off the same prefix
// (branching) can never alias each other's stage slot -- the
// no-cloning sharing Design Notes calls for stays safe even though
// stages live in a plain slice.
func (g Graph) appended(s stage) Graph {
	stages := append(g.stages[:len(g.stages):len(g.stages)], s)
	return Graph{source: g.source, stages: stages}
}

// Map appends a Map stage applying op to every row.
func (g Graph) Map(op MapFunc) Graph {
	return g.appended(stage{apply: func(_ Inputs, in Stream) (Stream, error) {
		return Map(in, op), nil
	}})
}

// Reduce appends a grouped-reduce stage over keyCols.
func (g Graph) Reduce(keyCols []string, reducer ReducerFunc) Graph {
	return g.appended(stage{apply: func(_ Inputs, in Stream) (Stream, error) {
		return Reduce(in, keyCols, reducer), nil
	}})
}

// Sort appends an external-sort stage ordering by keyCols.
func (g Graph) Sort(keyCols []string, opts ...SortOption) Graph {
	return g.appended(stage{apply: func(_ Inputs, in Stream) (Stream, error) {
		return Sort(in, keyCols, opts...), nil
	}})
}

// Join appends a sort-merge join stage. other is captured by value
// (its builder snapshot); at Run time other.Run(inputs) is executed
// with the same input bindings and threaded in as the join's right
// side (spec §4.6).
func (g Graph) Join(other Graph, joiner Joiner, keyCols []string) Graph {
	return g.appended(stage{apply: func(inputs Inputs, in Stream) (Stream, error) {
		rightStream, err := other.Run(inputs)
		if err != nil {
			return nil, err
		}
		return Join(in, rightStream, joiner, keyCols), nil
	}})
}

// Run instantiates the source with inputs, threads it through the
// stage list in order, and returns the terminal lazy stream. A Graph
// may be Run multiple times; each run is independent and re-executes
// any shared prefix from scratch (no memoization, per Design Notes
// "Branching joins").
func (g Graph) Run(inputs Inputs) (Stream, error) {
	s, err := g.source(inputs)
	if err != nil {
		return nil, err
	}
	for _, st := range g.stages {
		s, err = st.apply(inputs, s)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}
