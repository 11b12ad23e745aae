// Package recipes composes the core graph operators into four named
// algorithms, each as a plain function from a source Graph to a
// finished Graph -- nothing here is a core operator, it is all
// `graph.Map`/`graph.Reduce`/`graph.Sort`/`graph.Join` wiring the way
// a job author would assemble a job from the library's primitives.
package recipes

import (
	graph "github.com/diS3e/computation-graph"
)

// WordCountConfig names the columns WordCount reads and writes.
// Zero-valued fields fall back to the defaults below.
type WordCountConfig struct {
	TextCol  string // input column holding the document's raw text. Default "text".
	WordCol  string // output column holding the lowercased word. Default "word".
	CountCol string // output column holding the occurrence count. Default "count".
}

func (c WordCountConfig) normalized() WordCountConfig {
	if c.TextCol == "" {
		c.TextCol = "text"
	}
	if c.WordCol == "" {
		c.WordCol = "word"
	}
	if c.CountCol == "" {
		c.CountCol = "count"
	}
	return c
}

// WordCount builds the word_count recipe on top of docs, a Graph whose
// rows each carry one document's text under cfg.TextCol. Output: one
// row per distinct lowercased, punctuation-stripped word (empty
// fragments from leading, trailing, or doubled separators included),
// fields (cfg.WordCol, cfg.CountCol), sorted ascending by (count, word).
func WordCount(docs graph.Graph, cfg WordCountConfig) graph.Graph {
	cfg = cfg.normalized()

	words := docs.
		Map(graph.LowerCase(cfg.TextCol)).
		Map(graph.FilterPunctuation(cfg.TextCol)).
		Map(graph.Split(cfg.TextCol, "")).
		Map(renameField(cfg.TextCol, cfg.WordCol))

	return words.
		Sort([]string{cfg.WordCol}).
		Reduce([]string{cfg.WordCol}, graph.Count(cfg.CountCol)).
		Sort([]string{cfg.CountCol, cfg.WordCol})
}

// renameField copies row[from] to row[to] and drops from, the glue
// Split's "replace the column in place" contract needs whenever a
// recipe wants the fragment under a different field name than its
// source text column.
func renameField(from, to string) graph.MapFunc {
	if from == to {
		return func(r graph.Row) ([]graph.Row, error) { return []graph.Row{r}, nil }
	}
	return func(r graph.Row) ([]graph.Row, error) {
		v, err := r.MustGet("renameField", from)
		if err != nil {
			return nil, err
		}
		out := r.Clone()
		delete(out, from)
		out[to] = v
		return []graph.Row{out}, nil
	}
}
