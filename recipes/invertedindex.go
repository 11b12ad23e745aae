package recipes

import (
	"math"

	graph "github.com/diS3e/computation-graph"
)

// InvertedIndexConfig names the columns InvertedIndex reads and
// writes. Zero-valued fields fall back to the defaults below.
type InvertedIndexConfig struct {
	TextCol  string // input column holding the document's raw text. Default "text".
	DocIDCol string // input/output column holding the document id. Default "doc_id".
	WordCol  string // output column holding the word. Default "word".
	TfIdfCol string // output column holding the tf-idf score. Default "tf_idf".
	TopN     int    // documents kept per word. Default 3.
}

func (c InvertedIndexConfig) normalized() InvertedIndexConfig {
	if c.TextCol == "" {
		c.TextCol = "text"
	}
	if c.DocIDCol == "" {
		c.DocIDCol = "doc_id"
	}
	if c.WordCol == "" {
		c.WordCol = "word"
	}
	if c.TfIdfCol == "" {
		c.TfIdfCol = "tf_idf"
	}
	if c.TopN <= 0 {
		c.TopN = 3
	}
	return c
}

// InvertedIndex builds the inverted_index recipe on top of docs, a
// Graph whose rows each carry one document's id and text.
// Output fields (doc_id, word, tf_idf), up to cfg.TopN documents per
// word, sorted by (doc_id, word).
//
// tf_idf = tf * ln(D / df), where tf is the word's term frequency
// within its document (graph.TermFrequency), D is the total document
// count, and df is the number of documents containing the word. Both
// D and df are joined in as ordinary columns rather than computed
// eagerly: a zero-key join pairs every row of the left side against
// the single row of a one-row right side, broadcasting a scalar
// across a whole stream using the same Join the rest of the recipe
// already needs.
func InvertedIndex(docs graph.Graph, cfg InvertedIndexConfig) graph.Graph {
	cfg = cfg.normalized()

	words := explodeWords(docs, cfg.TextCol, cfg.DocIDCol, cfg.WordCol)

	totalDocs := docs.Reduce(nil, graph.Count("total_docs"))

	tf := words.
		Sort([]string{cfg.DocIDCol}).
		Reduce([]string{cfg.DocIDCol}, graph.TermFrequency(cfg.WordCol, "tf")).
		Sort([]string{cfg.WordCol})

	df := words.
		Sort([]string{cfg.DocIDCol, cfg.WordCol}).
		Reduce([]string{cfg.DocIDCol, cfg.WordCol}, graph.FirstReducer()).
		Sort([]string{cfg.WordCol}).
		Reduce([]string{cfg.WordCol}, graph.Count("df")).
		Sort([]string{cfg.WordCol})

	dfWithTotal := df.Join(totalDocs, graph.InnerJoiner(), nil)

	joined := dfWithTotal.
		Sort([]string{cfg.WordCol}).
		Join(tf, graph.InnerJoiner(), []string{cfg.WordCol})

	scored := joined.
		Map(tfIdfOp(cfg.TfIdfCol)).
		Map(graph.Project([]string{cfg.DocIDCol, cfg.WordCol, cfg.TfIdfCol}))

	return scored.
		Sort([]string{cfg.WordCol}).
		Reduce([]string{cfg.WordCol}, graph.TopN(cfg.TfIdfCol, cfg.TopN)).
		Sort([]string{cfg.DocIDCol, cfg.WordCol})
}

// tfIdfOp computes out = tf * ln(total_docs / df) on a row already
// carrying tf, df, and total_docs from the upstream joins.
func tfIdfOp(out string) graph.MapFunc {
	return func(r graph.Row) ([]graph.Row, error) {
		tf, err := r.MustGet("tfIdf", "tf")
		if err != nil {
			return nil, err
		}
		df, err := r.MustGet("tfIdf", "df")
		if err != nil {
			return nil, err
		}
		total, err := r.MustGet("tfIdf", "total_docs")
		if err != nil {
			return nil, err
		}
		tfv, ok := tf.(float64)
		if !ok {
			return nil, graph.ErrField
		}
		dfv, err := asFloat(df)
		if err != nil {
			return nil, err
		}
		totalv, err := asFloat(total)
		if err != nil {
			return nil, err
		}
		score := tfv * math.Log(totalv/dfv)
		return []graph.Row{r.Merge(graph.Row{out: score})}, nil
	}
}

func asFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	}
	return 0, graph.ErrField
}
