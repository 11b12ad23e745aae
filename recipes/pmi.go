package recipes

import (
	"math"

	graph "github.com/diS3e/computation-graph"
)

// PMIConfig names the columns PMI reads and writes, plus its two
// selection thresholds. Zero-valued fields fall back to the defaults
// below.
type PMIConfig struct {
	TextCol     string // input column holding the document's raw text. Default "text".
	DocIDCol    string // input/output column holding the document id. Default "doc_id".
	WordCol     string // output column holding the word. Default "word".
	PMICol      string // output column holding the PMI score. Default "pmi".
	MinWordLen  int    // words shorter than this are excluded. Default 5 (length > 4).
	MinDocCount int    // a word must occur at least this many times in a document. Default 2.
	TopN        int    // words kept per document. Default 10.
}

func (c PMIConfig) normalized() PMIConfig {
	if c.TextCol == "" {
		c.TextCol = "text"
	}
	if c.DocIDCol == "" {
		c.DocIDCol = "doc_id"
	}
	if c.WordCol == "" {
		c.WordCol = "word"
	}
	if c.PMICol == "" {
		c.PMICol = "pmi"
	}
	if c.MinWordLen <= 0 {
		c.MinWordLen = 5
	}
	if c.MinDocCount <= 0 {
		c.MinDocCount = 2
	}
	if c.TopN <= 0 {
		c.TopN = 10
	}
	return c
}

// PMI builds the pmi recipe on top of docs, a Graph whose rows each
// carry one document's id and text. A word is a candidate in a given
// document only if it has at least cfg.MinWordLen runes and occurs at
// least cfg.MinDocCount times in that document; every downstream count
// (the word's corpus total, the document's total, the corpus grand
// total) is accumulated from candidate occurrences only, so a word
// that fails the threshold in a document contributes nothing anywhere,
// not just to that document's own output. For each document, the top
// cfg.TopN candidate words are kept, ranked by
// PMI = ln(freq_in_doc / freq_in_corpus). Output fields (doc_id, word, pmi).
//
// freq_in_doc and freq_in_corpus are both joined in as ordinary
// columns rather than computed eagerly, the same zero-key and
// per-key broadcast-join technique InvertedIndex uses.
func PMI(docs graph.Graph, cfg PMIConfig) graph.Graph {
	cfg = cfg.normalized()

	words := explodeWords(docs, cfg.TextCol, cfg.DocIDCol, cfg.WordCol)

	candidates := words.
		Sort([]string{cfg.DocIDCol, cfg.WordCol}).
		Reduce([]string{cfg.DocIDCol, cfg.WordCol}, graph.Count("n_w")).
		Map(graph.Filter(candidateWord(cfg)))

	perDocTotal := candidates.
		Sort([]string{cfg.DocIDCol}).
		Reduce([]string{cfg.DocIDCol}, graph.Sum("n_w")).
		Map(renameField("n_w", "doc_total"))

	perDoc := candidates.
		Sort([]string{cfg.DocIDCol}).
		Join(perDocTotal.Sort([]string{cfg.DocIDCol}), graph.InnerJoiner(), []string{cfg.DocIDCol}).
		Map(ratioOp("n_w", "doc_total", "freq_in_doc"))

	perWordCorpus := candidates.
		Sort([]string{cfg.WordCol}).
		Reduce([]string{cfg.WordCol}, graph.Sum("n_w")).
		Map(renameField("n_w", "corpus_n_w"))

	corpusTotal := candidates.
		Reduce(nil, graph.Sum("n_w")).
		Map(renameField("n_w", "corpus_total"))

	corpusFreq := perWordCorpus.
		Join(corpusTotal, graph.InnerJoiner(), nil).
		Map(ratioOp("corpus_n_w", "corpus_total", "freq_in_corpus")).
		Map(graph.Project([]string{cfg.WordCol, "freq_in_corpus"}))

	scored := perDoc.
		Sort([]string{cfg.WordCol}).
		Join(corpusFreq.Sort([]string{cfg.WordCol}), graph.InnerJoiner(), []string{cfg.WordCol}).
		Map(pmiOp(cfg.PMICol)).
		Map(graph.Project([]string{cfg.DocIDCol, cfg.WordCol, cfg.PMICol}))

	return scored.
		Sort([]string{cfg.DocIDCol}).
		Reduce([]string{cfg.DocIDCol}, graph.TopN(cfg.PMICol, cfg.TopN)).
		Sort([]string{cfg.DocIDCol})
}

// candidateWord returns a Filter predicate keeping only rows whose
// word is at least cfg.MinWordLen runes long and occurred at least
// cfg.MinDocCount times in its document (row["n_w"]).
func candidateWord(cfg PMIConfig) func(graph.Row) (bool, error) {
	return func(r graph.Row) (bool, error) {
		w, err := r.MustGet("candidateWord", cfg.WordCol)
		if err != nil {
			return false, err
		}
		word, ok := w.(string)
		if !ok {
			return false, graph.ErrField
		}
		n, err := r.MustGet("candidateWord", "n_w")
		if err != nil {
			return false, err
		}
		count, err := asFloat(n)
		if err != nil {
			return false, err
		}
		return len([]rune(word)) >= cfg.MinWordLen && count >= float64(cfg.MinDocCount), nil
	}
}

// ratioOp sets row[out] = row[num] / row[denom].
func ratioOp(num, denom, out string) graph.MapFunc {
	return func(r graph.Row) ([]graph.Row, error) {
		n, err := r.MustGet("ratio", num)
		if err != nil {
			return nil, err
		}
		d, err := r.MustGet("ratio", denom)
		if err != nil {
			return nil, err
		}
		nv, err := asFloat(n)
		if err != nil {
			return nil, err
		}
		dv, err := asFloat(d)
		if err != nil {
			return nil, err
		}
		return []graph.Row{r.Merge(graph.Row{out: nv / dv})}, nil
	}
}

// pmiOp sets row[out] = ln(freq_in_doc / freq_in_corpus).
func pmiOp(out string) graph.MapFunc {
	return func(r graph.Row) ([]graph.Row, error) {
		fd, err := r.MustGet("pmi", "freq_in_doc")
		if err != nil {
			return nil, err
		}
		fc, err := r.MustGet("pmi", "freq_in_corpus")
		if err != nil {
			return nil, err
		}
		fdv, err := asFloat(fd)
		if err != nil {
			return nil, err
		}
		fcv, err := asFloat(fc)
		if err != nil {
			return nil, err
		}
		return []graph.Row{r.Merge(graph.Row{out: math.Log(fdv / fcv)})}, nil
	}
}
