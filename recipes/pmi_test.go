package recipes

import (
	"math"
	"testing"

	graph "github.com/diS3e/computation-graph"
	"github.com/stretchr/testify/require"
)

// TestPMISmallCorpus exercises the recipe against a small hand-
// computed corpus; TestPMIReferenceCorpus below covers the reference
// corpus.
func TestPMISmallCorpus(t *testing.T) {
	docs := []graph.Row{
		{"doc_id": int64(1), "text": "apple apple banana"},
		{"doc_id": int64(2), "text": "apple banana banana"},
	}
	source := graph.FromIter("docs")
	g := PMI(source, PMIConfig{})

	stream, err := g.Run(graph.Inputs{"docs": func() graph.Stream { return rowsStream(docs) }})
	require.NoError(t, err)
	out, err := drainAll(stream)
	require.NoError(t, err)

	// doc1: apple occurs twice (qualifies, len 5 >= 5, count 2 >= 2),
	// banana occurs once so it is dropped everywhere, including from
	// every downstream total. doc2 is symmetric with banana qualifying
	// and apple dropped. Every denominator is built only from
	// candidate occurrences: doc_total(doc1) = 2 (apple only),
	// doc_total(doc2) = 2 (banana only), corpus_total = 4,
	// corpus count of apple = 2, of banana = 2.
	// freq_in_doc(doc1,apple) = 2/2 = 1, freq_in_corpus(apple) = 2/4 = 0.5
	expected := math.Log(1.0 / 0.5)

	require.Len(t, out, 2)
	byDoc := map[int64]graph.Row{}
	for _, r := range out {
		byDoc[r["doc_id"].(int64)] = r
	}
	require.Equal(t, "apple", byDoc[1]["word"])
	require.InDelta(t, expected, byDoc[1]["pmi"].(float64), 1e-6)
	require.Equal(t, "banana", byDoc[2]["word"])
	require.InDelta(t, expected, byDoc[2]["pmi"].(float64), 1e-6)
}

// TestPMIReferenceCorpus exercises the recipe against the reference
// six-document corpus, reproducing its documented pmi values to three
// decimal places. Every count below is restricted to candidate
// (doc, word) pairs only (length >= 5, occurring >= 2 times in that
// doc): doc1 and doc2 contribute no candidates at all, since none of
// their words repeat.
func TestPMIReferenceCorpus(t *testing.T) {
	docs := []graph.Row{
		{"doc_id": int64(1), "text": "hello, little world"},
		{"doc_id": int64(2), "text": "little"},
		{"doc_id": int64(3), "text": "little little little"},
		{"doc_id": int64(4), "text": "little? hello little world"},
		{"doc_id": int64(5), "text": "HELLO HELLO! WORLD..."},
		{"doc_id": int64(6), "text": "world? world... world!!! WORLD!!! HELLO!!! HELLO!!!!!!!"},
	}
	source := graph.FromIter("docs")
	g := PMI(source, PMIConfig{})

	stream, err := g.Run(graph.Inputs{"docs": func() graph.Stream { return rowsStream(docs) }})
	require.NoError(t, err)
	out, err := drainAll(stream)
	require.NoError(t, err)

	byDocWord := map[[2]any]float64{}
	for _, r := range out {
		byDocWord[[2]any{r["doc_id"], r["word"]}] = r["pmi"].(float64)
	}

	require.InDelta(t, 0.9555, byDocWord[[2]any{int64(3), "little"}], 1e-3)
	require.InDelta(t, 0.9555, byDocWord[[2]any{int64(4), "little"}], 1e-3)
	require.InDelta(t, 1.1786, byDocWord[[2]any{int64(5), "hello"}], 1e-3)
	require.InDelta(t, 0.7731, byDocWord[[2]any{int64(6), "world"}], 1e-3)
	require.InDelta(t, 0.0800, byDocWord[[2]any{int64(6), "hello"}], 1e-3)
	require.Len(t, out, 5)
}

func TestPMIExcludesShortAndRareWords(t *testing.T) {
	docs := []graph.Row{
		{"doc_id": int64(1), "text": "cat cat cat dog"},
	}
	source := graph.FromIter("docs")
	g := PMI(source, PMIConfig{})

	stream, err := g.Run(graph.Inputs{"docs": func() graph.Stream { return rowsStream(docs) }})
	require.NoError(t, err)
	out, err := drainAll(stream)
	require.NoError(t, err)

	// "cat" is too short (len 3 < 5) despite occurring 3 times; "dog"
	// occurs only once. Neither qualifies, so no row is produced.
	require.Empty(t, out)
}
