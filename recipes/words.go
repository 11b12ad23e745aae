package recipes

import graph "github.com/diS3e/computation-graph"

// explodeWords returns a Graph yielding one row per word occurrence
// in docs: docIDCol carried through unchanged, wordCol holding the
// lowercased, punctuation-stripped fragment. Shared by inverted_index
// and pmi, both of which start from the same per-occurrence word
// stream before diverging into their own aggregations. Empty fragments
// (from leading, trailing, or doubled separators) are kept, not
// dropped: neither recipe filters them upstream of its own logic.
func explodeWords(docs graph.Graph, textCol, docIDCol, wordCol string) graph.Graph {
	words := docs.
		Map(graph.LowerCase(textCol)).
		Map(graph.FilterPunctuation(textCol)).
		Map(graph.Split(textCol, "")).
		Map(renameField(textCol, wordCol))

	if docIDCol == "" {
		return words
	}
	return words.Map(graph.Project([]string{docIDCol, wordCol}))
}
