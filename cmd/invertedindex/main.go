// Command invertedindex runs the inverted_index recipe
// over one or more row-literal input files.
package main

import (
	"flag"
	"log"

	"github.com/diS3e/computation-graph/internal/cliutil"
	"github.com/diS3e/computation-graph/recipes"
)

func main() {
	var (
		input    = flag.String("input", "", "input file path, or comma-separated paths")
		output   = flag.String("output", "", "output file path (default stdout)")
		workers  = flag.Int("workers", 4, "concurrent readers when -input names more than one file")
		textCol  = flag.String("text-col", "text", "input column holding document text")
		docIDCol = flag.String("doc-id-col", "doc_id", "input/output column holding the document id")
		wordCol  = flag.String("word-col", "word", "output column holding the word")
		tfIdfCol = flag.String("tfidf-col", "tf_idf", "output column holding the tf-idf score")
		topN     = flag.Int("top", 3, "documents kept per word")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("invertedindex: -input is required")
	}

	docs := cliutil.SourceGraph(*input, *workers)
	result := recipes.InvertedIndex(docs, recipes.InvertedIndexConfig{
		TextCol:  *textCol,
		DocIDCol: *docIDCol,
		WordCol:  *wordCol,
		TfIdfCol: *tfIdfCol,
		TopN:     *topN,
	})

	if err := cliutil.RunAndWrite(result, *output); err != nil {
		log.Fatalf("invertedindex: %v", err)
	}
}
