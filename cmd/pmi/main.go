// Command pmi runs the pmi recipe over one or more
// row-literal input files.
package main

import (
	"flag"
	"log"

	"github.com/diS3e/computation-graph/internal/cliutil"
	"github.com/diS3e/computation-graph/recipes"
)

func main() {
	var (
		input       = flag.String("input", "", "input file path, or comma-separated paths")
		output      = flag.String("output", "", "output file path (default stdout)")
		workers     = flag.Int("workers", 4, "concurrent readers when -input names more than one file")
		textCol     = flag.String("text-col", "text", "input column holding document text")
		docIDCol    = flag.String("doc-id-col", "doc_id", "input/output column holding the document id")
		wordCol     = flag.String("word-col", "word", "output column holding the word")
		pmiCol      = flag.String("pmi-col", "pmi", "output column holding the PMI score")
		minWordLen  = flag.Int("min-word-len", 5, "minimum word length (runes) to consider")
		minDocCount = flag.Int("min-doc-count", 2, "minimum occurrences of a word within a document to consider")
		topN        = flag.Int("top", 10, "words kept per document")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("pmi: -input is required")
	}

	docs := cliutil.SourceGraph(*input, *workers)
	result := recipes.PMI(docs, recipes.PMIConfig{
		TextCol:     *textCol,
		DocIDCol:    *docIDCol,
		WordCol:     *wordCol,
		PMICol:      *pmiCol,
		MinWordLen:  *minWordLen,
		MinDocCount: *minDocCount,
		TopN:        *topN,
	})

	if err := cliutil.RunAndWrite(result, *output); err != nil {
		log.Fatalf("pmi: %v", err)
	}
}
