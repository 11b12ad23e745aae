// Command wordcount runs the word_count recipe over one
// or more row-literal input files and writes one row-literal line per
// output row.
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
		wordCol  = flag.String("word-col", "word", "output column holding the word")
		countCol = flag.String("count-col", "count", "output column holding the count")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("wordcount: -input is required")
	}

	docs := cliutil.SourceGraph(*input, *workers)
	result := recipes.WordCount(docs, recipes.WordCountConfig{
		TextCol:  *textCol,
		WordCol:  *wordCol,
		CountCol: *countCol,
	})

	if err := cliutil.RunAndWrite(result, *output); err != nil {
		log.Fatalf("wordcount: %v", err)
	}
}
