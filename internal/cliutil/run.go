// Package cliutil holds the small amount of plumbing shared by the
// four recipe commands under cmd/: building a source Graph from a
// -input flag, and draining a finished Graph to a row-literal file.
package cliutil

import (
	"bufio"
	"os"
	"strings"

	graph "github.com/diS3e/computation-graph"
)

// SourceGraph builds a Graph rooted at a single FileSource, or at a
// MultiFileSource fan-in when input names more than one comma-
// separated path.
func SourceGraph(input string, workers int) graph.Graph {
	paths := strings.Split(input, ",")
	if len(paths) == 1 {
		return graph.FromFile(paths[0], graph.ParseLiteral)
	}
	return graph.FromMultiFile(paths, graph.ParseLiteral, workers)
}

// RunAndWrite runs g and writes one row-literal line per output row
// to output, or to stdout when output is empty.
func RunAndWrite(g graph.Graph, output string) error {
	stream, err := g.Run(nil)
	if err != nil {
		return err
	}

	w := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	bw := bufio.NewWriter(w)

	writeErr := drainTo(stream, bw)
	flushErr := bw.Flush()
	closeErr := stream.Close()

	switch {
	case writeErr != nil:
		return writeErr
	case flushErr != nil:
		return flushErr
	default:
		return closeErr
	}
}

func drainTo(stream graph.Stream, w *bufio.Writer) error {
	for {
		row, ok, err := stream.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		line, err := graph.RenderLiteral(row)
		if err != nil {
			return err
		}
		if _, err := w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
}
