// Copyright (c) 2011 Damian Gryski <damian@gryski.com>
// License: GPLv3 or, at your option, any later version

package graph

import (
	"bufio"
	"os"
)

// Generator produces a fresh row stream on each call, the contract an
// InMemorySource binding must satisfy (spec §5: "must yield a new
// iterator each call").
type Generator func() Stream

// Inputs binds InMemorySource names to Generators for one Run.
type Inputs map[string]Generator

// LineParser turns one line of text into a row, or returns an error
// (wrapped as ErrParse by the caller) if the line is malformed.
type LineParser func(line string) (Row, error)

// InMemorySource is a leaf operator that, at Run time, looks up name
// in the bound Inputs and yields whatever rows the bound Generator
// produces. It fails with ErrBinding if name has no binding.
func InMemorySource(name string) func(Inputs) (Stream, error) {
	return func(inputs Inputs) (Stream, error) {
		gen, ok := inputs[name]
		if !ok {
			return nil, bindingErr(name)
		}
		return gen(), nil
	}
}

// FileSource is a leaf operator that opens path, applies parse to
// each line in file order, and releases the file handle when the
// stream is exhausted or abandoned.
func FileSource(path string, parse LineParser) func(Inputs) (Stream, error) {
	return func(Inputs) (Stream, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, ioErr("open "+path, err)
		}
		sc := bufio.NewScanner(f)
		sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

		var close func() error
		next := func() (Row, bool, error) {
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return nil, false, ioErr("read "+path, err)
				}
				return nil, false, close()
			}
			row, err := parse(sc.Text())
			if err != nil {
				return nil, false, parseErr(path, err)
			}
			return row, true, nil
		}

		closed := false
		close = func() error {
			if closed {
				return nil
			}
			closed = true
			return f.Close()
		}

		return newFuncStream(next, close), nil
	}
}
