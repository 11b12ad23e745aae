// Copyright (c) 2011 Damian Gryski <damian@gryski.com>
// License: GPLv3 or, at your option, any later version

package graph

import (
	"bufio"
	"os"
	"sync"
)

// MultiFileSource fans rows in from several files at once, reading up
// to workers files concurrently. It is adapted from runners.go's
// per-file goroutine pool (mapreduce()'s "launch the goroutines ...
// send the work" loop): the job-queue/WaitGroup shape is kept, but it
// now feeds one merged Row stream instead of per-partition temp
// files. This is input fan-in only -- it never parallelizes an
// operator's own work (a spec Non-goal) -- and emission order across
// files is therefore unspecified; pipelines that care about total
// order must Sort downstream.
func MultiFileSource(paths []string, parse LineParser, workers int) func(Inputs) (Stream, error) {
	if workers <= 0 {
		workers = 4
	}
	if workers > len(paths) && len(paths) > 0 {
		workers = len(paths)
	}

	return func(Inputs) (Stream, error) {
		type result struct {
			row Row
			err error
		}

		jobs := make(chan string)
		results := make(chan result, 64)
		done := make(chan struct{})
		var wg sync.WaitGroup

		readFile := func(path string) {
			f, err := os.Open(path)
			if err != nil {
				select {
				case results <- result{err: ioErr("open "+path, err)}:
				case <-done:
				}
				return
			}
			defer f.Close()

			sc := bufio.NewScanner(f)
			sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
			for sc.Scan() {
				row, err := parse(sc.Text())
				if err != nil {
					select {
					case results <- result{err: parseErr(path, err)}:
					case <-done:
					}
					return
				}
				select {
				case results <- result{row: row}:
				case <-done:
					return
				}
			}
			if err := sc.Err(); err != nil {
				select {
				case results <- result{err: ioErr("read "+path, err)}:
				case <-done:
				}
			}
		}

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for path := range jobs {
					readFile(path)
				}
			}()
		}

		go func() {
		feed:
			for _, p := range paths {
				select {
				case jobs <- p:
				case <-done:
					break feed
				}
			}
			close(jobs)
			wg.Wait()
			close(results)
		}()

		closed := false
		closeFn := func() error {
			if closed {
				return nil
			}
			closed = true
			close(done)
			for range results {
				// drain so the feeder goroutine never blocks forever
				// on a full channel after cancellation.
			}
			return nil
		}

		next := func() (Row, bool, error) {
			r, ok := <-results
			if !ok {
				return nil, false, nil
			}
			if r.err != nil {
				return nil, false, r.err
			}
			return r.row, true, nil
		}

		return newFuncStream(next, closeFn), nil
	}
}
