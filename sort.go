// Copyright (c) 2011 Damian Gryski <damian@gryski.com>
// License: GPLv3 or, at your option, any later version

package graph

import (
	"bufio"
	"container/heap"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/klauspost/compress/s2"
)

// defaultRunSize is the number of rows buffered in memory before a
// run is sorted and, if more input remains, spilled to disk (spec
// §4.4: "runs of ~64k rows").
const defaultRunSize = 1 << 16

// SortOption customizes a Sort stage.
type SortOption func(*sortConfig)

type sortConfig struct {
	runSize  int
	tmpDir   string
	compress bool
}

func defaultSortConfig() sortConfig {
	return sortConfig{runSize: defaultRunSize, tmpDir: os.TempDir(), compress: true}
}

// WithRunSize overrides the number of rows buffered per run before a
// spill, the implementation-defined threshold spec §4.4 leaves open.
func WithRunSize(n int) SortOption {
	return func(c *sortConfig) {
		if n > 0 {
			c.runSize = n
		}
	}
}

// WithTempDir overrides the directory spilled runs are written to.
func WithTempDir(dir string) SortOption {
	return func(c *sortConfig) { c.tmpDir = dir }
}

// WithCompression toggles S2 compression of spilled run files.
func WithCompression(on bool) SortOption {
	return func(c *sortConfig) { c.compress = on }
}

// Sort returns a stream ordered by keyCols, stable with respect to
// rows sharing the full key tuple. Small inputs are sorted entirely
// in memory; inputs larger than one run are spilled to temporary
// files and merged with a k-way min-heap (spec §4.4). Every temporary
// file created is removed when the returned stream is fully drained
// or Close is called early.
func Sort(upstream Stream, keyCols []string, opts ...SortOption) Stream {
	cfg := defaultSortConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &sortStream{upstream: upstream, keyCols: keyCols, cfg: cfg}
}

type sortStream struct {
	upstream Stream
	keyCols  []string
	cfg      sortConfig

	built bool
	err   error
	inner Stream
}

func (s *sortStream) ensureBuilt() error {
	if s.built {
		return s.err
	}
	s.built = true

	inMemory, runs, err := buildSortRuns(s.upstream, s.keyCols, s.cfg)
	if err != nil {
		s.err = err
		return err
	}
	if runs == nil {
		s.inner = newSliceStream(inMemory)
		return nil
	}
	merged, err := newMergeStream(runs, s.keyCols)
	if err != nil {
		cleanupRuns(runs)
		s.err = err
		return err
	}
	s.inner = merged
	return nil
}

func (s *sortStream) Next() (Row, bool, error) {
	if err := s.ensureBuilt(); err != nil {
		return nil, false, err
	}
	return s.inner.Next()
}

func (s *sortStream) Close() error {
	var innerErr error
	if s.inner != nil {
		innerErr = s.inner.Close()
	}
	upErr := s.upstream.Close()
	if innerErr != nil {
		return innerErr
	}
	return upErr
}

// spilledRun is one sorted, spilled run of rows.
type spilledRun struct {
	path     string
	compress bool
}

// buildSortRuns drains upstream into runSize-row chunks, sorting each
// stably. If everything fits in the first chunk, it is returned
// in-memory and no file is ever created. Otherwise every chunk
// (including the first) is spilled and the list of runs is returned.
func buildSortRuns(upstream Stream, keyCols []string, cfg sortConfig) ([]Row, []spilledRun, error) {
	runID := uuid.NewString()
	var runs []spilledRun
	runIdx := 0

	for {
		buf := make([]Row, 0, cfg.runSize)
		for len(buf) < cfg.runSize {
			row, ok, err := upstream.Next()
			if err != nil {
				cleanupRuns(runs)
				return nil, nil, err
			}
			if !ok {
				break
			}
			buf = append(buf, row)
		}

		sorted, err := stableSortRows(buf, keyCols)
		if err != nil {
			cleanupRuns(runs)
			return nil, nil, err
		}

		eof := len(buf) < cfg.runSize

		if eof && len(runs) == 0 {
			return sorted, nil, nil
		}

		if len(sorted) > 0 {
			run, err := spillRun(sorted, cfg, runID, runIdx)
			if err != nil {
				cleanupRuns(runs)
				return nil, nil, err
			}
			runIdx++
			runs = append(runs, run)
		}

		if eof {
			return nil, runs, nil
		}
	}
}

type keyedRow struct {
	row Row
	key []any
}

// stableSortRows returns rows sorted by keyCols, stable w.r.t. rows
// that share the full key tuple (spec §3).
func stableSortRows(rows []Row, keyCols []string) ([]Row, error) {
	keyed := make([]keyedRow, len(rows))
	for i, r := range rows {
		k, err := keyTuple(r, keyCols)
		if err != nil {
			return nil, err
		}
		keyed[i] = keyedRow{row: r, key: k}
	}
	sort.SliceStable(keyed, func(i, j int) bool {
		return compareTuples(keyed[i].key, keyed[j].key) < 0
	})
	out := make([]Row, len(keyed))
	for i, k := range keyed {
		out[i] = k.row
	}
	return out, nil
}

func spillRun(rows []Row, cfg sortConfig, runID string, idx int) (spilledRun, error) {
	path := filepath.Join(cfg.tmpDir, fmt.Sprintf("cgraph-sort-%s-%04d.run", runID, idx))
	f, err := os.Create(path)
	if err != nil {
		return spilledRun{}, ioErr("create spill run "+path, err)
	}
	defer f.Close()

	var w io.Writer = f
	var s2w *s2.Writer
	if cfg.compress {
		s2w = s2.NewWriter(f)
		w = s2w
	}
	bw := bufio.NewWriter(w)

	for _, row := range rows {
		line, err := RenderLiteral(row)
		if err != nil {
			return spilledRun{}, err
		}
		if _, err := bw.WriteString(line); err != nil {
			return spilledRun{}, ioErr("write spill run "+path, err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return spilledRun{}, ioErr("write spill run "+path, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return spilledRun{}, ioErr("flush spill run "+path, err)
	}
	if s2w != nil {
		if err := s2w.Close(); err != nil {
			return spilledRun{}, ioErr("close compressed spill run "+path, err)
		}
	}
	return spilledRun{path: path, compress: cfg.compress}, nil
}

func cleanupRuns(runs []spilledRun) {
	for _, r := range runs {
		os.Remove(r.path)
	}
}

// runReader reads one spilled run file back as a stream of rows.
type runReader struct {
	f  *os.File
	sc *bufio.Scanner
}

func openRunReader(run spilledRun) (*runReader, error) {
	f, err := os.Open(run.path)
	if err != nil {
		return nil, ioErr("open spill run "+run.path, err)
	}
	var r io.Reader = f
	if run.compress {
		r = s2.NewReader(f)
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &runReader{f: f, sc: sc}, nil
}

func (rr *runReader) next() (Row, bool, error) {
	if !rr.sc.Scan() {
		if err := rr.sc.Err(); err != nil {
			return nil, false, ioErr("read spill run", err)
		}
		return nil, false, nil
	}
	row, err := ParseLiteral(rr.sc.Text())
	if err != nil {
		return nil, false, err
	}
	return row, true, nil
}

func (rr *runReader) close() error { return rr.f.Close() }

// mergeItem is one run's current head, held by mergeHeap.
type mergeItem struct {
	row    Row
	key    []any
	runIdx int
	reader *runReader
}

// mergeHeap is a container/heap min-heap over mergeItem, ordered by
// key tuple and, on ties, by run index so rows that were adjacent in
// the original stream re-emerge in their original relative order
// (spec §3: sort stability).
type mergeHeap []*mergeItem

func (h mergeHeap) Len() int { return len(h) }
func (h mergeHeap) Less(i, j int) bool {
	if c := compareTuples(h[i].key, h[j].key); c != 0 {
		return c < 0
	}
	return h[i].runIdx < h[j].runIdx
}
func (h mergeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x any)        { *h = append(*h, x.(*mergeItem)) }
func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

type mergeStream struct {
	runs    []spilledRun
	readers []*runReader
	h       *mergeHeap
	keyCols []string
	closed  bool
}

func newMergeStream(runs []spilledRun, keyCols []string) (*mergeStream, error) {
	m := &mergeStream{runs: runs, keyCols: keyCols, h: &mergeHeap{}}
	heap.Init(m.h)
	for i, run := range runs {
		rr, err := openRunReader(run)
		if err != nil {
			m.Close()
			return nil, err
		}
		m.readers = append(m.readers, rr)
		if err := m.pull(i, rr); err != nil {
			m.Close()
			return nil, err
		}
	}
	return m, nil
}

func (m *mergeStream) pull(runIdx int, rr *runReader) error {
	row, ok, err := rr.next()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	key, err := keyTuple(row, m.keyCols)
	if err != nil {
		return err
	}
	heap.Push(m.h, &mergeItem{row: row, key: key, runIdx: runIdx, reader: rr})
	return nil
}

func (m *mergeStream) Next() (Row, bool, error) {
	if m.h.Len() == 0 {
		return nil, false, m.Close()
	}
	top := heap.Pop(m.h).(*mergeItem)
	if err := m.pull(top.runIdx, top.reader); err != nil {
		return nil, false, err
	}
	return top.row, true, nil
}

func (m *mergeStream) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	var firstErr error
	for _, rr := range m.readers {
		if err := rr.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	cleanupRuns(m.runs)
	return firstErr
}
