// Package trace implements the Attempt Tracker (spec.md §4.2): a
// per-attempt record of pass/stage/line-counts/duration/commit state,
// appended to a TSV trace file that is never mutated after a record is
// written.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"sync"
	"time"
)

// Record is one Attempt Record (spec.md §3).
type Record struct {
	Pass         int
	Stage        string
	LinesBefore  int
	LinesAfter   int
	Committed    bool
	WallDuration time.Duration
	Index        uint64
	TypeTag      string
	InputFile    string

	start time.Time
}

// Tracker is the TSV writer for one trace file, shared by every input of
// a run (its header is written once per Tracker). Global attempt
// indices are owned by a Counter shared across every Tracker in a
// multi-file run (spec.md §5 "Global monotonic attempt index:
// process-wide, read by all Attempt Records at begin() and incremented
// at end()"), so the same index can also number the
// --save-intermediates archive file for that attempt.
type Tracker struct {
	mu         sync.Mutex
	w          *bufio.Writer
	closer     io.Closer
	headerDone bool
}

// Counter is the process-wide monotonic attempt index.
type Counter struct {
	mu sync.Mutex
	n  uint64
}

// Next increments and returns the next attempt index.
func (c *Counter) Next() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return c.n
}

// NewTracker wraps w (typically an append-only file opened by the
// caller) as a Tracker.
func NewTracker(w io.Writer) *Tracker {
	t := &Tracker{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		t.closer = c
	}
	return t
}

// Begin snapshots start time and lines-before, returning a Record to be
// completed by End once the attempt's oracle verdict is known. index is
// the value a shared Counter returned for this attempt.
func (t *Tracker) Begin(pass int, stage string, linesBefore int, inputFile string, index uint64) *Record {
	return &Record{
		Pass:        pass,
		Stage:       stage,
		LinesBefore: linesBefore,
		InputFile:   inputFile,
		Index:       index,
		start:       time.Now(),
	}
}

// End snapshots end time and lines-after, and appends the completed
// record to the trace.
func (t *Tracker) End(rec *Record, committed bool, linesAfter int, typeTag string) {
	rec.Committed = committed
	rec.LinesAfter = linesAfter
	rec.TypeTag = typeTag
	rec.WallDuration = time.Since(rec.start)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.writeHeaderOnce()
	t.writeRecord(rec)
}

func (t *Tracker) writeHeaderOnce() {
	if t.headerDone {
		return
	}
	t.headerDone = true
	fmt.Fprintln(t.w, "pass\tstage\tlines_removed\tcommitted\ttime_ms\tidx\ttype_info\tinput_file")
}

func (t *Tracker) writeRecord(rec *Record) {
	linesRemoved := rec.LinesBefore - rec.LinesAfter
	fmt.Fprintf(t.w, "%d\t%s\t%d\t%t\t%d\t%d\t%s\t%s\n",
		rec.Pass, rec.Stage, linesRemoved, rec.Committed,
		rec.WallDuration.Milliseconds(), rec.Index, rec.TypeTag, rec.InputFile)
	t.w.Flush()
}

// Close flushes and, if the underlying writer was opened by NewTracker's
// caller as an io.Closer, closes it.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.w.Flush(); err != nil {
		return err
	}
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}
