package render

import (
	"fmt"
	"io"
	"sync"

	"github.com/roach88/catbind/internal/ir"
	"github.com/roach88/catbind/internal/progress"
)

// LineSink is a progress.Sink writing one line per snapshot:
//
//	[running] overall 2/3 loads 1/1 saves 0/2 | loading raw (CSVDataSet)
//
// Thread-safety: LineSink is safe for concurrent use.
type LineSink struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

var _ progress.Sink = (*LineSink)(nil)

func NewLineSink(w io.Writer) *LineSink {
	return &LineSink{w: w}
}

// Update writes snap. After the first write error the sink goes quiet.
func (s *LineSink) Update(snap ir.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintln(s.w, FormatLine(snap))
}

// Err returns the first write error.
func (s *LineSink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// FormatLine renders a snapshot as a single line without a newline.
func FormatLine(snap ir.Snapshot) string {
	line := fmt.Sprintf("[%s] overall %d/%d loads %d/%d saves %d/%d",
		snap.State,
		snap.Overall.Done, snap.Overall.Total,
		snap.Loads.Done, snap.Loads.Total,
		snap.Saves.Done, snap.Saves.Total,
	)
	if snap.Activity != "" {
		line += " | " + snap.Activity
	}
	return line
}
