package progress

import (
	"sync"

	"github.com/roach88/catbind/internal/ir"
)

// Sink receives a snapshot after every mutating event.
//
// Update must be inert: it must not block the execution thread for long and
// must not panic. The correlator guards against panics regardless.
type Sink interface {
	Update(snap ir.Snapshot)
}

// NopSink discards all snapshots.
type NopSink struct{}

func (NopSink) Update(ir.Snapshot) {}

// SafeUpdate pushes a snapshot and swallows sink panics.
func SafeUpdate(s Sink, snap ir.Snapshot) {
	if s == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	s.Update(snap)
}

// Recorder is a concurrency-safe in-memory collector of snapshots.
type Recorder struct {
	mu    sync.Mutex
	snaps []ir.Snapshot
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Update(snap ir.Snapshot) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.snaps = append(r.snaps, snap)
	r.mu.Unlock()
}

// Snapshots returns a copy of everything recorded so far.
func (r *Recorder) Snapshots() []ir.Snapshot {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ir.Snapshot, len(r.snaps))
	copy(out, r.snaps)
	return out
}

// Last returns the most recent snapshot.
func (r *Recorder) Last() (ir.Snapshot, bool) {
	if r == nil {
		return ir.Snapshot{}, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		return ir.Snapshot{}, false
	}
	return r.snaps[len(r.snaps)-1], true
}

// MultiSink fans a snapshot out to several sinks in order.
type MultiSink []Sink

func (m MultiSink) Update(snap ir.Snapshot) {
	for _, s := range m {
		SafeUpdate(s, snap)
	}
}
