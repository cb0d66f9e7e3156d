package ir

// RunState is the lifecycle state of a progress run.
type RunState string

const (
	RunIdle      RunState = "idle"
	RunRunning   RunState = "running"
	RunCompleted RunState = "completed"
)

// Counter is a (done, total) pair. Done never exceeds Total.
type Counter struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// Remaining returns how many units are still outstanding.
func (c Counter) Remaining() int {
	return c.Total - c.Done
}

// Snapshot is a point-in-time view of a progress run, pushed to display sinks
// after every mutating event.
type Snapshot struct {
	RunID    string   `json:"run_id"`
	Pipeline string   `json:"pipeline"`
	Seq      int64    `json:"seq"` // Logical clock
	State    RunState `json:"state"`
	Activity string   `json:"activity"`
	Overall  Counter  `json:"overall"`
	Loads    Counter  `json:"loads"`
	Saves    Counter  `json:"saves"`
}
