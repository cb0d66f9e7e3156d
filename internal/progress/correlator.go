package progress

import (
	"fmt"
	"log/slog"

	"github.com/roach88/catbind/internal/catalog"
	"github.com/roach88/catbind/internal/ir"
	"github.com/roach88/catbind/internal/namespace"
	"github.com/roach88/catbind/internal/scope"
)

// Activity labels.
const (
	AnonymousNode    = "<anonymous>"
	ActivityComplete = "✓ Pipeline complete"
)

// Correlator is the per-run progress state machine.
//
// Thread-safety model:
//   - Start and every Observer method must be called from the host engine's
//     execution thread, one at a time
//   - Snapshot is safe only from that same thread
//   - Sinks receive copies and may hand them to other goroutines
//
// INVARIANTS:
//   - every Done stays within [0, Total]
//   - Done values never decrease
//   - every key in inputs/outputs is a key of types
type Correlator struct {
	logger *slog.Logger
	sink   Sink
	clock  Sequencer
	runID  string

	state    ir.RunState
	pipeline string
	activity string
	overall  ir.Counter
	loads    ir.Counter
	saves    ir.Counter

	inputs  ir.KeySet         // exact scope, catalog keys
	outputs ir.KeySet         // exact scope, catalog keys
	declIn  ir.KeySet         // raw declared input names
	declOut ir.KeySet         // raw declared output names
	types   map[string]string // catalog key -> type name

	anomalies []Anomaly
	lastSeq   int64
}

// Option configures a Correlator.
type Option func(*Correlator)

// WithLogger sets the logger used for anomalies and ignored events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Correlator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSink sets the display sink receiving snapshots.
func WithSink(s Sink) Option {
	return func(c *Correlator) {
		if s != nil {
			c.sink = s
		}
	}
}

// WithClock sets the logical clock. Tests share a clock across correlators
// to check ordering.
func WithClock(clock Sequencer) Option {
	return func(c *Correlator) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithRunID tags every snapshot with a run identifier.
func WithRunID(id string) Option {
	return func(c *Correlator) {
		c.runID = id
	}
}

// New creates an Idle correlator.
func New(opts ...Option) *Correlator {
	c := &Correlator{
		logger:  slog.Default(),
		sink:    NopSink{},
		clock:   NewClock(),
		state:   ir.RunIdle,
		inputs:  ir.KeySet{},
		outputs: ir.KeySet{},
		declIn:  ir.KeySet{},
		declOut: ir.KeySet{},
		types:   map[string]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start moves the correlator from Idle to Running.
//
// Totals are fixed here from the exact-match scope of p against the
// persisted datasets of cat: one overall unit per node, one load unit per
// scoped input key, one save unit per scoped output key.
func (c *Correlator) Start(p *ir.Pipeline, cat *catalog.Catalog) error {
	if c.state != ir.RunIdle {
		return ErrAlreadyStarted
	}
	if p == nil {
		return ErrNoPipeline
	}
	if cat == nil {
		return ErrNoCatalog
	}

	ds := catalog.Persisted(cat)
	sc := scope.Compute(ds, p)
	c.declIn, c.declOut = scope.Declared(p)
	c.inputs, c.outputs = sc.Inputs, sc.Outputs
	c.types = ds.Map()

	c.pipeline = p.Name
	c.overall = ir.Counter{Total: p.NodeCount()}
	c.loads = ir.Counter{Total: len(c.inputs)}
	c.saves = ir.Counter{Total: len(c.outputs)}
	c.activity = ""
	c.state = ir.RunRunning

	c.logger.Debug("progress started",
		"run_id", c.runID,
		"pipeline", c.pipeline,
		"nodes", c.overall.Total,
		"loads", c.loads.Total,
		"saves", c.saves.Total,
	)
	c.push()
	return nil
}

// NodeStarted labels the current activity with the node's name.
func (c *Correlator) NodeStarted(node ir.Node) {
	if !c.accept(EventNodeStarted) {
		return
	}
	c.activity = NodeActivity(node)
	c.push()
}

// NodeFinished advances the overall counter.
func (c *Correlator) NodeFinished() {
	if !c.accept(EventNodeFinished) {
		return
	}
	c.advance(&c.overall, "overall")
	c.push()
}

// DatasetLoaded advances the load counter when raw is an in-scope input.
// raw is the name as the host engine reports it, before flattening.
func (c *Correlator) DatasetLoaded(raw string) {
	if !c.accept(EventDatasetLoaded) {
		return
	}
	key := namespace.ToFlatKey(raw)
	if !c.declIn.Has(raw) || !c.inputs.Has(key) {
		c.logger.Debug("load outside scope", "dataset", raw)
		return
	}
	c.advance(&c.loads, "loads")
	c.activity = fmt.Sprintf("loading %s (%s)", raw, c.types[key])
	c.push()
}

// DatasetSaved advances the save counter when raw is an in-scope output.
func (c *Correlator) DatasetSaved(raw string) {
	if !c.accept(EventDatasetSaved) {
		return
	}
	key := namespace.ToFlatKey(raw)
	if !c.declOut.Has(raw) || !c.outputs.Has(key) {
		c.logger.Debug("save outside scope", "dataset", raw)
		return
	}
	c.advance(&c.saves, "saves")
	c.activity = fmt.Sprintf("saving %s (%s)", DisplayName(raw), c.types[key])
	c.push()
}

// RunFinished moves the correlator to Completed.
func (c *Correlator) RunFinished() {
	if !c.accept(EventRunFinished) {
		return
	}
	c.state = ir.RunCompleted
	c.activity = ActivityComplete
	c.logger.Debug("progress completed",
		"run_id", c.runID,
		"pipeline", c.pipeline,
		"overall", c.overall,
		"anomalies", len(c.anomalies),
	)
	c.push()
}

// Snapshot returns the current state without stamping a new seq.
func (c *Correlator) Snapshot() ir.Snapshot {
	return ir.Snapshot{
		RunID:    c.runID,
		Pipeline: c.pipeline,
		Seq:      c.lastSeq,
		State:    c.state,
		Activity: c.activity,
		Overall:  c.overall,
		Loads:    c.loads,
		Saves:    c.saves,
	}
}

// State returns the lifecycle state.
func (c *Correlator) State() ir.RunState {
	return c.state
}

// Anomalies returns the reporting anomalies seen so far.
func (c *Correlator) Anomalies() []Anomaly {
	out := make([]Anomaly, len(c.anomalies))
	copy(out, c.anomalies)
	return out
}

// accept reports whether an event may mutate state in the current phase.
func (c *Correlator) accept(kind EventKind) bool {
	switch c.state {
	case ir.RunRunning:
		return true
	case ir.RunIdle:
		c.anomaly(Anomaly{Code: AnomalyEarlyEvent, Event: kind})
	default:
		c.anomaly(Anomaly{Code: AnomalyLateEvent, Event: kind})
	}
	c.logger.Debug("event ignored", "event", string(kind), "state", string(c.state))
	return false
}

// advance increments a counter, clamping at its total.
func (c *Correlator) advance(ctr *ir.Counter, name string) {
	if ctr.Done >= ctr.Total {
		a := Anomaly{Code: AnomalyOverflow, Counter: name}
		c.anomaly(a)
		c.logger.Warn("progress counter overflow",
			"run_id", c.runID,
			"counter", name,
			"total", ctr.Total,
		)
		return
	}
	ctr.Done++
}

func (c *Correlator) anomaly(a Anomaly) {
	c.anomalies = append(c.anomalies, a)
}

func (c *Correlator) push() {
	c.lastSeq = c.clock.Next()
	SafeUpdate(c.sink, c.Snapshot())
}

// NodeActivity renders the activity label for a started node.
func NodeActivity(node ir.Node) string {
	name := node.Name
	if name == "" {
		name = AnonymousNode
	}
	return "ƒ " + name + "()"
}

// DisplayName renders a dotted dataset name as namespace.key, or just the
// key when there is no namespace.
func DisplayName(raw string) string {
	ns, ok, key := namespace.SplitNamespaceAndKey(raw)
	if !ok {
		return key
	}
	return ns + "." + key
}
