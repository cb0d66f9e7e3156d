package progress

import "github.com/roach88/catbind/internal/ir"

// Observer is the closed set of lifecycle notifications a host execution
// engine delivers, in order, from its execution thread.
type Observer interface {
	NodeStarted(node ir.Node)
	NodeFinished()
	DatasetLoaded(name string)
	DatasetSaved(name string)
	RunFinished()
}

// NopObserver ignores every event. Used when correlation is disabled.
type NopObserver struct{}

func (NopObserver) NodeStarted(ir.Node)  {}
func (NopObserver) NodeFinished()        {}
func (NopObserver) DatasetLoaded(string) {}
func (NopObserver) DatasetSaved(string)  {}
func (NopObserver) RunFinished()         {}

var (
	_ Observer = NopObserver{}
	_ Observer = (*Correlator)(nil)
)
