package progress

import (
	"fmt"

	"github.com/roach88/catbind/internal/ir"
)

// EventKind enumerates lifecycle events.
type EventKind string

const (
	EventNodeStarted   EventKind = "node_started"
	EventNodeFinished  EventKind = "node_finished"
	EventDatasetLoaded EventKind = "dataset_loaded"
	EventDatasetSaved  EventKind = "dataset_saved"
	EventRunFinished   EventKind = "run_finished"
)

// EventKinds lists every kind in lifecycle order.
var EventKinds = []EventKind{
	EventNodeStarted,
	EventNodeFinished,
	EventDatasetLoaded,
	EventDatasetSaved,
	EventRunFinished,
}

// ParseEventKind validates a kind name.
func ParseEventKind(s string) (EventKind, error) {
	for _, k := range EventKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEvent, s)
}

// Event is one recorded lifecycle notification.
// Node is set for node_started, Dataset for dataset_loaded/dataset_saved.
type Event struct {
	Kind    EventKind `json:"event" yaml:"event"`
	Node    ir.Node   `json:"node,omitempty" yaml:"node,omitempty"`
	Dataset string    `json:"dataset,omitempty" yaml:"dataset,omitempty"`
}

// Dispatch delivers ev to obs through the matching Observer method.
func Dispatch(obs Observer, ev Event) error {
	switch ev.Kind {
	case EventNodeStarted:
		obs.NodeStarted(ev.Node)
	case EventNodeFinished:
		obs.NodeFinished()
	case EventDatasetLoaded:
		obs.DatasetLoaded(ev.Dataset)
	case EventDatasetSaved:
		obs.DatasetSaved(ev.Dataset)
	case EventRunFinished:
		obs.RunFinished()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}
	return nil
}

// DispatchAll delivers events in order, stopping at the first unknown kind.
func DispatchAll(obs Observer, events []Event) error {
	for i, ev := range events {
		if err := Dispatch(obs, ev); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	return nil
}
