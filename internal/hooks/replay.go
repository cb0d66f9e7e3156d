package hooks

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/catbind/internal/ir"
	"github.com/roach88/catbind/internal/progress"
	"github.com/roach88/catbind/internal/scope"
)

// RecordedEvent is one lifecycle event as written in an event file. Node
// names a node of the running pipeline rather than spelling it out.
type RecordedEvent struct {
	Event   string `yaml:"event" json:"event"`
	Node    string `yaml:"node,omitempty" json:"node,omitempty"`
	Dataset string `yaml:"dataset,omitempty" json:"dataset,omitempty"`
}

type eventFile struct {
	Events []RecordedEvent `yaml:"events"`
}

// LoadEventFile reads an event file of the form
//
//	events:
//	  - {event: node_started, node: split}
//	  - {event: dataset_loaded, dataset: raw}
//
// Unknown fields are rejected.
func LoadEventFile(path string) ([]RecordedEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read event file: %w", err)
	}
	var f eventFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse event file %s: %w", path, err)
	}
	return f.Events, nil
}

// ResolveEvents turns recorded events into progress events, looking node
// names up in p. A name p doesn't know becomes a bare node with no ports.
func ResolveEvents(recorded []RecordedEvent, p *ir.Pipeline) ([]progress.Event, error) {
	nodes := make(map[string]ir.Node)
	if p != nil {
		for _, n := range p.Nodes {
			if n.Name != "" {
				nodes[n.Name] = n
			}
		}
	}

	events := make([]progress.Event, 0, len(recorded))
	for i, rec := range recorded {
		kind, err := progress.ParseEventKind(rec.Event)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		ev := progress.Event{Kind: kind, Dataset: rec.Dataset}
		switch kind {
		case progress.EventNodeStarted:
			if n, ok := nodes[rec.Node]; ok {
				ev.Node = n
			} else {
				ev.Node = ir.Node{Name: rec.Node}
			}
		case progress.EventDatasetLoaded, progress.EventDatasetSaved:
			if rec.Dataset == "" {
				return nil, fmt.Errorf("event %d: %s without dataset", i, kind)
			}
		}
		events = append(events, ev)
	}
	return events, nil
}

// SeedInputs stores a placeholder for every input the pipeline declares so a
// replayed load finds data.
func SeedInputs(ctx context.Context, m *MemoryIO, p *ir.Pipeline) error {
	inputs, _ := scope.Declared(p)
	for _, name := range inputs.Sorted() {
		if err := m.Save(ctx, name, name); err != nil {
			return err
		}
	}
	return nil
}

// SeedReplay seeds the declared inputs of p plus every dataset a load in
// events names, so out-of-scope loads still reach the observer.
func SeedReplay(ctx context.Context, m *MemoryIO, p *ir.Pipeline, events []progress.Event) error {
	if p != nil {
		if err := SeedInputs(ctx, m, p); err != nil {
			return err
		}
	}
	for _, ev := range events {
		if ev.Kind != progress.EventDatasetLoaded {
			continue
		}
		if err := m.Save(ctx, ev.Dataset, ev.Dataset); err != nil {
			return err
		}
	}
	return nil
}

// Drive replays recorded lifecycle events against obs. Dataset events go
// through cat, so they are logged and forwarded exactly as live I/O would be.
//
// Drive stops at the first failed load or save, or when ctx is cancelled.
func Drive(ctx context.Context, obs progress.Observer, cat *Catalog, events []progress.Event) error {
	for i, ev := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		switch ev.Kind {
		case progress.EventDatasetLoaded:
			_, err = cat.Load(ctx, ev.Dataset)
		case progress.EventDatasetSaved:
			err = cat.Save(ctx, ev.Dataset, ev.Dataset)
		default:
			err = progress.Dispatch(obs, ev)
		}
		if err != nil {
			return fmt.Errorf("event %d (%s): %w", i, ev.Kind, err)
		}
	}
	return nil
}
