package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/roach88/catbind/internal/ir"
	"github.com/roach88/catbind/internal/namespace"
	"github.com/roach88/catbind/internal/progress"
)

// DatasetIO is the host's dataset access layer. Names are the dotted names
// nodes declare; implementations map them to storage themselves.
type DatasetIO interface {
	Load(ctx context.Context, name string) (any, error)
	Save(ctx context.Context, name string, data any) error
}

// Catalog decorates a DatasetIO, logging each access and notifying an
// Observer after every successful load or save. Failed I/O is not reported.
type Catalog struct {
	io     DatasetIO
	obs    progress.Observer
	logger *slog.Logger
	types  map[string]string
}

var _ DatasetIO = (*Catalog)(nil)

// WrapCatalog decorates io. entries supply the type names shown in logs.
func WrapCatalog(io DatasetIO, entries []ir.CatalogEntry, obs progress.Observer, logger *slog.Logger) *Catalog {
	if obs == nil {
		obs = progress.NopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	types := make(map[string]string, len(entries))
	for _, e := range entries {
		types[e.Key] = e.TypeName
	}
	return &Catalog{io: io, obs: obs, logger: logger, types: types}
}

// Load reads a dataset and reports it to the observer.
func (c *Catalog) Load(ctx context.Context, name string) (any, error) {
	c.logger.Info("loading data", "dataset", name, "type", c.typeOf(name))
	data, err := c.io.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	c.obs.DatasetLoaded(name)
	return data, nil
}

// Save writes a dataset and reports it to the observer.
func (c *Catalog) Save(ctx context.Context, name string, data any) error {
	c.logger.Info("saving data", "dataset", name, "type", c.typeOf(name))
	if err := c.io.Save(ctx, name, data); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	c.obs.DatasetSaved(name)
	return nil
}

func (c *Catalog) typeOf(name string) string {
	if t, ok := c.types[namespace.ToFlatKey(name)]; ok {
		return t
	}
	return "unknown"
}

// MemoryIO is an in-memory DatasetIO.
//
// Thread-safety: MemoryIO is safe for concurrent use.
type MemoryIO struct {
	mu   sync.RWMutex
	data map[string]any
}

var _ DatasetIO = (*MemoryIO)(nil)

func NewMemoryIO() *MemoryIO {
	return &MemoryIO{data: make(map[string]any)}
}

func (m *MemoryIO) Load(ctx context.Context, name string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
	}
	return v, nil
}

func (m *MemoryIO) Save(ctx context.Context, name string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name] = data
	return nil
}

// Names returns stored dataset names in lexical order.
func (m *MemoryIO) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.data))
	for n := range m.data {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
