// Package catalog holds the immutable catalog snapshot and the dataset
// classifier that narrows it to persisted datasets.
package catalog

import (
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/catbind/internal/ir"
	"github.com/roach88/catbind/internal/namespace"
)

var (
	// ErrEmptyKey is returned for entries with an empty key.
	ErrEmptyKey = errors.New("empty dataset key")

	// ErrDuplicateKey is returned when two entries share a key.
	ErrDuplicateKey = errors.New("duplicate dataset key")

	// ErrNilCatalog is returned by consumers handed a nil catalog.
	ErrNilCatalog = errors.New("nil catalog")
)

// Catalog is an ordered, immutable set of catalog entries.
// Keys are unique and NFC-normalised.
type Catalog struct {
	entries []ir.CatalogEntry
	byKey   map[string]int
}

// New builds a catalog from entries in iteration order.
//
// Keys are NFC-normalised so visually identical keys compare equal. Empty
// keys, duplicates and keys rejected by namespace.ValidateKey fail
// construction.
func New(entries ...ir.CatalogEntry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]ir.CatalogEntry, 0, len(entries)),
		byKey:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		e.Key = norm.NFC.String(e.Key)
		if e.Key == "" {
			return nil, ErrEmptyKey
		}
		if err := namespace.ValidateKey(e.Key); err != nil {
			return nil, err
		}
		if _, dup := c.byKey[e.Key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, e.Key)
		}
		c.byKey[e.Key] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c, nil
}

// MustNew is New for fixtures; it panics on error.
func MustNew(entries ...ir.CatalogEntry) *Catalog {
	c, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return c
}

// Entries returns a copy of the entries in catalog order.
func (c *Catalog) Entries() []ir.CatalogEntry {
	if c == nil {
		return nil
	}
	out := make([]ir.CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Lookup returns the entry for key.
func (c *Catalog) Lookup(key string) (ir.CatalogEntry, bool) {
	if c == nil {
		return ir.CatalogEntry{}, false
	}
	idx, ok := c.byKey[key]
	if !ok {
		return ir.CatalogEntry{}, false
	}
	return c.entries[idx], true
}
