package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/catbind/internal/ir"
	"github.com/roach88/catbind/internal/namespace"
)

func TestNewPreservesOrder(t *testing.T) {
	c, err := New(
		ir.CatalogEntry{Key: "z", TypeName: "PickleDataSet"},
		ir.CatalogEntry{Key: "a", TypeName: "CSVDataSet"},
		ir.CatalogEntry{Key: "m", TypeName: "MemoryDataSet", Category: ir.CategoryEphemeral},
	)
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	var keys []string
	for _, e := range c.Entries() {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"z", "a", "m"}, keys)

	e, ok := c.Lookup("m")
	require.True(t, ok)
	assert.True(t, e.Ephemeral())

	_, ok = c.Lookup("missing")
	assert.False(t, ok)
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New(
		ir.CatalogEntry{Key: "cars", TypeName: "CSVDataSet"},
		ir.CatalogEntry{Key: "cars", TypeName: "ParquetDataSet"},
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateKey))
}

func TestNewNormalisesKeys(t *testing.T) {
	// "é" precomposed vs decomposed collide after NFC.
	_, err := New(
		ir.CatalogEntry{Key: "caf\u00e9", TypeName: "CSVDataSet"},
		ir.CatalogEntry{Key: "cafe\u0301", TypeName: "CSVDataSet"},
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateKey))

	c := MustNew(ir.CatalogEntry{Key: "cafe\u0301", TypeName: "CSVDataSet"})
	_, ok := c.Lookup("caf\u00e9")
	assert.True(t, ok)
}

func TestNewRejectsEmptyAndAmbiguousKeys(t *testing.T) {
	_, err := New(ir.CatalogEntry{Key: ""})
	assert.True(t, errors.Is(err, ErrEmptyKey))

	_, err = New(ir.CatalogEntry{Key: "ns.a__b"})
	assert.True(t, errors.Is(err, namespace.ErrAmbiguousKey))
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	assert.Equal(t, 0, c.Len())
	assert.Nil(t, c.Entries())
	_, ok := c.Lookup("x")
	assert.False(t, ok)
}

func TestMustNewPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustNew(ir.CatalogEntry{Key: "a"}, ir.CatalogEntry{Key: "a"})
	})
}
