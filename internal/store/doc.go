// Package store persists a project snapshot (catalog and pipeline registry)
// in SQLite.
//
// A database holds at most one snapshot. SaveSnapshot replaces it in a
// single transaction, so readers see either the old snapshot or the new one.
//
// # Ordering
//
// Catalog order and node order are significant: the dataset report and the
// progress activity labels depend on them. Every ordered row carries a
// position column and every query orders by it:
//   - datasets: ORDER BY position ASC
//   - nodes: ORDER BY pipeline ASC, position ASC
//
// Port name lists are stored as JSON TEXT with HTML escaping disabled.
package store
