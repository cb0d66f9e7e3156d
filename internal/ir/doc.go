// Package ir provides the shared data model for catbind.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps the model the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Catalog keys are flat (namespace separator "__"), node port names are
//     dotted; reconciliation lives in internal/namespace, never here
//   - Category tags are assigned once at ingestion, never derived from a
//     storage type name at use sites
//   - All JSON tags use snake_case
//   - Snapshots carry a logical seq, never wall-clock timestamps
package ir
